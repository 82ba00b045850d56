package v1

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"go-talent-marketplace/internal/delivery/http/response"
	"go-talent-marketplace/internal/domain"
	"go-talent-marketplace/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// Step bodies are small JSON documents; anything bigger is abuse.
const maxStepBodySize = 256 << 10 // 256KB

type OnboardingHandler struct {
	onboardingUC domain.OnboardingUsecase
}

func NewOnboardingHandler(protected *gin.RouterGroup, onboardingUC domain.OnboardingUsecase) {
	handler := &OnboardingHandler{onboardingUC: onboardingUC}

	onboarding := protected.Group("/onboarding")
	{
		onboarding.GET("/state", handler.GetState)
		onboarding.POST("/steps/:step", handler.SaveStep)
	}
}

// GetState godoc
// @Summary      Onboarding state
// @Description  Get the wizard resume position and saved form data
// @Tags         onboarding
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.OnboardingState}
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /onboarding/state [get]
// @Security     BearerAuth
func (h *OnboardingHandler) GetState(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	state, err := h.onboardingUC.GetState(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Onboarding state", state)
}

// SaveStep godoc
// @Summary      Save an onboarding step
// @Description  Validate and persist one wizard step. Saving the final step submits the profile for review.
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Param        step  path      int     true  "Step index (0-7)"
// @Param        body  body      object  true  "Step payload"
// @Success      200   {object}  response.Response{data=domain.OnboardingState}
// @Failure      400   {object}  response.Response
// @Failure      401   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /onboarding/steps/{step} [post]
// @Security     BearerAuth
func (h *OnboardingHandler) SaveStep(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	stepIdx, err := strconv.Atoi(c.Param("step"))
	if err != nil {
		c.Error(apperror.BadRequest("Step must be a number"))
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxStepBodySize))
	if err != nil {
		c.Error(apperror.BadRequest("Failed to read request body"))
		return
	}
	if len(body) == 0 {
		c.Error(apperror.BadRequest("Request body is required"))
		return
	}

	state, err := h.onboardingUC.SaveStep(c.Request.Context(), userID, domain.Step(stepIdx), json.RawMessage(body))
	if err != nil {
		c.Error(err)
		return
	}

	msg := "Step saved"
	if state.Status == domain.StatusSubmitted {
		msg = "Profile submitted for review"
	}
	response.Success(c, http.StatusOK, msg, state)
}
