package v1

import (
	"net/http"
	"strconv"

	"go-talent-marketplace/internal/delivery/http/response"
	"go-talent-marketplace/internal/domain"
	"go-talent-marketplace/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminUC domain.AdminUsecase
}

func NewAdminHandler(admin *gin.RouterGroup, adminUC domain.AdminUsecase) {
	handler := &AdminHandler{adminUC: adminUC}

	profiles := admin.Group("/profiles")
	{
		profiles.GET("", handler.ListProfiles)
		profiles.GET("/:userId", handler.GetProfile)
		profiles.POST("/:userId/review", handler.Review)
	}
}

// ListProfiles godoc
// @Summary      List profiles by status
// @Description  List candidate profiles in the review queue (defaults to SUBMITTED)
// @Tags         admin
// @Produce      json
// @Param        status  query     string  false  "Profile status"
// @Param        limit   query     int     false  "Page size (max 100)"
// @Param        offset  query     int     false  "Page offset"
// @Success      200  {object}  response.Response{data=[]domain.CandidateProfile}
// @Failure      403  {object}  response.Response
// @Router       /admin/profiles [get]
// @Security     BearerAuth
func (h *AdminHandler) ListProfiles(c *gin.Context) {
	status := domain.ProfileStatus(c.Query("status"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	profiles, err := h.adminUC.ListProfiles(c.Request.Context(), status, limit, offset)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profiles", profiles)
}

// GetProfile godoc
// @Summary      Get a candidate profile
// @Tags         admin
// @Produce      json
// @Param        userId  path      string  true  "Candidate user ID"
// @Success      200  {object}  response.Response{data=domain.FullProfile}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /admin/profiles/{userId} [get]
// @Security     BearerAuth
func (h *AdminHandler) GetProfile(c *gin.Context) {
	full, err := h.adminUC.GetProfile(c.Request.Context(), c.Param("userId"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidate profile", full)
}

// Review godoc
// @Summary      Review a profile
// @Description  Move a submitted profile through the review lifecycle
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        userId  path      string                true  "Candidate user ID"
// @Param        review  body      domain.ReviewRequest  true  "Review decision"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /admin/profiles/{userId}/review [post]
// @Security     BearerAuth
func (h *AdminHandler) Review(c *gin.Context) {
	var req domain.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("A review status is required"))
		return
	}

	if err := h.adminUC.Review(c.Request.Context(), c.Param("userId"), &req); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile review updated", nil)
}
