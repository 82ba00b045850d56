package v1

import (
	"net/http"
	"time"

	"go-talent-marketplace/config"
	"go-talent-marketplace/internal/delivery/http/middleware"
	"go-talent-marketplace/internal/delivery/http/response"
	"go-talent-marketplace/internal/domain"
	"go-talent-marketplace/internal/usecase"
	"go-talent-marketplace/pkg/auth"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC       domain.AuthUsecase
	CandidateUC  domain.CandidateUsecase
	OnboardingUC domain.OnboardingUsecase
	DocumentUC   domain.DocumentUsecase
	AdminUC      domain.AdminUsecase
	HealthUC     usecase.HealthUsecase
	Tokens       *auth.TokenManager
	Config       *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.FrontendURL)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimitMiddleware(middleware.GlobalRateLimitConfig(
		deps.Config.RateLimitGlobalThreshold,
		time.Duration(deps.Config.RateLimitWindowSeconds)*time.Second,
	)))

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", deps.HealthUC.Check(c.Request.Context()))
	})

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Credential endpoints carry their own strict limiter
	loginLimited := v1.Group("")
	loginLimited.Use(middleware.RateLimitMiddleware(middleware.LoginRateLimitConfig(
		deps.Config.RateLimitLoginThreshold,
		time.Duration(deps.Config.RateLimitWindowSeconds)*time.Second,
	)))

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Tokens, deps.AuthUC))

	// Candidate-facing routes: candidates own the wizard, admins may peek
	candidateArea := protected.Group("")
	candidateArea.Use(middleware.RequireRoles(domain.RoleCandidate))

	// Admin review queue
	adminArea := protected.Group("/admin")
	adminArea.Use(middleware.RequireRoles(domain.RoleAdmin))

	NewAuthHandler(loginLimited, protected, deps.AuthUC, deps.OnboardingUC)
	NewCandidateHandler(candidateArea, deps.CandidateUC)
	NewOnboardingHandler(candidateArea, deps.OnboardingUC)
	NewDocumentHandler(candidateArea, deps.DocumentUC)
	NewAdminHandler(adminArea, deps.AdminUC)

	return r
}
