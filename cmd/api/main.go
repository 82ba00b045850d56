package main

import (
	"context"
	"go-talent-marketplace/config"
	v1 "go-talent-marketplace/internal/delivery/http/v1"
	"go-talent-marketplace/internal/repository/postgres"
	"go-talent-marketplace/internal/usecase"
	"go-talent-marketplace/pkg/antivirus"
	"go-talent-marketplace/pkg/auth"
	"go-talent-marketplace/pkg/database"
	"go-talent-marketplace/pkg/email"
	"go-talent-marketplace/pkg/logger"
	"go-talent-marketplace/pkg/redis"
	"go-talent-marketplace/pkg/storage"
	"go-talent-marketplace/pkg/upload"
	"go-talent-marketplace/pkg/validation"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
)

// @title           Talent Marketplace API
// @version         1.0
// @description     Backend for the candidate onboarding and review platform.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting talent marketplace backend", "port", cfg.Port)

	// 3. Setup Redis (rate limiting, login tracking, upload quotas)
	if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable, falling back to in-memory limits", "error", err)
	}

	// 4. Setup Database
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 5. Setup Document Storage
	var store *storage.Store
	storageCfg := storage.ConfigFromEnv()
	if storageCfg.IsConfigured() {
		store, err = storage.New(context.Background(), storageCfg)
		if err != nil {
			logger.Log.Error("Failed to initialize document storage", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Log.Warn("Document storage not configured - uploads will be unavailable")
	}

	// 6. Setup Malware Scanning
	var scanner antivirus.Scanner
	if cfg.ClamAVAddress != "" {
		scanner = antivirus.NewChain(antivirus.NewClamAV(cfg.ClamAVAddress, 30*time.Second))
	} else {
		logger.Log.Warn("CLAMAV_ADDRESS not set - uploads will not be scanned")
		scanner = antivirus.NewNoOpScanner()
	}

	// 7. Setup Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	profileRepo := postgres.NewProfileRepository(dbPool)
	documentRepo := postgres.NewDocumentRepository(dbPool)

	// 8. Setup Email Service
	emailService := email.NewService(email.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		To:       cfg.ReviewEmailTo,
	})
	if !emailService.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - submission notifications will be skipped")
	}

	// 9. Setup Auth Primitives
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, time.Duration(cfg.AccessTokenMinutes)*time.Minute)
	sessions := auth.NewRefreshStore(time.Duration(cfg.RefreshTokenDays) * 24 * time.Hour)
	tracker := auth.NewLoginTracker(auth.LoginTrackerConfig{
		MaxAttempts:   cfg.FailedLoginMaxAttempts,
		AttemptWindow: time.Duration(cfg.FailedLoginBlockMinutes) * time.Minute,
		BlockDuration: time.Duration(cfg.FailedLoginBlockMinutes) * time.Minute,
		TrackIP:       true,
	})
	uploadLimiter := upload.NewLimiter(cfg.UploadsPerMinutePerIP, cfg.UploadsPerDayPerUser)

	// 10. Setup UseCases
	validate := validator.New()
	validation.RegisterValidators(validate)
	authUC := usecase.NewAuthUsecase(userRepo, profileRepo, tokens, sessions, tracker)
	candidateUC := usecase.NewCandidateUsecase(profileRepo)
	onboardingUC := usecase.NewOnboardingUsecase(profileRepo, validate, emailService)
	documentUC := usecase.NewDocumentUsecase(documentRepo, store, scanner, uploadLimiter)
	adminUC := usecase.NewAdminUsecase(profileRepo, validate)
	healthUC := usecase.NewHealthUsecase(dbPool)

	// 11. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:       authUC,
		CandidateUC:  candidateUC,
		OnboardingUC: onboardingUC,
		DocumentUC:   documentUC,
		AdminUC:      adminUC,
		HealthUC:     healthUC,
		Tokens:       tokens,
		Config:       cfg,
	})

	// 12. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
