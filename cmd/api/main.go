package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/trace-ai/trace-api/internal/config"
	"github.com/trace-ai/trace-api/internal/database"
	"github.com/trace-ai/trace-api/internal/handler"
	"github.com/trace-ai/trace-api/internal/middleware"
	"github.com/trace-ai/trace-api/internal/models"
	"github.com/trace-ai/trace-api/internal/repository"
	"github.com/trace-ai/trace-api/internal/router"
	"github.com/trace-ai/trace-api/internal/service"
	"github.com/trace-ai/trace-api/pkg/ai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Submission{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not configured, dashboard caching disabled")
	}

	aiClient, err := buildAIClient(cfg, logger)
	if err != nil {
		log.Fatalf("failed to create ai client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)

	authService := service.NewAuthService(userRepo, validate, logger, service.AuthConfig{
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.TokenTTL,
	})
	reviewService := service.NewReviewService(submissionRepo, userRepo, aiClient, redisClient, logger)
	consultantService := service.NewConsultantService(submissionRepo, aiClient, validate, logger)
	dashboardService := service.NewDashboardService(userRepo, submissionRepo, redisClient, cfg.DashboardCacheTTL, logger)

	authHandler := handler.NewAuthHandler(authService, logger)
	reviewHandler := handler.NewReviewHandler(reviewService, consultantService, dashboardService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:   authHandler,
		ReviewHandler: reviewHandler,
		JWTMiddleware: middleware.JWTProtected(cfg.JWTSecret, userRepo),
		AuthLimiter:   middleware.RateLimit("auth", cfg.AuthRateLimit, cfg.RateLimitWindow),
		ReviewLimiter: middleware.RateLimit("review", cfg.ReviewRateLimit, cfg.RateLimitWindow),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func buildAIClient(cfg config.Config, logger zerolog.Logger) (ai.Client, error) {
	switch cfg.AIProvider {
	case "openai":
		return ai.NewOpenAIClient(ai.OpenAIConfig{
			APIKey:    cfg.OpenAIAPIKey,
			BaseURL:   cfg.OpenAIBaseURL,
			Model:     cfg.AIModel,
			MaxTokens: cfg.AIMaxTokens,
			Logger:    logger,
		})
	case "gemini":
		return ai.NewGeminiClient(ai.GeminiConfig{
			APIKey:    cfg.GeminiAPIKey,
			Model:     cfg.AIModel,
			MaxTokens: cfg.AIMaxTokens,
			Logger:    logger,
		})
	case "mock":
		logger.Warn().Msg("using mock ai client")
		return ai.NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.AIProvider)
	}
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
