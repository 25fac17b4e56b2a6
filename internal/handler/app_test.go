package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/trace-ai/trace-api/internal/config"
	"github.com/trace-ai/trace-api/internal/handler"
	"github.com/trace-ai/trace-api/internal/middleware"
	"github.com/trace-ai/trace-api/internal/models"
	"github.com/trace-ai/trace-api/internal/repository"
	"github.com/trace-ai/trace-api/internal/router"
	"github.com/trace-ai/trace-api/internal/service"
	"github.com/trace-ai/trace-api/internal/utils"
	"github.com/trace-ai/trace-api/pkg/ai"
)

const testJWTSecret = "handler-test-secret"

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Submission{}))

	users := repository.NewUserRepository(db)
	submissions := repository.NewSubmissionRepository(db)
	validate := validator.New()
	logger := zerolog.New(io.Discard)
	client := ai.NewMockClient()

	cfg := config.Config{
		AppName:           "trace-api-test",
		AppEnv:            "test",
		JWTSecret:         testJWTSecret,
		TokenTTL:          time.Hour,
		DashboardCacheTTL: time.Minute,
	}

	authService := service.NewAuthService(users, validate, logger, service.AuthConfig{
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.TokenTTL,
	})
	reviews := service.NewReviewService(submissions, users, client, nil, logger)
	consultant := service.NewConsultantService(submissions, client, validate, logger)
	dashboard := service.NewDashboardService(users, submissions, nil, cfg.DashboardCacheTTL, logger)

	app := fiber.New()
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:   handler.NewAuthHandler(authService, logger),
		ReviewHandler: handler.NewReviewHandler(reviews, consultant, dashboard, logger),
		JWTMiddleware: middleware.JWTProtected(cfg.JWTSecret, users),
	})

	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	return resp
}

func decodeResponse(t *testing.T, resp *http.Response) utils.APIResponse {
	t.Helper()

	defer resp.Body.Close()

	var envelope utils.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))

	return envelope
}

// decodeData re-marshals the envelope's data field into the given target so
// tests can assert on typed DTOs.
func decodeData(t *testing.T, envelope utils.APIResponse, target interface{}) {
	t.Helper()

	raw, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, target))
}

func signupTestUser(t *testing.T, app *fiber.App, username string) string {
	t.Helper()

	resp := doRequest(t, app, http.MethodPost, "/api/auth/signup", "", fiber.Map{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var auth struct {
		Token string `json:"token"`
	}
	decodeData(t, decodeResponse(t, resp), &auth)
	require.NotEmpty(t, auth.Token)

	return auth.Token
}
