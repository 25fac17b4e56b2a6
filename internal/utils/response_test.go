package utils_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/trace-ai/trace-api/internal/utils"
)

func performRequest(t *testing.T, handler fiber.Handler) (*http.Response, utils.APIResponse) {
	t.Helper()

	app := fiber.New()
	app.Get("/", handler)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var envelope utils.APIResponse
	require.NoError(t, json.Unmarshal(body, &envelope))

	return resp, envelope
}

func TestSendSuccessEnvelope(t *testing.T) {
	resp, envelope := performRequest(t, func(c *fiber.Ctx) error {
		return utils.SendSuccess(c, "done", fiber.Map{"value": 42})
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, envelope.Success)
	require.Equal(t, "done", envelope.Message)
	require.NotNil(t, envelope.Data)
}

func TestSendSuccessWithStatusDefaults(t *testing.T) {
	resp, envelope := performRequest(t, func(c *fiber.Ctx) error {
		return utils.SendSuccessWithStatus(c, 0, "", nil)
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, envelope.Success)
	require.Equal(t, "success", envelope.Message)
}

func TestSendErrorEnvelope(t *testing.T) {
	resp, envelope := performRequest(t, func(c *fiber.Ctx) error {
		return utils.SendError(c, fiber.StatusNotFound, "missing")
	})

	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.False(t, envelope.Success)
	require.Equal(t, "missing", envelope.Message)
	require.Nil(t, envelope.Data)
}

func TestSendErrorWithDetailsCarriesItems(t *testing.T) {
	_, envelope := performRequest(t, func(c *fiber.Ctx) error {
		return utils.SendErrorWithDetails(c, fiber.StatusBadRequest, "Validation failed", []string{"Code is required"})
	})

	require.False(t, envelope.Success)
	require.Equal(t, []interface{}{"Code is required"}, envelope.Details)
}

func TestSendErrorWithDataKeepsPayload(t *testing.T) {
	resp, envelope := performRequest(t, func(c *fiber.Ctx) error {
		return utils.SendErrorWithData(c, fiber.StatusInternalServerError, "AI service temporarily unavailable",
			fiber.Map{"submission_id": 7})
	})

	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.False(t, envelope.Success)
	require.NotNil(t, envelope.Data)
}
