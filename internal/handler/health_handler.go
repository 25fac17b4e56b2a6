package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/trace-ai/trace-api/internal/config"
	"github.com/trace-ai/trace-api/internal/utils"
)

// HealthCheck reports service liveness.
func HealthCheck(cfg config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return utils.SendSuccess(c, "Server is running", fiber.Map{
			"app":       cfg.AppName,
			"env":       cfg.AppEnv,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
