package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/trace-ai/trace-api/internal/config"
	"github.com/trace-ai/trace-api/internal/handler"
	"github.com/trace-ai/trace-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler   *handler.AuthHandler
	ReviewHandler *handler.ReviewHandler
	JWTMiddleware fiber.Handler
	AuthLimiter   fiber.Handler
	ReviewLimiter fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		auth := app.Group("/api/auth")
		deps.AuthHandler.Register(auth, deps.AuthLimiter)

		me := app.Group("/api/auth", jwtMiddleware)
		deps.AuthHandler.RegisterProtected(me)
	}

	if deps.ReviewHandler != nil {
		review := app.Group("/api/review", jwtMiddleware)
		deps.ReviewHandler.Register(review, deps.ReviewLimiter)
	}

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Route not found",
		})
	})
}
