package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/token-service/internal/api/dto"
	"github.com/spec-kit/token-service/internal/api/http/handlers"
	"github.com/spec-kit/token-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Tokens  *handlers.TokensHandler
	Bearer  *BearerMiddleware
	Metrics *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", func(c *fiber.Ctx) error {
		requests, errors := cfg.Metrics.Snapshot()
		return c.JSON(fiber.Map{"requests": requests, "errors": errors})
	})

	app.Post("/token", cfg.Tokens.Generate)
	app.Post("/token/validate", cfg.Tokens.Validate)
	app.Post("/token/regen", cfg.Tokens.Regenerate)
	app.Post("/token/revoke", cfg.Tokens.Revoke)

	app.Get("/me", cfg.Bearer.Handle, RequireAuthenticated(), func(c *fiber.Ctx) error {
		claims, _ := ClaimsFromContext(c)
		return c.JSON(dto.CurrentUserResponse{
			UserID:     claims.Data.User.ID,
			TrackingID: claims.Data.User.TrackingID,
			Extended:   claims.Data.Extended,
		})
	})
}
