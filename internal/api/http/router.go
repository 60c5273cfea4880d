package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vilyx-net/vector/internal/api/http/handlers"
	"github.com/vilyx-net/vector/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Tickets       *handlers.TicketsHandler
	OpsMiddleware *auth.OpsMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	admin := app.Group("/admin", cfg.OpsMiddleware.Handle)
	admin.Get("/tickets", cfg.Tickets.List)
	admin.Get("/tickets/:channel_id", cfg.Tickets.Get)
}
