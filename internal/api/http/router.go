package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tcheflux/helpdesk/internal/api/http/handlers"
	"github.com/tcheflux/helpdesk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	tickets := api.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Post("/", cfg.Tickets.Create)
	tickets.Get("/meus-tickets", cfg.Tickets.ListMine)
	tickets.Get("/departamento", auth.RequireAgent(), cfg.Tickets.ListDepartment)
	tickets.Get("/ticket-atendente", auth.RequireAgent(), cfg.Tickets.ListAssigned)
	tickets.Put("/:nro/assumir", auth.RequireAgent(), cfg.Tickets.Claim)
	tickets.Put("/:nro/comentario", cfg.Tickets.AddComment)
	tickets.Put("/:nro/status", cfg.Tickets.SetStatus)
	tickets.Get("/:nro", cfg.Tickets.GetDetail)
}
