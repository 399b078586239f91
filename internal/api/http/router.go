package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sweet-shop-service/internal/api/http/handlers"
	"github.com/spec-kit/sweet-shop-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Sweets         *handlers.SweetsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Every sweets route sits behind the
// authentication middleware; mutating routes add the admin guard.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	sweets := api.Group("/sweets", cfg.AuthMiddleware.Handle)
	sweets.Get("/", cfg.Sweets.List)
	sweets.Get("/search", cfg.Sweets.Search)
	sweets.Post("/:id/purchase", cfg.Sweets.Purchase)

	sweets.Post("/", auth.RequireAdmin(), cfg.Sweets.Create)
	sweets.Put("/:id", auth.RequireAdmin(), cfg.Sweets.Update)
	sweets.Delete("/:id", auth.RequireAdmin(), cfg.Sweets.Delete)
}
