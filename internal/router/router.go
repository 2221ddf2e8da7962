// Package router wires the HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/dmolina/building-table-reservation/internal/config"
	"github.com/dmolina/building-table-reservation/internal/handler"
	"github.com/dmolina/building-table-reservation/internal/metrics"
	"github.com/dmolina/building-table-reservation/internal/middleware"
	"github.com/dmolina/building-table-reservation/internal/model"
	"github.com/dmolina/building-table-reservation/internal/tenant"
)

// Deps carries everything the route table needs.
type Deps struct {
	Cfg          config.Config
	Registry     *tenant.Registry
	Auth         *handler.AuthHandler
	Browse       *handler.BrowseHandler
	Reservations *handler.ReservationHandler
	Redis        *redis.Client // nil disables rate limiting
}

// Register wires all routes.  Building-scoped routes live under
// /:building/api and resolve their tenant before anything else; protected
// routes then verify the session and pin it to the resolved building.
// Admin routes add the role check on top.
func Register(e *echo.Echo, d Deps) {
	// Process-level endpoints, no tenant involved.
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", metrics.Handler())
	e.GET("/api/buildings", d.Browse.GetBuildings)

	b := e.Group("/:building/api", middleware.TenantResolver(d.Registry))

	// Login is the only building-scoped route without a session.
	b.POST("/login", d.Auth.Login,
		middleware.LoginRateLimit(config.LoadRateLimitConfig(), d.Redis))

	// Everything else requires a session minted for this building.
	authed := b.Group("", middleware.JWTAuth(d.Cfg.JWTSecret), middleware.TenantGuard())
	authed.GET("/tables", d.Browse.GetTables)
	authed.GET("/turns", d.Browse.GetTurns)
	authed.GET("/reservations", d.Reservations.List)
	authed.POST("/reservations", d.Reservations.Create)

	// Admin-only operations.
	admin := authed.Group("", middleware.RequireRole(model.RoleAdmin))
	admin.POST("/register", d.Auth.Register)
	admin.DELETE("/reservations/:id", d.Reservations.Delete)
}
