package app

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kinderhomes/kinder-estate/internal/auth"
	"github.com/kinderhomes/kinder-estate/internal/properties"
)

// RegisterRoutes wires repositories, services, and handlers, then sets up
// all application routes. This is the single place where the route table is
// aggregated.
func (a *App) RegisterRoutes() {
	e := a.Echo

	// --- Auth ---
	userRepo := auth.NewUserRepository(a.DB)
	authService := auth.NewAuthService(userRepo, a.Redis,
		a.Config.Auth.SessionTTL, a.Config.Auth.StoreTimeout)
	authHandler := auth.NewHandler(authService,
		a.Config.Auth.SessionTTL, !a.Config.IsDevelopment())
	auth.RegisterRoutes(e, authHandler, authService)

	// --- Listings ---
	propertyRepo := properties.NewPropertyRepository(a.DB)
	propertyService := properties.NewPropertyService(propertyRepo, a.Config.Auth.StoreTimeout)
	propertyHandler := properties.NewHandler(propertyService)
	properties.RegisterRoutes(e, propertyHandler, auth.RequireAuth(authService))

	// --- Public utility routes ---

	// Landing route, kept for parity with the original deployment's
	// root-path smoke check.
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Welcome to Kinder Real Estate Backend")
	})

	// Health check endpoint for Docker health monitoring.
	e.GET("/healthz", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		if err := a.DB.PingContext(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "db unreachable"})
		}
		if err := a.Redis.Ping(ctx).Err(); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "redis unreachable"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}
