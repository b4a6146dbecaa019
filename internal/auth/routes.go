package auth

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kinderhomes/kinder-estate/internal/middleware"
)

// RegisterRoutes sets up all auth-related routes on the given Echo instance.
// Credential routes are public (no session required) -- the RequireAuth
// middleware is exported separately for other packages to apply to their
// protected route groups.
//
// Credential POST endpoints are rate-limited to slow brute-force and
// credential stuffing: 10 attempts per IP per minute for login and
// change-password, 5 for signup.
func RegisterRoutes(e *echo.Echo, h *Handler, service AuthService) {
	e.POST("/signup", h.Signup, middleware.RateLimit(5, time.Minute))
	e.POST("/login", h.Login, middleware.RateLimit(10, time.Minute))
	e.GET("/logout", h.Logout)
	e.POST("/change-password", h.ChangePassword, middleware.RateLimit(10, time.Minute))
	e.GET("/api/auth/check", h.Check)

	// Session inspection requires an active session.
	authed := e.Group("/api/auth", RequireAuth(service))
	authed.GET("/sessions", h.Sessions)
	authed.DELETE("/sessions/:id", h.RevokeSession)
}
