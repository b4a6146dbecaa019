package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kinderhomes/kinder-estate/internal/apperror"
)

// sessionCookieName is the HTTP cookie used to store the session token.
const sessionCookieName = "kinder_session"

// Handler handles HTTP requests for authentication (signup, login, logout,
// password change, session inspection). Handlers are thin: they bind the
// request, call the service, and write the JSON response. No business logic
// lives here.
type Handler struct {
	service AuthService

	// cookieTTL is the session cookie max-age, matching the server-side TTL.
	cookieTTL time.Duration

	// secureCookies marks the session cookie Secure; it is disabled only in
	// local development, where the server speaks plain HTTP.
	secureCookies bool
}

// NewHandler creates a new auth handler with the given service. secureCookies
// should be true in any TLS-fronted deployment.
func NewHandler(service AuthService, cookieTTL time.Duration, secureCookies bool) *Handler {
	return &Handler{
		service:       service,
		cookieTTL:     cookieTTL,
		secureCookies: secureCookies,
	}
}

// Signup creates a new account (POST /signup).
func (h *Handler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	user, err := h.service.Register(c.Request().Context(), RegisterInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}

// Login authenticates and issues a session cookie (POST /login).
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	token, _, err := h.service.Login(c.Request().Context(), LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	h.setSessionCookie(c, token)
	return c.JSON(http.StatusOK, map[string]string{"message": "Authentication succeeded"})
}

// Logout destroys the session and clears the cookie (GET /logout).
// Idempotent: logging out without a session still succeeds.
func (h *Handler) Logout(c echo.Context) error {
	token := getSessionToken(c)
	if token != "" {
		// Destroy the session in Redis. Ignore errors -- the cookie
		// will be cleared regardless.
		_ = h.service.DestroySession(c.Request().Context(), token)
	}

	clearSessionCookie(c)
	return c.JSON(http.StatusOK, map[string]string{"message": "Logout successful"})
}

// ChangePassword replaces the caller's password (POST /change-password).
// The old password re-authenticates the request, so no session is required.
func (h *Handler) ChangePassword(c echo.Context) error {
	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	err := h.service.ChangePassword(c.Request().Context(), ChangePasswordInput{
		Username:    req.Username,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Password changed successfully"})
}

// Check reports whether the request carries a valid session
// (GET /api/auth/check). Always 200; the body carries the verdict.
func (h *Handler) Check(c echo.Context) error {
	token := getSessionToken(c)
	if token == "" {
		return c.JSON(http.StatusOK, map[string]bool{"isAuthenticated": false})
	}

	if _, err := h.service.ValidateSession(c.Request().Context(), token); err != nil {
		// A stale cookie is dropped; a store failure leaves it alone so a
		// transient outage doesn't log everyone out.
		if isSessionInvalid(err) {
			clearSessionCookie(c)
		}
		return c.JSON(http.StatusOK, map[string]bool{"isAuthenticated": false})
	}

	return c.JSON(http.StatusOK, map[string]bool{"isAuthenticated": true})
}

// Sessions lists the caller's active sessions (GET /api/auth/sessions).
func (h *Handler) Sessions(c echo.Context) error {
	userID := GetUserID(c)
	if userID == "" {
		return apperror.NewNotAuthenticated()
	}

	infos, err := h.service.ListSessions(c.Request().Context(), userID, getSessionToken(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{"sessions": infos})
}

// RevokeSession destroys one of the caller's sessions by its listing ID
// (DELETE /api/auth/sessions/:id).
func (h *Handler) RevokeSession(c echo.Context) error {
	userID := GetUserID(c)
	if userID == "" {
		return apperror.NewNotAuthenticated()
	}

	if err := h.service.RevokeSession(c.Request().Context(), userID, c.Param("id")); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Session revoked"})
}

// --- Cookie helpers ---

// getSessionToken reads the session token from the cookie.
func getSessionToken(c echo.Context) string {
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	return cookie.Value
}

// setSessionCookie sets the session cookie on the response. The cookie is
// HttpOnly (JS can't read it) and SameSite=Strict; max-age tracks the
// server-side session TTL so the browser and Redis expire together.
func (h *Handler) setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(h.cookieTTL.Seconds()),
	})
}

// clearSessionCookie removes the session cookie by setting MaxAge to -1.
func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
