package auth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kinderhomes/kinder-estate/internal/apperror"
)

// Context keys for storing the resolved principal in Echo context. Other
// packages use these keys (via the exported getter functions below) to
// access the authenticated user's information.
const (
	contextKeyUser   = "auth_user"
	contextKeyUserID = "auth_user_id"
)

// RequireAuth returns middleware that validates the session cookie and
// injects the resolved user into the request context. This is the single
// authorization gate: every protected route group runs it as its first
// step, and no handler performs a bespoke session check of its own.
// A missing, expired, or orphaned session yields a 401 JSON response.
func RequireAuth(service AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := getSessionToken(c)
			if token == "" {
				return apperror.NewNotAuthenticated()
			}

			user, err := service.ValidateSession(c.Request().Context(), token)
			if err != nil {
				// Clear the cookie only when the session itself is invalid.
				// A store outage must not wipe valid cookies client-side.
				if isSessionInvalid(err) {
					clearSessionCookie(c)
				}
				return err
			}

			// Store the principal in context for downstream handlers. It is
			// recomputed on every request, never cached across requests.
			c.Set(contextKeyUser, user)
			c.Set(contextKeyUserID, user.ID)

			return next(c)
		}
	}
}

// isSessionInvalid reports whether a ValidateSession failure means the
// session itself is missing or expired, as opposed to the store being
// unreachable.
func isSessionInvalid(err error) bool {
	var appErr *apperror.AppError
	return errors.As(err, &appErr) && appErr.Code == http.StatusUnauthorized
}

// --- Exported getters for other packages ---

// GetUser retrieves the authenticated user from the Echo context.
// Returns nil if the request is not authenticated (middleware not applied).
func GetUser(c echo.Context) *User {
	user, ok := c.Get(contextKeyUser).(*User)
	if !ok {
		return nil
	}
	return user
}

// GetUserID retrieves the authenticated user's ID from the Echo context.
// Returns empty string if the request is not authenticated.
func GetUserID(c echo.Context) string {
	id, ok := c.Get(contextKeyUserID).(string)
	if !ok {
		return ""
	}
	return id
}
