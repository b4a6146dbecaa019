// Package auth handles user authentication, session management, and password
// security for the Kinder Estate backend. It provides signup, login, logout,
// password change, and session validation via opaque tokens stored in Redis.
package auth

import (
	"time"
)

// User represents a registered account. This is the domain model used
// throughout the application. Database scanning and JSON marshaling use this
// struct directly.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"` // Never expose in JSON responses.
	CreatedAt    time.Time  `json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// --- Request DTOs (bound from HTTP requests) ---

// SignupRequest holds the data submitted to POST /signup.
type SignupRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// LoginRequest holds the data submitted to POST /login.
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// ChangePasswordRequest holds the data submitted to POST /change-password.
type ChangePasswordRequest struct {
	Username    string `json:"username" form:"username"`
	OldPassword string `json:"oldPassword" form:"oldPassword"`
	NewPassword string `json:"newPassword" form:"newPassword"`
}

// --- Service Input DTOs (passed from handler to service) ---

// RegisterInput is the validated input for creating a new account.
type RegisterInput struct {
	Username string
	Password string
}

// LoginInput is the validated input for authenticating a user.
type LoginInput struct {
	Username string
	Password string
}

// ChangePasswordInput is the validated input for replacing a password.
// The old password re-authenticates the caller before anything changes.
type ChangePasswordInput struct {
	Username    string
	OldPassword string
	NewPassword string
}

// --- Session ---

// Session is the server-held record binding an opaque token to a user for
// a bounded time. The token is the Redis key suffix, and this struct is the
// value (JSON-encoded). The entry disappears with the key's TTL, so an
// expired session and a destroyed one are indistinguishable to lookups.
type Session struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionInfo is the owner-facing view of an active session, returned by
// the session listing endpoint. Only a short token prefix is exposed; the
// full token never leaves the cookie that carries it.
type SessionInfo struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Current   bool      `json:"current"`
}
