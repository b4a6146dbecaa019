// Package apperror provides domain-specific error types for the Kinder
// Estate backend. These errors carry an HTTP status code and a user-safe
// message. The Echo error handler maps them to JSON responses automatically.
//
// NEVER return raw database or infrastructure errors to the client. Always
// wrap them in an apperror type or return a generic internal error.
package apperror

import (
	"fmt"
	"net/http"
)

// AppError is the base error type for all domain errors. It carries an
// HTTP status code, a machine-readable error type, and a human-readable
// message safe to show to the client.
type AppError struct {
	// Code is the HTTP status code (e.g., 401, 400, 500).
	Code int `json:"-"`

	// Type is a machine-readable error classifier (e.g., "invalid_credentials").
	Type string `json:"type"`

	// Message is a human-readable description safe for the client.
	Message string `json:"message"`

	// Internal holds the underlying error for logging. Never exposed to client.
	Internal error `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *AppError) Unwrap() error {
	return e.Internal
}

// --- Authentication errors ---

// NewInvalidCredentials creates the 401 returned for any login failure.
// The message is identical whether the username was unknown or the password
// was wrong, so callers cannot enumerate valid usernames.
func NewInvalidCredentials() *AppError {
	return &AppError{
		Code:    http.StatusUnauthorized,
		Type:    "invalid_credentials",
		Message: "invalid username or password",
	}
}

// NewNotAuthenticated creates the 401 returned when a protected operation
// is invoked without a valid, unexpired session.
func NewNotAuthenticated() *AppError {
	return &AppError{
		Code:    http.StatusUnauthorized,
		Type:    "not_authenticated",
		Message: "authentication required",
	}
}

// NewDuplicateUsername creates the 400 returned when registration collides
// with an existing username.
func NewDuplicateUsername() *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Type:    "duplicate_username",
		Message: "an account with this username already exists",
	}
}

// --- Search errors ---

// NewInvalidSearchParameter creates the 400 returned when a search parameter
// cannot be coerced to its declared type. The offending field is named in
// the message rather than silently dropped or zero-filled.
func NewInvalidSearchParameter(field string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Type:    "invalid_search_parameter",
		Message: fmt.Sprintf("search parameter %q must be numeric", field),
	}
}

// --- Generic constructors ---

// NewNotFound creates a 404 Not Found error.
func NewNotFound(message string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Type:    "not_found",
		Message: message,
	}
}

// NewBadRequest creates a 400 Bad Request error.
func NewBadRequest(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Type:    "bad_request",
		Message: message,
	}
}

// NewUnavailable creates the 500 returned when a store call times out or a
// backing dependency cannot be reached. The real error is kept in Internal
// for logging; the client sees only a generic message.
func NewUnavailable(err error) *AppError {
	return &AppError{
		Code:     http.StatusInternalServerError,
		Type:     "dependency_unavailable",
		Message:  "A backend dependency is unavailable. Please try again.",
		Internal: err,
	}
}

// NewInternal creates a 500 Internal Server Error. The real error is stored
// in Internal for logging but the client only sees a generic message.
func NewInternal(err error) *AppError {
	return &AppError{
		Code:     http.StatusInternalServerError,
		Type:     "internal_error",
		Message:  "An unexpected error occurred. Please try again.",
		Internal: err,
	}
}

// SafeMessage returns the client-safe error message from an error. If the
// error is an AppError, returns its Message field (which is safe to expose).
// For any other error type, returns a generic message to prevent leaking
// internal details like table names, query structure, or stack traces.
func SafeMessage(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Message
	}
	return "an unexpected error occurred"
}

// SafeCode returns the HTTP status code from an AppError, or 500 for
// any other error type.
func SafeCode(err error) int {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
