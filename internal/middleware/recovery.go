package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
)

// Recovery converts a handler panic into a logged 500 so one bad request
// cannot take the process down. The response body matches the error
// handler's JSON shape; the panic value and stack stay server-side.
func Recovery() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (returnErr error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				slog.Error("panic recovered",
					slog.Any("panic", r),
					slog.String("method", c.Request().Method),
					slog.String("path", c.Request().URL.Path),
					slog.String("stack", string(debug.Stack())),
				)

				returnErr = c.JSON(http.StatusInternalServerError, map[string]string{
					"type":    "internal_error",
					"message": "An unexpected error occurred. Please try again.",
				})
			}()

			return next(c)
		}
	}
}
