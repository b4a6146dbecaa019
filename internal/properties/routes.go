package properties

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all listing routes on the given Echo instance.
// Reads are public; every mutating route sits behind the authorization
// gate passed in as requireAuth -- the one enforcement point, applied as
// group middleware rather than per-handler checks.
func RegisterRoutes(e *echo.Echo, h *Handler, requireAuth echo.MiddlewareFunc) {
	// Public reads.
	e.GET("/properties", h.List)
	e.GET("/property/:id", h.Get)
	e.GET("/search", h.Search)

	// Protected writes.
	protected := e.Group("", requireAuth)
	protected.POST("/properties/add", h.Create)
	protected.PUT("/property/:id", h.Update)
	protected.PUT("/property/:id/images", h.UpdateImages)
	protected.DELETE("/property/:id", h.Delete)
}
