package properties

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kinderhomes/kinder-estate/internal/apperror"
)

// Handler handles HTTP requests for the listing collection. Handlers are
// thin: they bind the request, call the service, and write the JSON
// response. No business logic lives here.
type Handler struct {
	service PropertyService
}

// NewHandler creates a new listing handler with the given service.
func NewHandler(service PropertyService) *Handler {
	return &Handler{service: service}
}

// List returns every listing (GET /properties).
func (h *Handler) List(c echo.Context) error {
	out, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	if out == nil {
		out = []Property{}
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns a single listing (GET /property/:id).
func (h *Handler) Get(c echo.Context) error {
	p, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Create adds a new listing (POST /properties/add).
func (h *Handler) Create(c echo.Context) error {
	var req PropertyRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	p, err := h.service.Create(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Update replaces a listing (PUT /property/:id).
func (h *Handler) Update(c echo.Context) error {
	var req PropertyRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	p, err := h.service.Update(c.Request().Context(), c.Param("id"), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// UpdateImages replaces a listing's image URLs (PUT /property/:id/images).
func (h *Handler) UpdateImages(c echo.Context) error {
	var req ImagesRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	if err := h.service.UpdateImages(c.Request().Context(), c.Param("id"), req.Images); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Images updated"})
}

// Delete removes a listing (DELETE /property/:id).
func (h *Handler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Property deleted"})
}

// Search runs a filtered listing query (GET /search).
// Every query parameter is optional; no parameters returns every listing.
func (h *Handler) Search(c echo.Context) error {
	params := make(map[string]string)
	for key, values := range c.QueryParams() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	out, err := h.service.Search(c.Request().Context(), params)
	if err != nil {
		return err
	}
	if out == nil {
		out = []Property{}
	}
	return c.JSON(http.StatusOK, out)
}
