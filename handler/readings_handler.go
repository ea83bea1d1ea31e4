// ABOUTME: HTTP handler for the daily readings endpoint
// ABOUTME: Resolves date and language parameters and surfaces cache state headers
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"lectio/service"
)

const (
	cacheStateHeader = "X-Cache-State"

	// Readings for a given day never change once published, so clients
	// may hold them for a day and revalidate lazily after that.
	readingsCacheControl = "public, max-age=86400, stale-while-revalidate=172800"
)

// ReadingsHandler serves daily scripture readings.
type ReadingsHandler struct {
	readings *service.ReadingsService
}

// NewReadingsHandler creates a new readings handler.
func NewReadingsHandler(readings *service.ReadingsService) *ReadingsHandler {
	return &ReadingsHandler{readings: readings}
}

// Handle processes GET /api/v1/readings.
func (h *ReadingsHandler) Handle(c echo.Context) error {
	ctx := c.Request().Context()

	dateKey := c.QueryParam("date")
	lang := c.QueryParam("lang")
	if lang == "" {
		lang = "en"
	}

	result, err := h.readings.Get(ctx, dateKey, lang, clientIdentifier(c))
	if err != nil {
		return err
	}

	c.Response().Header().Set(cacheStateHeader, string(result.CacheState))
	c.Response().Header().Set(echo.HeaderCacheControl, readingsCacheControl)

	return c.JSON(http.StatusOK, result)
}

// clientIdentifier picks a stable per-client key for rate limiting. A
// proxy-assigned client header wins over the connection address so NAT'd
// clients do not share one budget.
func clientIdentifier(c echo.Context) string {
	if id := c.Request().Header.Get("X-Client-ID"); id != "" {
		return id
	}

	return c.RealIP()
}
