// ABOUTME: HTTP handler for the morning prayer endpoint
// ABOUTME: Always answers 200 with the best available office content
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"lectio/service"
)

// OfficeHandler serves today's morning prayer.
type OfficeHandler struct {
	office *service.OfficeService
}

// NewOfficeHandler creates a new office handler.
func NewOfficeHandler(office *service.OfficeService) *OfficeHandler {
	return &OfficeHandler{office: office}
}

// Handle processes GET /api/v1/morning-prayer. The endpoint never fails:
// when the feed is unreachable or the miss budget is spent, the payload
// carries a fallback office and the cache state header says why.
func (h *OfficeHandler) Handle(c echo.Context) error {
	ctx := c.Request().Context()

	office := h.office.Get(ctx, clientIdentifier(c))

	c.Response().Header().Set(cacheStateHeader, string(office.CacheState))
	c.Response().Header().Set(echo.HeaderCacheControl, readingsCacheControl)

	return c.JSON(http.StatusOK, office)
}
