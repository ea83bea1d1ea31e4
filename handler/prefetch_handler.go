// ABOUTME: HTTP handler for the scheduler-triggered prefetch run
// ABOUTME: Warms the shared cache for the configured day/language pairs
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"lectio/service"
)

// PrefetchResponse summarizes a warming run.
type PrefetchResponse struct {
	Success bool                 `json:"success"`
	Results []service.PairResult `json:"results"`
}

// PrefetchHandler triggers cache warming.
type PrefetchHandler struct {
	prefetch *service.PrefetchService
}

// NewPrefetchHandler creates a new prefetch handler.
func NewPrefetchHandler(prefetch *service.PrefetchService) *PrefetchHandler {
	return &PrefetchHandler{prefetch: prefetch}
}

// Handle processes GET /api/v1/readings/prefetch. Per-pair failures are
// reported in the result list rather than failing the run.
func (h *PrefetchHandler) Handle(c echo.Context) error {
	ctx := c.Request().Context()

	results := h.prefetch.Warm(ctx)

	return c.JSON(http.StatusOK, PrefetchResponse{
		Success: true,
		Results: results,
	})
}
