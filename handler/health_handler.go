// ABOUTME: Liveness endpoint
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthHandler reports process liveness.
type HealthHandler struct{}

// NewHealthHandler creates a new health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Handle processes GET /api/v1/health.
func (h *HealthHandler) Handle(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}
