// ABOUTME: Centralized error handling for Echo
// ABOUTME: Maps domain sentinel errors to HTTP statuses and hides internals on 5xx
package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"lectio/domain"
	"lectio/utils/logger"
)

// errorResponse is the uniform error payload.
type errorResponse struct {
	Error string `json:"error"`
}

// CustomHTTPErrorHandler creates the centralized HTTP error handler.
// Domain sentinel errors map to their statuses; unknown errors become a
// generic 500 so internal detail never leaks to a client.
func CustomHTTPErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		ctx := c.Request().Context()
		reqLog := logger.FromContext(ctx, log)

		status := http.StatusInternalServerError
		message := "An unexpected error occurred. Please try again later."

		var httpErr *echo.HTTPError
		switch {
		case errors.Is(err, domain.ErrRateLimitExceeded):
			status = http.StatusTooManyRequests
			message = "Daily fetch limit reached. Try a cached day or come back tomorrow."
		case errors.Is(err, domain.ErrUnauthorizedScheduler):
			status = http.StatusUnauthorized
			message = "Unauthorized."
		case errors.Is(err, domain.ErrUnsupportedLanguage):
			status = http.StatusBadRequest
			message = "Unsupported language."
		case errors.As(err, &httpErr):
			status = httpErr.Code
			if m, ok := httpErr.Message.(string); ok && status < 500 {
				message = m
			}
		}

		if status >= 500 {
			reqLog.Error("unhandled error", "status", status, "error", err)
		} else {
			reqLog.Warn("request failed", "status", status, "error", err)
		}

		if err := c.JSON(status, errorResponse{Error: message}); err != nil {
			reqLog.Error("failed to send error response", "error", err)
		}
	}
}
