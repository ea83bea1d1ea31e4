// ABOUTME: This file provides request ID middleware for HTTP request tracing
// ABOUTME: Generates or extracts request IDs from headers for context propagation
package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"lectio/utils/logger"
)

func RequestIDMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			requestID := req.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.NewString()
			}

			ctx := logger.WithRequestID(req.Context(), requestID)
			c.SetRequest(req.WithContext(ctx))

			c.Response().Header().Set("X-Request-ID", requestID)

			return next(c)
		}
	}
}
