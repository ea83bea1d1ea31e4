// ABOUTME: Bearer-token guard for the prefetch scheduler endpoint
// ABOUTME: Compares the shared secret in constant time
package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/labstack/echo/v4"

	"lectio/domain"
)

// SchedulerAuth restricts an endpoint to callers presenting the shared
// scheduler secret as a bearer token. An empty secret disables the
// endpoint entirely rather than leaving it open.
func SchedulerAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if secret == "" {
				return domain.ErrUnauthorizedScheduler
			}

			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok {
				return domain.ErrUnauthorizedScheduler
			}

			if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
				return domain.ErrUnauthorizedScheduler
			}

			return next(c)
		}
	}
}
