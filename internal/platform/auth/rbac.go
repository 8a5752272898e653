package auth

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/medicore/medicore/internal/platform/apperr"
)

// RequireRole returns middleware that rejects the request unless the actor
// holds one of the given roles. It must sit behind Middleware.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := ActorFromContext(c.Request().Context())
			if !ok {
				return apperr.Unauthorized("authentication required")
			}
			for _, required := range roles {
				if actor.Role == required {
					return next(c)
				}
			}
			return apperr.Forbidden(
				fmt.Sprintf("required role: %s", strings.Join(roles, " or ")))
		}
	}
}
