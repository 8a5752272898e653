package auth

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/medicore/medicore/internal/platform/apperr"
)

type contextKey string

const actorKey contextKey = "actor"

// Middleware resolves the bearer token on each request and stores the actor
// in the request context. Requests without a valid session fail with 401
// before any domain code runs.
func Middleware(issuer *TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return apperr.Unauthorized("missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return apperr.Unauthorized("invalid authorization format")
			}

			actor, err := issuer.Parse(parts[1])
			if err != nil {
				return apperr.Unauthorized("invalid or expired token")
			}

			ctx := context.WithValue(c.Request().Context(), actorKey, actor)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// ActorFromContext returns the actor resolved by Middleware. The bool is
// false on unauthenticated (public) requests.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey).(Actor)
	return actor, ok
}

// WithActor returns a context carrying the given actor. Test helper and
// internal plumbing; request paths go through Middleware.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}
