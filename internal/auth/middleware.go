package auth

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "userbase/internal/errors"
	"userbase/internal/model"
)

// ContextUserKey is the echo context key holding the authenticated user.
const ContextUserKey = "auth.user"

// authScheme is the Authorization header scheme: "Token <key>".
const authScheme = "Token"

// TokenResolver maps an opaque bearer key to its active user.
type TokenResolver interface {
	ResolveToken(ctx context.Context, key string) (*model.User, error)
}

// TokenAuth returns middleware that authenticates requests via the
// "Authorization: Token <key>" header and stores the resolved user on the
// context. Requests without a valid token are rejected with 401.
func TokenAuth(resolver TokenResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key, ok := extractTokenKey(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return unauthenticated()
			}
			user, err := resolver.ResolveToken(c.Request().Context(), key)
			if err != nil {
				return unauthenticated()
			}
			c.Set(ContextUserKey, user)
			return next(c)
		}
	}
}

// RequireStaff returns middleware rejecting non-staff users with 403.
// It must run after TokenAuth.
func RequireStaff() echo.MiddlewareFunc {
	return requireFlag(func(u *model.User) bool { return u.IsStaff })
}

// RequireSuperuser returns middleware rejecting non-superusers with 403.
// It must run after TokenAuth.
func RequireSuperuser() echo.MiddlewareFunc {
	return requireFlag(func(u *model.User) bool { return u.IsSuperuser })
}

func requireFlag(allowed func(*model.User) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return unauthenticated()
			}
			if !allowed(user) {
				he := apperrors.MapErrorToHTTP(apperrors.ErrPermissionDenied)
				return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
			}
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user stored by TokenAuth.
func CurrentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(ContextUserKey).(*model.User)
	return user, ok
}

func extractTokenKey(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], authScheme) {
		return "", false
	}
	key := strings.TrimSpace(parts[1])
	if key == "" {
		return "", false
	}
	return key, true
}

func unauthenticated() error {
	he := apperrors.MapErrorToHTTP(apperrors.ErrUnauthenticated)
	return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
}
