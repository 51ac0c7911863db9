package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"campus-lending/internal/domain/user"
	"campus-lending/internal/infrastructure/auth"
)

const principalKey = "principal"

// Authenticator turns a bearer token into the calling principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (user.Principal, error)
}

// Auth requires a valid "Authorization: Bearer <token>" header and stores the
// resolved principal on the context.
func Auth(a Authenticator, log *zap.Logger) echo.MiddlewareFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if token == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}
			p, err := a.Authenticate(c.Request().Context(), token)
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "session expired, log in again"})
			case errors.Is(err, auth.ErrInvalidToken):
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid session, log in again"})
			case err != nil:
				log.Error("session validation failed", zap.Error(err))
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
			}
			SetPrincipal(c, p)
			return next(c)
		}
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func SetPrincipal(c echo.Context, p user.Principal) { c.Set(principalKey, p) }

// PrincipalFrom returns the principal stored by Auth.
func PrincipalFrom(c echo.Context) (user.Principal, bool) {
	p, ok := c.Get(principalKey).(user.Principal)
	return p, ok && p.UserID != 0
}
