package middleware

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	deliverycontext "tienda/internal/delivery/context"
	domainerrors "tienda/internal/domain/errors"
	"tienda/internal/domain/service"
	"tienda/internal/errors"
)

// AuthMiddleware gates mutating routes on a valid session cookie.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	logger   *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, logger: logger}
}

// RequireAuth admits the request only when the token cookie verifies. Missing,
// malformed, forged and expired tokens all get the same 401; the reason is
// only logged.
func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := deliverycontext.GetLoggerOrDefault(ctx, m.logger)

		cookie, err := c.Cookie(deliverycontext.CookieToken)
		if err != nil || cookie.Value == "" {
			log.DebugContext(ctx, "Access denied", slog.String("reason", "no token"))

			return domainerrors.ErrUnauthorized
		}

		claims, err := m.tokenSvc.Verify(cookie.Value)
		if err != nil {
			reason := "invalid token"
			if errors.Is(err, domainerrors.ErrTokenExpired) {
				reason = "expired token"
			}
			log.DebugContext(ctx, "Access denied", slog.String("reason", reason), slog.Any("error", err))

			return domainerrors.ErrUnauthorized
		}

		deliverycontext.SetSubject(c, claims.Subject)

		return next(c)
	}
}
