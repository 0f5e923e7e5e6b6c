package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/auth"
)

// requireToken is a no-op when no token hash is configured.
func (s *Server) requireToken() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if s.opts.TokenHash == "" {
				return next(c)
			}

			token, ok := auth.BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok || !auth.VerifyToken(token, s.opts.TokenHash) {
				s.logger.Warn().
					Str("path", c.Path()).
					Str("remote_ip", c.RealIP()).
					Msg("rejected sync request without valid token")
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Bearer realm="i18nsync"`)
				return fail(c, http.StatusUnauthorized, "Unauthorized", nil)
			}
			return next(c)
		}
	}
}
