package auth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/akshaydalvi/medikart/internal/session"
)

// AdminOnly answers 403 for anonymous callers and for logged-in non-admins
// alike; the two cases are deliberately indistinguishable to the client.
func (m *Middleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s, err := m.lookup(c)
		if err != nil {
			if errors.Is(err, session.ErrNoSession) {
				return echo.NewHTTPError(http.StatusForbidden, "Unauthorized")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
		if !s.IsAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "Unauthorized")
		}
		setSessionContext(c, s)
		return next(c)
	}
}
