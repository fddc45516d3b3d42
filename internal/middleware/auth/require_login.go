package auth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/akshaydalvi/medikart/internal/session"
)

// WithSession attaches the caller's session when one exists and lets the
// request through either way. Store failures other than a missing session
// still surface as 500.
func (m *Middleware) WithSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s, err := m.lookup(c)
		if err != nil {
			if errors.Is(err, session.ErrNoSession) {
				return next(c)
			}
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
		setSessionContext(c, s)
		return next(c)
	}
}

func (m *Middleware) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s, err := m.lookup(c)
		if err != nil {
			if errors.Is(err, session.ErrNoSession) {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not logged in")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
		setSessionContext(c, s)
		return next(c)
	}
}
