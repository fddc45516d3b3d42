package auth

import (
	"github.com/labstack/echo/v4"

	"github.com/akshaydalvi/medikart/internal/models"
	"github.com/akshaydalvi/medikart/internal/session"
)

// ContextKey is where the middleware stores the resolved session on the
// echo context.
const ContextKey = "session"

type Middleware struct {
	Sessions *session.Store
}

func (m *Middleware) lookup(c echo.Context) (*models.Session, error) {
	cookie, err := c.Cookie(session.CookieName)
	if err != nil {
		return nil, session.ErrNoSession
	}
	return m.Sessions.Get(c.Request().Context(), cookie.Value)
}

func setSessionContext(c echo.Context, s *models.Session) {
	c.Set(ContextKey, s)
}

// SessionFrom returns the session attached by the middleware, if any.
func SessionFrom(c echo.Context) (*models.Session, bool) {
	s, ok := c.Get(ContextKey).(*models.Session)
	return s, ok
}
