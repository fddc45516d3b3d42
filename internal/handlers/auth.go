package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/akshaydalvi/medikart/internal/hash"
	"github.com/akshaydalvi/medikart/internal/logging"
	authmw "github.com/akshaydalvi/medikart/internal/middleware/auth"
	"github.com/akshaydalvi/medikart/internal/models"
	"github.com/akshaydalvi/medikart/internal/mykafka"
	"github.com/akshaydalvi/medikart/internal/session"
)

type AuthHandler struct {
	DB       *gorm.DB
	Sessions *session.Store
	Producer mykafka.Publisher
}

func (h *AuthHandler) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_signup")

	var req struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
		Email    string `json:"email"    validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("signup_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "All fields are required")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("signup_failed", "status", 400, "reason", "missing fields")
		return echo.NewHTTPError(http.StatusBadRequest, "All fields are required")
	}

	var existing models.User
	if err := h.DB.WithContext(ctx).Where("username = ? OR email = ?", req.Username, req.Email).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			l.Error("signup_failed", "status", 500, "reason", "db_error", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Error during signup")
		}
	} else {
		l.Warn("signup_failed", "status", 409, "reason", "user_exists")
		return echo.NewHTTPError(http.StatusConflict, "Username or email already exists")
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("signup_failed", "status", 500, "reason", "cannot hash the password", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error during signup")
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: pwHash,
		Email:        req.Email,
	}
	if err := h.DB.WithContext(ctx).Create(&user).Error; err != nil {
		// lost the uniqueness race against a concurrent signup
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			l.Warn("signup_failed", "status", 409, "reason", "user_exists")
			return echo.NewHTTPError(http.StatusConflict, "Username or email already exists")
		}
		l.Error("signup_failed", "status", 500, "reason", "db_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error during signup")
	}

	sess, err := h.Sessions.Create(ctx, &user)
	if err != nil {
		l.Error("signup_failed", "status", 500, "reason", "session_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error during signup")
	}
	c.SetCookie(session.NewCookie(sess.Token, time.Unix(sess.ExpiresAt, 0)))

	publish(c, h.Producer, "user_events", fmt.Sprint(user.ID), map[string]interface{}{
		"type":     "user_signed_up",
		"userID":   user.ID,
		"username": user.Username,
	})

	l.Info("signup_success", "username", user.Username)
	return c.JSON(http.StatusOK, echo.Map{
		"message":  "Signup successful!",
		"username": user.Username,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var user models.User
	if err := h.DB.WithContext(ctx).Where("username = ?", req.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown user")
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
		}
		l.Error("login_failed", "status", 500, "reason", "db_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Login error")
	}

	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		l.Warn("login_failed", "status", 401, "reason", "bad password")
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	// Banned accounts can still log in; the flag only feeds the admin views.

	sess, err := h.Sessions.Create(ctx, &user)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "session_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Login error")
	}
	c.SetCookie(session.NewCookie(sess.Token, time.Unix(sess.ExpiresAt, 0)))

	publish(c, h.Producer, "user_events", fmt.Sprint(user.ID), map[string]interface{}{
		"type":     "user_logged_in",
		"userID":   user.ID,
		"username": user.Username,
	})

	l.Info("login_success", "username", user.Username, "is_admin", user.IsAdmin)
	if user.IsAdmin {
		return c.JSON(http.StatusOK, echo.Map{
			"message":  "Admin login successful!",
			"username": user.Username,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":  "Login successful!",
		"username": user.Username,
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	if cookie, err := c.Cookie(session.CookieName); err == nil {
		if err := h.Sessions.Destroy(ctx, cookie.Value); err != nil {
			l.Error("logout_failed", "status", 500, "reason", "session_error", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Logout error")
		}
	}
	c.SetCookie(session.ExpiredCookie())

	l.Info("logout_success")
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out"})
}

// Me reports the current identity, or JSON null for anonymous callers.
func (h *AuthHandler) Me(c echo.Context) error {
	ctx := c.Request().Context()

	sess, ok := authmw.SessionFrom(c)
	if !ok {
		return c.JSON(http.StatusOK, nil)
	}

	var user models.User
	if err := h.DB.WithContext(ctx).Select("username").First(&user, sess.UserID).Error; err != nil {
		// account removed while the session was still live
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusOK, nil)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, echo.Map{"username": user.Username})
}
