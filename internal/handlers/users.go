package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/akshaydalvi/medikart/internal/logging"
	"github.com/akshaydalvi/medikart/internal/models"
)

type UserAdminHandler struct {
	DB *gorm.DB
}

// userSummary is the limited projection the back-office sees; password
// hashes and admin flags stay out of it.
type userSummary struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Banned    bool      `json:"banned"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *UserAdminHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	var users []userSummary
	if err := h.DB.WithContext(ctx).Model(&models.User{}).
		Order("created_at DESC").
		Find(&users).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch users")
	}

	return c.JSON(http.StatusOK, users)
}

// Dump serves the dashboard stats; the full model is returned but the
// password hash never marshals.
func (h *UserAdminHandler) Dump(c echo.Context) error {
	ctx := c.Request().Context()

	var users []models.User
	if err := h.DB.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error fetching users")
	}

	return c.JSON(http.StatusOK, users)
}

// ToggleBan flips the banned flag. Sessions the user already holds stay
// valid; banning is an annotation, not a lockout.
func (h *UserAdminHandler) ToggleBan(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_toggle_ban")

	var req struct {
		UserID uint `json:"userId" validate:"required"`
		Banned bool `json:"banned"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("toggle_ban_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("toggle_ban_failed", "status", 400, "reason", "missing userId")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res := h.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", req.UserID).
		Update("banned", req.Banned)
	if res.Error != nil {
		l.Error("toggle_ban_failed", "status", 500, "reason", "db_error", "error", res.Error)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update user status")
	}
	if res.RowsAffected == 0 {
		l.Warn("toggle_ban_failed", "status", 404, "user_id", req.UserID)
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	l.Info("toggle_ban_success", "user_id", req.UserID, "banned", req.Banned)
	if req.Banned {
		return c.JSON(http.StatusOK, echo.Map{"message": "User banned successfully"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "User unbanned successfully"})
}

// Delete removes the account only; the user's orders stay behind with a
// dangling userId.
func (h *UserAdminHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_delete")

	var req struct {
		UserID uint `json:"userId" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("delete_user_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("delete_user_failed", "status", 400, "reason", "missing userId")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res := h.DB.WithContext(ctx).Delete(&models.User{}, req.UserID)
	if res.Error != nil {
		l.Error("delete_user_failed", "status", 500, "reason", "db_error", "error", res.Error)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete user")
	}
	if res.RowsAffected == 0 {
		l.Warn("delete_user_failed", "status", 404, "user_id", req.UserID)
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	l.Info("delete_user_success", "user_id", req.UserID)
	return c.JSON(http.StatusOK, echo.Map{"message": "User deleted successfully"})
}
