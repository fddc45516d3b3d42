package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/akshaydalvi/medikart/internal/logging"
	authmw "github.com/akshaydalvi/medikart/internal/middleware/auth"
	"github.com/akshaydalvi/medikart/internal/models"
	"github.com/akshaydalvi/medikart/internal/mykafka"
)

type OrderHandler struct {
	DB       *gorm.DB
	Producer mykafka.Publisher
}

// adminOrder is an order with its owner's username resolved for the
// back-office listing.
type adminOrder struct {
	models.Order
	Username string `json:"username"`
}

func (h *OrderHandler) Submit(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order_submit")

	var req struct {
		Cart          []models.CartLine `json:"cart"          validate:"required,min=1"`
		Address       string            `json:"address"       validate:"required"`
		PaymentMethod string            `json:"paymentMethod" validate:"required"`
		TotalCost     string            `json:"totalCost"`
		TotalItems    string            `json:"totalItems"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("submit_order_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Incomplete order data")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("submit_order_failed", "status", 400, "reason", "missing fields")
		return echo.NewHTTPError(http.StatusBadRequest, "Incomplete order data")
	}

	order := models.Order{
		Cart:          req.Cart,
		Address:       req.Address,
		PaymentMethod: req.PaymentMethod,
		TotalCost:     req.TotalCost,
		TotalItems:    req.TotalItems,
		Status:        "Pending",
	}
	if sess, ok := authmw.SessionFrom(c); ok {
		userID := sess.UserID
		order.UserID = &userID
	}

	if err := h.DB.WithContext(ctx).Create(&order).Error; err != nil {
		l.Error("submit_order_failed", "status", 500, "reason", "db_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error saving order")
	}

	publish(c, h.Producer, "order_events", fmt.Sprint(order.ID), map[string]interface{}{
		"type":    "order_placed",
		"orderID": order.ID,
		"items":   req.TotalItems,
	})

	l.Info("submit_order_success", "order_id", order.ID, "guest", order.UserID == nil)
	return c.JSON(http.StatusOK, echo.Map{"message": "Order placed successfully!"})
}

func (h *OrderHandler) UserOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order_list_user")

	sess, ok := authmw.SessionFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not logged in")
	}

	var orders []models.Order
	if err := h.DB.WithContext(ctx).
		Where("user_id = ?", sess.UserID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		l.Error("list_orders_failed", "status", 500, "reason", "db_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch orders")
	}

	return c.JSON(http.StatusOK, orders)
}

// AdminOrders lists every order, newest first, with owner usernames resolved
// ("Guest" for checkout without an account).
func (h *OrderHandler) AdminOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order_list_admin")

	var orders []models.Order
	if err := h.DB.WithContext(ctx).Order("created_at DESC").Find(&orders).Error; err != nil {
		l.Error("list_orders_failed", "status", 500, "reason", "db_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch orders")
	}

	ids := make([]uint, 0, len(orders))
	for _, o := range orders {
		if o.UserID != nil {
			ids = append(ids, *o.UserID)
		}
	}

	names := make(map[uint]string, len(ids))
	if len(ids) > 0 {
		var owners []models.User
		if err := h.DB.WithContext(ctx).Select("id", "username").Where("id IN ?", ids).Find(&owners).Error; err != nil {
			l.Error("list_orders_failed", "status", 500, "reason", "db_error", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch orders")
		}
		for _, u := range owners {
			names[u.ID] = u.Username
		}
	}

	resp := make([]adminOrder, len(orders))
	for i, o := range orders {
		username := "Guest"
		if o.UserID != nil {
			if name, ok := names[*o.UserID]; ok {
				username = name
			}
		}
		resp[i] = adminOrder{Order: o, Username: username}
	}

	return c.JSON(http.StatusOK, resp)
}

// Dump feeds the dashboard stats: all orders, newest first, no username
// resolution.
func (h *OrderHandler) Dump(c echo.Context) error {
	ctx := c.Request().Context()

	var orders []models.Order
	if err := h.DB.WithContext(ctx).Order("created_at DESC").Find(&orders).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error fetching orders")
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order_update_status")

	// Status is a free-form string on purpose; admins may introduce new
	// workflow states without a code change.
	var req struct {
		OrderID uint   `json:"orderId" validate:"required"`
		Status  string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("update_status_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("update_status_failed", "status", 400, "reason", "missing orderId")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res := h.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", req.OrderID).
		Update("status", req.Status)
	if res.Error != nil {
		l.Error("update_status_failed", "status", 500, "reason", "db_error", "error", res.Error)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update order status")
	}
	if res.RowsAffected == 0 {
		l.Warn("update_status_failed", "status", 404, "order_id", req.OrderID)
		return echo.NewHTTPError(http.StatusNotFound, "Order not found")
	}

	publish(c, h.Producer, "order_events", fmt.Sprint(req.OrderID), map[string]interface{}{
		"type":    "order_status_updated",
		"orderID": req.OrderID,
		"status":  req.Status,
	})

	l.Info("update_status_success", "order_id", req.OrderID, "new_status", req.Status)
	return c.JSON(http.StatusOK, echo.Map{"message": "Order status updated"})
}

func (h *OrderHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order_delete")

	var req struct {
		OrderID uint `json:"orderId" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("delete_order_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("delete_order_failed", "status", 400, "reason", "missing orderId")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res := h.DB.WithContext(ctx).Delete(&models.Order{}, req.OrderID)
	if res.Error != nil {
		l.Error("delete_order_failed", "status", 500, "reason", "db_error", "error", res.Error)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete order")
	}
	if res.RowsAffected == 0 {
		l.Warn("delete_order_failed", "status", 404, "order_id", req.OrderID)
		return echo.NewHTTPError(http.StatusNotFound, "Order not found")
	}

	l.Info("delete_order_success", "order_id", req.OrderID)
	return c.JSON(http.StatusOK, echo.Map{"message": "Order deleted successfully"})
}
