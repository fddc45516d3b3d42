package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/akshaydalvi/medikart/internal/logging"
	"github.com/akshaydalvi/medikart/internal/models"
	"github.com/akshaydalvi/medikart/internal/mykafka"
	"github.com/akshaydalvi/medikart/internal/service/search"
)

type ProductHandler struct {
	DB       *gorm.DB
	Producer mykafka.Publisher
	Search   *search.Index
}

func (h *ProductHandler) index(c echo.Context, p *models.Product) {
	if h.Search == nil {
		return
	}
	if err := h.Search.IndexProduct(c.Request().Context(), p); err != nil {
		c.Logger().Errorf("ES index error: %v", err)
	}
}

func (h *ProductHandler) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product_add")

	var req struct {
		Name        string  `json:"name"        validate:"required"`
		Price       float64 `json:"price"       validate:"required"`
		Category    string  `json:"category"    validate:"required"`
		ImageBase64 string  `json:"imageBase64" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("add_product_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Missing required fields")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("add_product_failed", "status", 400, "reason", "missing fields")
		return echo.NewHTTPError(http.StatusBadRequest, "Missing required fields")
	}
	if req.Price < 0 {
		l.Warn("add_product_failed", "status", 400, "reason", "negative price")
		return echo.NewHTTPError(http.StatusBadRequest, "Missing required fields")
	}

	prod := models.Product{
		Name:     req.Name,
		Price:    req.Price,
		Category: req.Category,
		Img:      req.ImageBase64,
	}
	if err := h.DB.WithContext(ctx).Create(&prod).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			l.Warn("add_product_failed", "status", 409, "reason", "duplicate name", "name", req.Name)
			return echo.NewHTTPError(http.StatusConflict, "Product already exists")
		}
		l.Error("add_product_failed", "status", 500, "reason", "db_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error saving product")
	}

	h.index(c, &prod)
	publish(c, h.Producer, "product_events", fmt.Sprint(prod.ID), map[string]interface{}{
		"type":      "product_created",
		"productID": prod.ID,
		"name":      prod.Name,
	})

	l.Info("add_product_success", "product_id", prod.ID, "name", prod.Name)
	return c.JSON(http.StatusOK, echo.Map{"message": "Product added successfully"})
}

// Update looks the product up by its previous name. Name, price and category
// are always overwritten; the image only when a replacement is supplied.
func (h *ProductHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product_update")

	var req struct {
		OldName     string  `json:"oldName" validate:"required"`
		Name        string  `json:"name"`
		Price       float64 `json:"price"`
		Category    string  `json:"category"`
		ImageBase64 string  `json:"imageBase64"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("update_product_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("update_product_failed", "status", 400, "reason", "missing oldName")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Price < 0 {
		l.Warn("update_product_failed", "status", 400, "reason", "negative price")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var prod models.Product
	if err := h.DB.WithContext(ctx).Where("name = ?", req.OldName).First(&prod).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("update_product_failed", "status", 404, "name", req.OldName)
			return echo.NewHTTPError(http.StatusNotFound, "Product not found for update")
		}
		l.Error("update_product_failed", "status", 500, "reason", "db_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error updating product")
	}

	prod.Name = req.Name
	prod.Price = req.Price
	prod.Category = req.Category
	if req.ImageBase64 != "" {
		prod.Img = req.ImageBase64
	}

	if err := h.DB.WithContext(ctx).Save(&prod).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			l.Warn("update_product_failed", "status", 409, "reason", "duplicate name", "name", req.Name)
			return echo.NewHTTPError(http.StatusConflict, "Product already exists")
		}
		l.Error("update_product_failed", "status", 500, "reason", "db_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error updating product")
	}

	h.index(c, &prod)
	publish(c, h.Producer, "product_events", fmt.Sprint(prod.ID), map[string]interface{}{
		"type":      "product_updated",
		"productID": prod.ID,
		"name":      prod.Name,
	})

	l.Info("update_product_success", "product_id", prod.ID)
	return c.JSON(http.StatusOK, echo.Map{"message": "Product updated successfully"})
}

func (h *ProductHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product_delete")

	var req struct {
		Name string `json:"name" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("delete_product_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("delete_product_failed", "status", 400, "reason", "missing name")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var prod models.Product
	if err := h.DB.WithContext(ctx).Where("name = ?", req.Name).First(&prod).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("delete_product_failed", "status", 404, "name", req.Name)
			return echo.NewHTTPError(http.StatusNotFound, "Product not found")
		}
		l.Error("delete_product_failed", "status", 500, "reason", "db_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error deleting product")
	}

	if err := h.DB.WithContext(ctx).Delete(&models.Product{}, prod.ID).Error; err != nil {
		l.Error("delete_product_failed", "status", 500, "reason", "db_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error deleting product")
	}

	if h.Search != nil {
		if err := h.Search.DeleteProduct(ctx, prod.ID); err != nil {
			c.Logger().Errorf("ES delete error: %v", err)
		}
	}
	publish(c, h.Producer, "product_events", fmt.Sprint(prod.ID), map[string]interface{}{
		"type":      "product_deleted",
		"productID": prod.ID,
	})

	l.Info("delete_product_success", "product_id", prod.ID)
	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted successfully"})
}

// List is the public catalog dump.
func (h *ProductHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	var products []models.Product
	if err := h.DB.WithContext(ctx).Order("id ASC").Find(&products).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error fetching products")
	}

	return c.JSON(http.StatusOK, products)
}
