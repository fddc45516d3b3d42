package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/akshaydalvi/medikart/internal/logging"
	"github.com/akshaydalvi/medikart/internal/models"
)

type FeedbackHandler struct {
	DB *gorm.DB
}

func (h *FeedbackHandler) SubmitFeedback(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "feedback_submit")

	var req struct {
		Name     string `json:"name"     validate:"required"`
		Email    string `json:"email"    validate:"required"`
		Rating   int    `json:"rating"   validate:"required"`
		Feedback string `json:"feedback" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("submit_feedback_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "All feedback fields are required")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("submit_feedback_failed", "status", 400, "reason", "missing fields")
		return echo.NewHTTPError(http.StatusBadRequest, "All feedback fields are required")
	}

	fb := models.Feedback{
		Name:     req.Name,
		Email:    req.Email,
		Rating:   req.Rating,
		Feedback: req.Feedback,
	}
	if err := h.DB.WithContext(ctx).Create(&fb).Error; err != nil {
		l.Error("submit_feedback_failed", "status", 500, "reason", "db_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error submitting feedback")
	}

	l.Info("submit_feedback_success", "feedback_id", fb.ID)
	return c.JSON(http.StatusOK, echo.Map{"message": "Thank you for your feedback!"})
}

func (h *FeedbackHandler) SubmitContact(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "contact_submit")

	var req struct {
		Name    string `json:"name"    validate:"required"`
		Email   string `json:"email"   validate:"required"`
		Phone   string `json:"phone"   validate:"required"`
		Message string `json:"message" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("submit_contact_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "All contact fields are required")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("submit_contact_failed", "status", 400, "reason", "missing fields")
		return echo.NewHTTPError(http.StatusBadRequest, "All contact fields are required")
	}

	contact := models.Contact{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	}
	if err := h.DB.WithContext(ctx).Create(&contact).Error; err != nil {
		l.Error("submit_contact_failed", "status", 500, "reason", "db_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error submitting contact")
	}

	l.Info("submit_contact_success", "contact_id", contact.ID)
	return c.JSON(http.StatusOK, echo.Map{"message": "Thank you for contacting us!"})
}

func (h *FeedbackHandler) ListFeedbacks(c echo.Context) error {
	ctx := c.Request().Context()

	var feedbacks []models.Feedback
	if err := h.DB.WithContext(ctx).Order("id DESC").Find(&feedbacks).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch feedbacks")
	}

	return c.JSON(http.StatusOK, feedbacks)
}

func (h *FeedbackHandler) ListContacts(c echo.Context) error {
	ctx := c.Request().Context()

	var contacts []models.Contact
	if err := h.DB.WithContext(ctx).Order("id DESC").Find(&contacts).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch contacts")
	}

	return c.JSON(http.StatusOK, contacts)
}

func (h *FeedbackHandler) DeleteFeedback(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "feedback_delete")

	var req struct {
		FeedbackID uint `json:"feedbackId" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("delete_feedback_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("delete_feedback_failed", "status", 400, "reason", "missing feedbackId")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res := h.DB.WithContext(ctx).Delete(&models.Feedback{}, req.FeedbackID)
	if res.Error != nil {
		l.Error("delete_feedback_failed", "status", 500, "reason", "db_error", "error", res.Error)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete feedback")
	}
	if res.RowsAffected == 0 {
		l.Warn("delete_feedback_failed", "status", 404, "feedback_id", req.FeedbackID)
		return echo.NewHTTPError(http.StatusNotFound, "Feedback not found")
	}

	l.Info("delete_feedback_success", "feedback_id", req.FeedbackID)
	return c.JSON(http.StatusOK, echo.Map{"message": "Feedback deleted successfully"})
}
