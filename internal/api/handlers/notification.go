package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/api/middleware"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/models"
	service "github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/services"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/utils"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type NotificationHandler struct {
	notificationService service.NotificationService
	validator           *validator.Validate
}

func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, validator: utils.NewValidator()}
}

// SendEmail godoc
//	@Summary		Email the customer about an order (admin)
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			order			path		int								true	"Order ID"
//	@Param			notification	body		models.EmailNotificationRequest	true	"Email"
//	@Success		201				{object}	models.Notification				"Notification sent"
//	@Failure		422				{object}	response.ErrorResponse			"Validation error"
//	@Failure		500				{object}	response.ErrorResponse			"Email provider error"
//	@Security		BearerAuth
//	@Router			/admin/orders/{order}/notifications [post]
func (h *NotificationHandler) SendEmail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		orderID, err := utils.ParseID(r, "order")
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.EmailNotificationRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid notification input")
			return
		}

		notification, err := h.notificationService.SendEmail(r.Context(), orderID, &req)
		if err != nil {
			logger.Error("Failed to send notification", slog.Int64("orderId", orderID), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusCreated, notification)
	}
}

// ListNotifications godoc
//	@Summary	List notifications of an order (admin)
//	@Tags		Admin
//	@Produce	json
//	@Param		order	path		int						true	"Order ID"
//	@Success	200		{array}		models.Notification		"Notifications, newest first"
//	@Security	BearerAuth
//	@Router		/admin/orders/{order}/notifications [get]
func (h *NotificationHandler) ListNotifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		orderID, err := utils.ParseID(r, "order")
		if err != nil {
			response.Error(w, err)
			return
		}

		notifications, err := h.notificationService.ListByOrder(r.Context(), orderID)
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to list notifications", slog.Int64("orderId", orderID), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, notifications)
	}
}
