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

type PaymentHandler struct {
	paymentService service.PaymentService
	validator      *validator.Validate
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, validator: utils.NewValidator()}
}

// Approve godoc
//	@Summary		Approve a payment (admin)
//	@Description	Marks the payment as success and the order as diproses. Only allowed once.
//	@Tags			Admin
//	@Produce		json
//	@Param			order	path		int						true	"Order ID"
//	@Success		200		{object}	models.Payment			"Approved payment"
//	@Failure		403		{object}	response.ErrorResponse	"Payment already decided"
//	@Failure		404		{object}	response.ErrorResponse	"Order not found"
//	@Failure		422		{object}	response.ErrorResponse	"Order has no payment"
//	@Security		BearerAuth
//	@Router			/admin/orders/{order}/approve [post]
func (h *PaymentHandler) Approve() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		orderID, err := utils.ParseID(r, "order")
		if err != nil {
			response.Error(w, err)
			return
		}

		payment, err := h.paymentService.Approve(r.Context(), orderID)
		if err != nil {
			logger.Warn("Failed to approve payment", slog.Int64("orderId", orderID), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, payment)
	}
}

// Reject godoc
//	@Summary		Reject a payment (admin)
//	@Description	Marks the payment as failed with the reason in its notes and cancels the order. Only allowed once.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			order	path		int							true	"Order ID"
//	@Param			reason	body		models.RejectPaymentRequest	true	"Rejection reason"
//	@Success		200		{object}	models.Payment				"Rejected payment"
//	@Failure		403		{object}	response.ErrorResponse		"Payment already decided"
//	@Failure		404		{object}	response.ErrorResponse		"Order not found"
//	@Failure		422		{object}	response.ErrorResponse		"Missing reason or payment"
//	@Security		BearerAuth
//	@Router			/admin/orders/{order}/reject [post]
func (h *PaymentHandler) Reject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		orderID, err := utils.ParseID(r, "order")
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.RejectPaymentRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid reject payment input")
			return
		}

		payment, err := h.paymentService.Reject(r.Context(), orderID, req.Reason)
		if err != nil {
			logger.Warn("Failed to reject payment", slog.Int64("orderId", orderID), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, payment)
	}
}
