package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/api/middleware"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/errors"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/models"
	service "github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/services"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/utils"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

const defaultPageSize = 10

type OrderHandler struct {
	orderService   service.OrderService
	paymentService service.PaymentService
	validator      *validator.Validate
	maxProofSize   int64
}

func NewOrderHandler(orderService service.OrderService, paymentService service.PaymentService, maxProofSize int64) *OrderHandler {
	return &OrderHandler{
		orderService:   orderService,
		paymentService: paymentService,
		validator:      utils.NewValidator(),
		maxProofSize:   maxProofSize,
	}
}

// ListMyOrders godoc
//	@Summary		List my orders
//	@Description	Paginated order history of the authenticated user, newest first.
//	@Tags			Orders
//	@Produce		json
//	@Param			page		query		int												false	"Page number (default: 1)"			minimum(1)
//	@Param			pageSize	query		int												false	"Items per page (default: 10, max: 50)"	minimum(1)	maximum(50)
//	@Success		200			{object}	models.PaginatedResponse{Data=[]models.Order}	"Orders"
//	@Failure		401			{object}	response.ErrorResponse							"Authentication required"
//	@Failure		500			{object}	response.ErrorResponse							"Internal server error"
//	@Security		BearerAuth
//	@Router			/my-orders [get]
func (h *OrderHandler) ListMyOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized order list attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		page := utils.QueryInt(r, "page", 1)
		size := utils.QueryInt(r, "pageSize", defaultPageSize)

		orders, err := h.orderService.ListMyOrders(r.Context(), claims.UserID, page, size)
		if err != nil {
			logger.Error("Failed to list orders", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, orders)
	}
}

// GetMyOrder godoc
//	@Summary		Get one of my orders
//	@Description	Order with its items, payment and address. Orders of other users are reported as not found.
//	@Tags			Orders
//	@Produce		json
//	@Param			order	path		int						true	"Order ID"
//	@Success		200		{object}	models.Order			"Order detail"
//	@Failure		401		{object}	response.ErrorResponse	"Authentication required"
//	@Failure		404		{object}	response.ErrorResponse	"Order not found"
//	@Security		BearerAuth
//	@Router			/my-orders/{order} [get]
func (h *OrderHandler) GetMyOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		orderID, err := utils.ParseID(r, "order")
		if err != nil {
			response.Error(w, err)
			return
		}

		order, err := h.orderService.GetMyOrder(r.Context(), claims.UserID, orderID)
		if err != nil {
			logger.Warn("Failed to get order", slog.Int64("orderId", orderID), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, order)
	}
}

// UploadProof godoc
//	@Summary		Upload a new payment proof
//	@Description	Replaces the proof of payment while the payment is waiting for validation and moves it to pending.
//	@Tags			Orders
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			order			path		int						true	"Order ID"
//	@Param			payment_proof	formData	file					true	"Proof of payment (jpg/png, max 2MB)"
//	@Success		200				{object}	models.Payment			"Updated payment"
//	@Failure		403				{object}	response.ErrorResponse	"Not your order, or payment is not waiting for validation"
//	@Failure		404				{object}	response.ErrorResponse	"Order not found"
//	@Failure		422				{object}	response.ErrorResponse	"Invalid image or missing payment"
//	@Security		BearerAuth
//	@Router			/my-orders/{order}/upload-proof [post]
func (h *OrderHandler) UploadProof() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		orderID, err := utils.ParseID(r, "order")
		if err != nil {
			response.Error(w, err)
			return
		}

		logger = logger.With(slog.Int64("orderId", orderID))

		if err := parseMultipart(w, r, h.maxProofSize); err != nil {
			response.Error(w, err)
			return
		}

		proof, err := readProof(r, h.maxProofSize)
		if err != nil {
			logger.Warn("Invalid payment proof", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		payment, err := h.paymentService.UploadProof(r.Context(), claims.UserID, orderID, proof)
		if err != nil {
			logger.Warn("Failed to upload payment proof", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, payment)
	}
}

// ListOrders godoc
//	@Summary		List all orders (admin)
//	@Tags			Admin
//	@Produce		json
//	@Param			payment_status	query		string											false	"Filter by payment status"	Enums(waiting_validation, pending, success, failed)
//	@Param			page			query		int												false	"Page number (default: 1)"
//	@Param			pageSize		query		int												false	"Items per page (default: 10, max: 50)"
//	@Success		200				{object}	models.PaginatedResponse{Data=[]models.Order}	"Orders"
//	@Failure		403				{object}	response.ErrorResponse							"Admin access required"
//	@Failure		422				{object}	response.ErrorResponse							"Unknown payment status"
//	@Security		BearerAuth
//	@Router			/admin/orders [get]
func (h *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		filter := models.OrderFilter{
			PaymentStatus: models.PaymentStatus(r.URL.Query().Get("payment_status")),
			Page:          utils.QueryInt(r, "page", 1),
			Size:          utils.QueryInt(r, "pageSize", defaultPageSize),
		}

		orders, err := h.orderService.ListOrders(r.Context(), filter)
		if err != nil {
			logger.Warn("Failed to list orders", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, orders)
	}
}

// GetOrder godoc
//	@Summary	Get an order (admin)
//	@Tags		Admin
//	@Produce	json
//	@Param		order	path		int						true	"Order ID"
//	@Success	200		{object}	models.Order			"Order detail"
//	@Failure	404		{object}	response.ErrorResponse	"Order not found"
//	@Security	BearerAuth
//	@Router		/admin/orders/{order} [get]
func (h *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		orderID, err := utils.ParseID(r, "order")
		if err != nil {
			response.Error(w, err)
			return
		}

		order, err := h.orderService.GetOrder(r.Context(), orderID)
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Warn("Failed to get order", slog.Int64("orderId", orderID), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, order)
	}
}

// UpdateOrderStatus godoc
//	@Summary		Advance order fulfilment (admin)
//	@Description	Allowed transitions are diproses to dikirim and dikirim to selesai.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			order	path		int								true	"Order ID"
//	@Param			status	body		models.UpdateOrderStatusRequest	true	"New status"
//	@Success		200		{object}	models.Order					"Updated order"
//	@Failure		403		{object}	response.ErrorResponse			"Transition not allowed"
//	@Failure		404		{object}	response.ErrorResponse			"Order not found"
//	@Failure		422		{object}	response.ErrorResponse			"Validation error"
//	@Security		BearerAuth
//	@Router			/admin/orders/{order}/status [patch]
func (h *OrderHandler) UpdateOrderStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		orderID, err := utils.ParseID(r, "order")
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.UpdateOrderStatusRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update order status input")
			return
		}

		order, err := h.orderService.UpdateOrderStatus(r.Context(), orderID, req.Status)
		if err != nil {
			logger.Warn("Failed to update order status", slog.Int64("orderId", orderID), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, order)
	}
}
