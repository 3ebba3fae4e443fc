package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/api/middleware"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/errors"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/models"
	service "github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/services"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/utils"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/utils/response"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
	validator       *validator.Validate
	maxProofSize    int64
}

func NewCheckoutHandler(checkoutService service.CheckoutService, maxProofSize int64) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService, validator: utils.NewValidator(), maxProofSize: maxProofSize}
}

// Checkout godoc
//	@Summary		Check out selected cart items
//	@Description	Creates an order, its items and a payment awaiting validation from the selected cart items. The selected items leave the cart.
//	@Tags			Checkout
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			amount_paid		formData	number					true	"Amount transferred by the customer"
//	@Param			user_address_id	formData	int						true	"Shipping address ID"
//	@Param			items[]			formData	[]int					true	"Selected cart item IDs"	collectionFormat(multi)
//	@Param			payment_proof	formData	file					true	"Proof of payment (jpg/png, max 2MB)"
//	@Success		201				{object}	models.CheckoutResponse	"Order created"
//	@Failure		400				{object}	response.ErrorResponse	"Insufficient stock, empty selection or stale selection"
//	@Failure		401				{object}	response.ErrorResponse	"Authentication required"
//	@Failure		422				{object}	response.ErrorResponse	"Validation error"
//	@Failure		429				{object}	response.ErrorResponse	"Too many checkout attempts"
//	@Failure		500				{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/checkout [post]
func (h *CheckoutHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized checkout attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		if err := parseMultipart(w, r, h.maxProofSize); err != nil {
			logger.Warn("Invalid checkout form", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		form, err := checkoutForm(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		if !utils.Validate(w, form, h.validator) {
			logger.Warn("Invalid checkout input")
			return
		}

		amount, err := decimal.NewFromString(form.AmountPaid)
		if err != nil {
			response.Error(w, errors.AddValidationError("amount_paid", "must be a number"))
			return
		}

		proof, err := readProof(r, h.maxProofSize)
		if err != nil {
			logger.Warn("Invalid payment proof", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		resp, err := h.checkoutService.Checkout(r.Context(), claims.UserID, &models.CheckoutRequest{
			CartItemIDs: form.Items,
			AmountPaid:  amount,
			AddressID:   form.UserAddressID,
			Proof:       proof,
		})
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusCreated, resp)
	}
}

// checkoutForm reads the non-file fields. Both items[] and repeated items
// are accepted for the selection.
func checkoutForm(r *http.Request) (*models.CheckoutForm, error) {
	form := &models.CheckoutForm{AmountPaid: strings.TrimSpace(r.FormValue("amount_paid"))}

	if raw := strings.TrimSpace(r.FormValue("user_address_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.AddValidationError("user_address_id", "must be an integer")
		}

		form.UserAddressID = id
	}

	values := r.MultipartForm.Value["items[]"]
	if len(values) == 0 {
		values = r.MultipartForm.Value["items"]
	}

	for _, raw := range values {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, errors.AddValidationError("items", "must contain cart item IDs")
		}

		form.Items = append(form.Items, id)
	}

	return form, nil
}
