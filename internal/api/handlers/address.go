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

type AddressHandler struct {
	addressService service.AddressService
	validator      *validator.Validate
}

func NewAddressHandler(addressService service.AddressService) *AddressHandler {
	return &AddressHandler{addressService: addressService, validator: utils.NewValidator()}
}

// ListAddresses godoc
//	@Summary	List my addresses
//	@Tags		Addresses
//	@Produce	json
//	@Success	200	{array}	models.UserAddress	"Addresses, primary first"
//	@Security	BearerAuth
//	@Router		/addresses [get]
func (h *AddressHandler) ListAddresses() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		addresses, err := h.addressService.ListAddresses(r.Context(), claims.UserID)
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to list addresses", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, addresses)
	}
}

// CreateAddress godoc
//	@Summary	Add an address
//	@Tags		Addresses
//	@Accept		json
//	@Produce	json
//	@Param		address	body		models.CreateAddressRequest	true	"Address"
//	@Success	201		{object}	models.UserAddress			"Created address"
//	@Failure	422		{object}	response.ErrorResponse		"Validation error"
//	@Security	BearerAuth
//	@Router		/addresses [post]
func (h *AddressHandler) CreateAddress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		var req models.CreateAddressRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid address input")
			return
		}

		address, err := h.addressService.CreateAddress(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Error("Failed to create address", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusCreated, address)
	}
}

// SetPrimary godoc
//	@Summary	Make an address the primary one
//	@Tags		Addresses
//	@Produce	json
//	@Param		address	path		int						true	"Address ID"
//	@Success	200		{object}	response.APIResponse	"Primary address updated"
//	@Failure	403		{object}	response.ErrorResponse	"Address belongs to another user"
//	@Failure	404		{object}	response.ErrorResponse	"Address not found"
//	@Security	BearerAuth
//	@Router		/addresses/{address}/primary [put]
func (h *AddressHandler) SetPrimary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		addressID, err := utils.ParseID(r, "address")
		if err != nil {
			response.Error(w, err)
			return
		}

		if err := h.addressService.SetPrimary(r.Context(), claims.UserID, addressID); err != nil {
			middleware.LoggerFromContext(r.Context()).Warn("Failed to set primary address", slog.Int64("addressId", addressID), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, map[string]any{"id": addressID, "is_primary": true})
	}
}
