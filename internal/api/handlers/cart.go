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

type CartHandler struct {
	cartService service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService, validator: utils.NewValidator()}
}

// GetCart godoc
//	@Summary		Get the cart
//	@Description	Lists the items in the authenticated user's cart. The cart is created on first access.
//	@Tags			Cart
//	@Produce		json
//	@Success		200	{object}	models.Cart				"Cart with its items"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/cart [get]
func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized cart access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		cart, err := h.cartService.GetCart(r.Context(), claims.UserID)
		if err != nil {
			logger.Error("Failed to get cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// AddItem godoc
//	@Summary		Add a book to the cart
//	@Description	Adds a book to the cart. Adding a book that is already in the cart increases its quantity.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			item	body		models.AddItemRequest	true	"Book and quantity"
//	@Success		201		{object}	models.CartItem			"Cart item after the add"
//	@Failure		400		{object}	response.ErrorResponse	"Insufficient stock"
//	@Failure		401		{object}	response.ErrorResponse	"Authentication required"
//	@Failure		404		{object}	response.ErrorResponse	"Book not found"
//	@Failure		422		{object}	response.ErrorResponse	"Validation error"
//	@Security		BearerAuth
//	@Router			/cart/add [post]
func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized add to cart attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		var req models.AddItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid add to cart input")
			return
		}

		logger = logger.With(slog.Int64("bookId", req.BookID), slog.Int("quantity", req.Quantity))

		item, err := h.cartService.AddItem(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Warn("Failed to add item to cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Item added to cart", slog.Int64("itemId", item.ID))
		response.Success(w, http.StatusCreated, item)
	}
}

// UpdateQuantity godoc
//	@Summary		Update a cart item quantity
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			item		path		int							true	"Cart item ID"
//	@Param			quantity	body		models.UpdateQuantityRequest	true	"New quantity"
//	@Success		200			{object}	response.APIResponse		"Quantity updated"
//	@Failure		400			{object}	response.ErrorResponse		"Insufficient stock"
//	@Failure		403			{object}	response.ErrorResponse		"Item belongs to another user"
//	@Failure		404			{object}	response.ErrorResponse		"Cart item not found"
//	@Failure		422			{object}	response.ErrorResponse		"Validation error"
//	@Security		BearerAuth
//	@Router			/cart/{item} [put]
func (h *CartHandler) UpdateQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized cart update attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		itemID, err := utils.ParseID(r, "item")
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.UpdateQuantityRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid cart update input")
			return
		}

		if err := h.cartService.UpdateQuantity(r.Context(), claims.UserID, itemID, req.Quantity); err != nil {
			logger.Warn("Failed to update cart item", slog.Int64("itemId", itemID), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, map[string]any{"id": itemID, "quantity": req.Quantity})
	}
}

// RemoveItem godoc
//	@Summary	Remove a cart item
//	@Tags		Cart
//	@Produce	json
//	@Param		item	path		int						true	"Cart item ID"
//	@Success	200		{object}	response.APIResponse	"Item removed"
//	@Failure	403		{object}	response.ErrorResponse	"Item belongs to another user"
//	@Failure	404		{object}	response.ErrorResponse	"Cart item not found"
//	@Security	BearerAuth
//	@Router		/cart/{item} [delete]
func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		itemID, err := utils.ParseID(r, "item")
		if err != nil {
			response.Error(w, err)
			return
		}

		if err := h.cartService.RemoveItem(r.Context(), claims.UserID, itemID); err != nil {
			logger.Warn("Failed to remove cart item", slog.Int64("itemId", itemID), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, map[string]int64{"id": itemID})
	}
}
