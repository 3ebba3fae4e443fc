package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Cart struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem.Price is the unit price captured when the book was first added,
// not the live book price.
type CartItem struct {
	ID        int64               `json:"id"`
	CartID    int64               `json:"cart_id"`
	BookID    int64               `json:"book_id"`
	Quantity  int                 `json:"quantity"`
	Price     decimal.NullDecimal `json:"price"`
	Book      *Book               `json:"book,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

type AddItemRequest struct {
	BookID   int64 `json:"book_id"  validate:"required,gt=0"`
	Quantity int   `json:"quantity" validate:"required,min=1"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}
