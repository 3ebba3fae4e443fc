package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending            OrderStatus = "pending"
	OrderStatusAwaitingValidation OrderStatus = "menunggu_validasi"
	OrderStatusProcessing         OrderStatus = "diproses"
	OrderStatusShipped            OrderStatus = "dikirim"
	OrderStatusCompleted          OrderStatus = "selesai"
	OrderStatusCancelled          OrderStatus = "dibatalkan"
)

// IsTerminal reports whether no further transition is defined from s.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

type Order struct {
	ID              int64           `json:"id"`
	OrderCode       string          `json:"order_code"`
	UserID          int64           `json:"user_id"`
	UserAddressID   int64           `json:"user_address_id"`
	Status          OrderStatus     `json:"status"`
	TotalItemsPrice decimal.Decimal `json:"total_items_price"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	ShippingCost    decimal.Decimal `json:"shipping_cost"`
	FinalAmount     decimal.Decimal `json:"final_amount"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	Items   []OrderItem  `json:"items,omitempty"`
	Payment *Payment     `json:"payment,omitempty"`
	Address *UserAddress `json:"address,omitempty"`
}

// OrderItem.Price is the line total (quantity x unit price). The unit price
// lives in SnapshotPricePerItem.
type OrderItem struct {
	ID                   int64           `json:"id"`
	OrderID              int64           `json:"order_id"`
	BookID               *int64          `json:"book_id"`
	Quantity             int             `json:"quantity"`
	Price                decimal.Decimal `json:"price"`
	SnapshotBookTitle    string          `json:"snapshot_book_title"`
	SnapshotPricePerItem decimal.Decimal `json:"snapshot_price_per_item"`
	CreatedAt            time.Time       `json:"created_at"`
}

type UploadedFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// CheckoutRequest is the validated input of the order assembler.
type CheckoutRequest struct {
	CartItemIDs []int64
	AmountPaid  decimal.Decimal
	AddressID   int64
	Proof       *UploadedFile
}

type CheckoutResponse struct {
	OrderID   int64  `json:"order_id"`
	OrderCode string `json:"order_code"`
}

// multipart form fields of POST /checkout
type CheckoutForm struct {
	AmountPaid    string  `form:"amount_paid"     validate:"required,numeric"`
	UserAddressID int64   `form:"user_address_id" validate:"required,gt=0"`
	Items         []int64 `form:"items[]"         validate:"required,min=1,dive,gt=0"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=dikirim selesai"`
}

type OrderFilter struct {
	PaymentStatus PaymentStatus
	Page          int
	Size          int
}
