package models

import "time"

type UserAddress struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Label         string    `json:"label"`
	RecipientName string    `json:"recipient_name"`
	Phone         string    `json:"phone"`
	Street        string    `json:"street"`
	City          string    `json:"city"`
	Province      string    `json:"province"`
	PostalCode    string    `json:"postal_code"`
	IsPrimary     bool      `json:"is_primary"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type CreateAddressRequest struct {
	Label         string `json:"label"          validate:"omitempty,max=50"`
	RecipientName string `json:"recipient_name" validate:"required,max=100"`
	Phone         string `json:"phone"          validate:"required,max=20"`
	Street        string `json:"street"         validate:"required,max=255"`
	City          string `json:"city"           validate:"required,max=100"`
	Province      string `json:"province"       validate:"required,max=100"`
	PostalCode    string `json:"postal_code"    validate:"required,max=10"`
	IsPrimary     bool   `json:"is_primary"`
}
