package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusWaitingValidation PaymentStatus = "waiting_validation"
	PaymentStatusPending           PaymentStatus = "pending"
	PaymentStatusSuccess           PaymentStatus = "success"
	PaymentStatusFailed            PaymentStatus = "failed"
)

const PaymentMethodQRISManual = "qris_manual"

// IsTerminal reports whether the admin has already decided on the payment.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusSuccess || s == PaymentStatusFailed
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusWaitingValidation, PaymentStatusPending, PaymentStatusSuccess, PaymentStatusFailed:
		return true
	}

	return false
}

type Payment struct {
	ID              int64           `json:"id"`
	OrderID         int64           `json:"order_id"`
	Method          string          `json:"method"`
	Status          PaymentStatus   `json:"status"`
	AmountDue       decimal.Decimal `json:"amount_due"`
	AmountPaid      decimal.Decimal `json:"amount_paid"`
	PaymentProofURL *string         `json:"payment_proof_url,omitempty"`
	AdminNotes      *string         `json:"admin_notes,omitempty"`
	PaymentDate     time.Time       `json:"payment_date"`
	ConfirmedAt     *time.Time      `json:"confirmed_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type RejectPaymentRequest struct {
	Reason string `json:"reason" validate:"required,max=255"`
}
