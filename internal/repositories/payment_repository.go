package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/models"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/utils"
)

type PaymentRepository interface {
	CreatePayment(ctx context.Context, payment *models.Payment) error
	GetPaymentByOrderID(ctx context.Context, orderID int64) (*models.Payment, error)
	LockPaymentByOrderID(ctx context.Context, orderID int64) (*models.Payment, error)
	UpdateProof(ctx context.Context, id int64, proofURL string, status models.PaymentStatus) error
	UpdateDecision(ctx context.Context, id int64, status models.PaymentStatus, adminNotes string, confirmedAt *time.Time) error
}

type paymentRepository struct {
	DB *sql.DB
}

func NewPaymentRepository(db *sql.DB) PaymentRepository {
	return &paymentRepository{DB: db}
}

const paymentColumns = `id, order_id, method, status, amount_due, amount_paid, payment_proof_url, admin_notes,
		payment_date, confirmed_at, created_at, updated_at`

func scanPayment(row interface{ Scan(dest ...any) error }, payment *models.Payment) error {
	return row.Scan(&payment.ID, &payment.OrderID, &payment.Method, &payment.Status, &payment.AmountDue, &payment.AmountPaid,
		&payment.PaymentProofURL, &payment.AdminNotes, &payment.PaymentDate, &payment.ConfirmedAt, &payment.CreatedAt, &payment.UpdatedAt)
}

func (r *paymentRepository) CreatePayment(ctx context.Context, payment *models.Payment) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO payments (order_id, method, status, amount_due, amount_paid, payment_proof_url, payment_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := conn(ctx, r.DB).QueryRowContext(dbCtx, query, payment.OrderID, payment.Method, payment.Status, payment.AmountDue,
		payment.AmountPaid, payment.PaymentProofURL, payment.PaymentDate).Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	return nil
}

func (r *paymentRepository) GetPaymentByOrderID(ctx context.Context, orderID int64) (*models.Payment, error) {
	return r.getByOrderID(ctx, `SELECT `+paymentColumns+` FROM payments WHERE order_id = $1`, orderID)
}

// LockPaymentByOrderID must run inside a transaction. The row stays locked
// until it ends so concurrent admin decisions are applied one at a time.
func (r *paymentRepository) LockPaymentByOrderID(ctx context.Context, orderID int64) (*models.Payment, error) {
	return r.getByOrderID(ctx, `SELECT `+paymentColumns+` FROM payments WHERE order_id = $1 FOR UPDATE`, orderID)
}

func (r *paymentRepository) getByOrderID(ctx context.Context, query string, orderID int64) (*models.Payment, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	payment := &models.Payment{}

	if err := scanPayment(conn(ctx, r.DB).QueryRowContext(dbCtx, query, orderID), payment); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to get the payment: %w", err)
	}

	return payment, nil
}

func (r *paymentRepository) UpdateProof(ctx context.Context, id int64, proofURL string, status models.PaymentStatus) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE payments SET payment_proof_url = $1, status = $2, updated_at = NOW()
		WHERE id = $3
	`

	result, err := conn(ctx, r.DB).ExecContext(dbCtx, query, proofURL, status, id)
	if err != nil {
		return fmt.Errorf("failed to update payment proof: %w", err)
	}

	return rowsAffected(result)
}

func (r *paymentRepository) UpdateDecision(ctx context.Context, id int64, status models.PaymentStatus, adminNotes string, confirmedAt *time.Time) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE payments SET status = $1, admin_notes = $2, confirmed_at = $3, updated_at = NOW()
		WHERE id = $4
	`

	result, err := conn(ctx, r.DB).ExecContext(dbCtx, query, status, adminNotes, confirmedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}

	return rowsAffected(result)
}
