package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/models"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/utils"
)

type AddressRepository interface {
	GetAddressByID(ctx context.Context, id int64) (*models.UserAddress, error)
	ListAddressesByUser(ctx context.Context, userID int64) ([]models.UserAddress, error)
	CreateAddress(ctx context.Context, address *models.UserAddress) error
	ClearPrimary(ctx context.Context, userID int64) error
	SetPrimary(ctx context.Context, userID, id int64) error
}

type addressRepository struct {
	DB *sql.DB
}

func NewAddressRepository(db *sql.DB) AddressRepository {
	return &addressRepository{DB: db}
}

const addressColumns = `id, user_id, label, recipient_name, phone, street, city, province, postal_code, is_primary, created_at, updated_at`

func scanAddress(row interface{ Scan(dest ...any) error }, a *models.UserAddress) error {
	return row.Scan(&a.ID, &a.UserID, &a.Label, &a.RecipientName, &a.Phone, &a.Street, &a.City, &a.Province,
		&a.PostalCode, &a.IsPrimary, &a.CreatedAt, &a.UpdatedAt)
}

func (r *addressRepository) GetAddressByID(ctx context.Context, id int64) (*models.UserAddress, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	address := &models.UserAddress{}

	err := scanAddress(conn(ctx, r.DB).QueryRowContext(dbCtx, `SELECT `+addressColumns+` FROM user_addresses WHERE id = $1`, id), address)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to get the address: %w", err)
	}

	return address, nil
}

func (r *addressRepository) ListAddressesByUser(ctx context.Context, userID int64) ([]models.UserAddress, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + addressColumns + ` FROM user_addresses WHERE user_id = $1 ORDER BY is_primary DESC, id`

	rows, err := conn(ctx, r.DB).QueryContext(dbCtx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	defer rows.Close()

	addresses := []models.UserAddress{}

	for rows.Next() {
		var address models.UserAddress

		if err := scanAddress(rows, &address); err != nil {
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}

		addresses = append(addresses, address)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over the rows: %w", err)
	}

	return addresses, nil
}

func (r *addressRepository) CreateAddress(ctx context.Context, a *models.UserAddress) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO user_addresses (user_id, label, recipient_name, phone, street, city, province, postal_code, is_primary, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := conn(ctx, r.DB).QueryRowContext(dbCtx, query, a.UserID, a.Label, a.RecipientName, a.Phone, a.Street, a.City,
		a.Province, a.PostalCode, a.IsPrimary).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert address: %w", err)
	}

	return nil
}

func (r *addressRepository) ClearPrimary(ctx context.Context, userID int64) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `UPDATE user_addresses SET is_primary = FALSE, updated_at = NOW() WHERE user_id = $1 AND is_primary`

	if _, err := conn(ctx, r.DB).ExecContext(dbCtx, query, userID); err != nil {
		return fmt.Errorf("failed to clear primary address: %w", err)
	}

	return nil
}

func (r *addressRepository) SetPrimary(ctx context.Context, userID, id int64) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `UPDATE user_addresses SET is_primary = TRUE, updated_at = NOW() WHERE id = $1 AND user_id = $2`

	result, err := conn(ctx, r.DB).ExecContext(dbCtx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to set primary address: %w", err)
	}

	return rowsAffected(result)
}
