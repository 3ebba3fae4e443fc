package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/models"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/utils"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type CartRepository interface {
	GetOrCreateCart(ctx context.Context, userID int64) (*models.Cart, error)
	ListItems(ctx context.Context, cartID int64) ([]models.CartItem, error)
	GetItem(ctx context.Context, itemID int64) (*models.CartItem, int64, error)
	FindItemByBook(ctx context.Context, cartID, bookID int64) (*models.CartItem, error)
	UpsertItem(ctx context.Context, cartID, bookID int64, quantity int, price decimal.Decimal) (*models.CartItem, error)
	UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) error
	DeleteItem(ctx context.Context, itemID int64) error
	GetItemsForUser(ctx context.Context, userID int64, itemIDs []int64) ([]models.CartItem, error)
	DeleteItems(ctx context.Context, itemIDs []int64) error
}

type cartRepository struct {
	DB *sql.DB
}

func NewCartRepository(db *sql.DB) CartRepository {
	return &cartRepository{DB: db}
}

func (r *cartRepository) GetOrCreateCart(ctx context.Context, userID int64) (*models.Cart, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO carts (user_id, created_at, updated_at)
		VALUES ($1, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id, user_id, created_at, updated_at
	`

	cart := &models.Cart{}

	err := conn(ctx, r.DB).QueryRowContext(dbCtx, query, userID).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create cart: %w", err)
	}

	return cart, nil
}

func (r *cartRepository) ListItems(ctx context.Context, cartID int64) ([]models.CartItem, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT ci.id, ci.cart_id, ci.book_id, ci.quantity, ci.price, ci.created_at, ci.updated_at,
			b.id, b.title, b.author, b.price, b.stock, b.cover_url, b.created_at, b.updated_at
		FROM cart_items ci
		JOIN books b ON b.id = ci.book_id
		WHERE ci.cart_id = $1
		ORDER BY ci.id
	`

	rows, err := conn(ctx, r.DB).QueryContext(dbCtx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	defer rows.Close()

	items := []models.CartItem{}

	for rows.Next() {
		var item models.CartItem

		book := &models.Book{}

		err := rows.Scan(&item.ID, &item.CartID, &item.BookID, &item.Quantity, &item.Price, &item.CreatedAt, &item.UpdatedAt,
			&book.ID, &book.Title, &book.Author, &book.Price, &book.Stock, &book.CoverURL, &book.CreatedAt, &book.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}

		item.Book = book
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over the rows: %w", err)
	}

	return items, nil
}

// GetItem returns the item and the id of the user owning its cart.
func (r *cartRepository) GetItem(ctx context.Context, itemID int64) (*models.CartItem, int64, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT ci.id, ci.cart_id, ci.book_id, ci.quantity, ci.price, ci.created_at, ci.updated_at, c.user_id
		FROM cart_items ci
		JOIN carts c ON c.id = ci.cart_id
		WHERE ci.id = $1
	`

	item := &models.CartItem{}

	var ownerID int64

	err := conn(ctx, r.DB).QueryRowContext(dbCtx, query, itemID).Scan(&item.ID, &item.CartID, &item.BookID, &item.Quantity, &item.Price, &item.CreatedAt, &item.UpdatedAt, &ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, ErrNotFound
		}

		return nil, 0, fmt.Errorf("failed to get cart item: %w", err)
	}

	return item, ownerID, nil
}

func (r *cartRepository) FindItemByBook(ctx context.Context, cartID, bookID int64) (*models.CartItem, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, cart_id, book_id, quantity, price, created_at, updated_at
		FROM cart_items
		WHERE cart_id = $1 AND book_id = $2
		FOR UPDATE
	`

	item := &models.CartItem{}

	err := conn(ctx, r.DB).QueryRowContext(dbCtx, query, cartID, bookID).Scan(&item.ID, &item.CartID, &item.BookID, &item.Quantity, &item.Price, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to find cart item: %w", err)
	}

	return item, nil
}

// UpsertItem adds quantity to the (cart, book) row, creating it on first add.
// The price is only written on insert.
func (r *cartRepository) UpsertItem(ctx context.Context, cartID, bookID int64, quantity int, price decimal.Decimal) (*models.CartItem, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO cart_items (cart_id, book_id, quantity, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (cart_id, book_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
		RETURNING id, cart_id, book_id, quantity, price, created_at, updated_at
	`

	item := &models.CartItem{}

	err := conn(ctx, r.DB).QueryRowContext(dbCtx, query, cartID, bookID, quantity, price).Scan(&item.ID, &item.CartID, &item.BookID, &item.Quantity, &item.Price, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert cart item: %w", err)
	}

	return item, nil
}

func (r *cartRepository) UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `UPDATE cart_items SET quantity = $1, updated_at = NOW() WHERE id = $2`

	result, err := conn(ctx, r.DB).ExecContext(dbCtx, query, quantity, itemID)
	if err != nil {
		return fmt.Errorf("failed to update cart item quantity: %w", err)
	}

	return rowsAffected(result)
}

func (r *cartRepository) DeleteItem(ctx context.Context, itemID int64) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := conn(ctx, r.DB).ExecContext(dbCtx, `DELETE FROM cart_items WHERE id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}

	return rowsAffected(result)
}

// GetItemsForUser resolves and locks the requested item ids that belong to the
// user's cart. Ids owned by someone else are silently left out.
func (r *cartRepository) GetItemsForUser(ctx context.Context, userID int64, itemIDs []int64) ([]models.CartItem, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT ci.id, ci.cart_id, ci.book_id, ci.quantity, ci.price, ci.created_at, ci.updated_at
		FROM cart_items ci
		JOIN carts c ON c.id = ci.cart_id
		WHERE c.user_id = $1 AND ci.id = ANY($2)
		ORDER BY ci.id
		FOR UPDATE OF ci
	`

	rows, err := conn(ctx, r.DB).QueryContext(dbCtx, query, userID, pq.Array(itemIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to get selected cart items: %w", err)
	}
	defer rows.Close()

	items := []models.CartItem{}

	for rows.Next() {
		var item models.CartItem

		if err := rows.Scan(&item.ID, &item.CartID, &item.BookID, &item.Quantity, &item.Price, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over the rows: %w", err)
	}

	return items, nil
}

// DeleteItems removes all of itemIDs or reports ErrStaleSelection when some
// of them were already gone.
func (r *cartRepository) DeleteItems(ctx context.Context, itemIDs []int64) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := conn(ctx, r.DB).ExecContext(dbCtx, `DELETE FROM cart_items WHERE id = ANY($1)`, pq.Array(itemIDs))
	if err != nil {
		return fmt.Errorf("failed to delete cart items: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get deleted rows: %w", err)
	}

	if deleted != int64(len(itemIDs)) {
		return fmt.Errorf("deleted %d of %d cart items: %w", deleted, len(itemIDs), ErrStaleSelection)
	}

	return nil
}
