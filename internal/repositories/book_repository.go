package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/models"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/utils"
	"github.com/lib/pq"
)

type BookRepository interface {
	GetBookByID(ctx context.Context, id int64) (*models.Book, error)
	LockBooks(ctx context.Context, ids []int64) (map[int64]*models.Book, error)
	DecrementStock(ctx context.Context, id int64, quantity int) (bool, error)
}

type bookRepository struct {
	DB *sql.DB
}

func NewBookRepository(db *sql.DB) BookRepository {
	return &bookRepository{DB: db}
}

func (r *bookRepository) GetBookByID(ctx context.Context, id int64) (*models.Book, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, title, author, price, stock, cover_url, created_at, updated_at
		FROM books
		WHERE id = $1 AND deleted_at IS NULL
	`

	book := &models.Book{}

	err := conn(ctx, r.DB).QueryRowContext(dbCtx, query, id).Scan(&book.ID, &book.Title, &book.Author, &book.Price, &book.Stock, &book.CoverURL, &book.CreatedAt, &book.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to get the book: %w", err)
	}

	return book, nil
}

// LockBooks takes row locks on the given books until the surrounding
// transaction ends. Rows are locked in id order so concurrent checkouts
// cannot deadlock on each other. The lock only serializes stock checks;
// stock itself is decremented later by DecrementStock.
func (r *bookRepository) LockBooks(ctx context.Context, ids []int64) (map[int64]*models.Book, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, title, author, price, stock, cover_url, created_at, updated_at
		FROM books
		WHERE id = ANY($1) AND deleted_at IS NULL
		ORDER BY id
		FOR UPDATE
	`

	rows, err := conn(ctx, r.DB).QueryContext(dbCtx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to lock books: %w", err)
	}
	defer rows.Close()

	books := make(map[int64]*models.Book, len(ids))

	for rows.Next() {
		book := &models.Book{}

		if err := rows.Scan(&book.ID, &book.Title, &book.Author, &book.Price, &book.Stock, &book.CoverURL, &book.CreatedAt, &book.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}

		books[book.ID] = book
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over the rows: %w", err)
	}

	return books, nil
}

// DecrementStock subtracts quantity only when enough stock is left. It
// reports false when the row is missing or the stock would go negative.
func (r *bookRepository) DecrementStock(ctx context.Context, id int64, quantity int) (bool, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE books SET stock = stock - $1, updated_at = NOW()
		WHERE id = $2 AND stock >= $1 AND deleted_at IS NULL
	`

	result, err := conn(ctx, r.DB).ExecContext(dbCtx, query, quantity, id)
	if err != nil {
		return false, fmt.Errorf("failed to decrement stock: %w", err)
	}

	if err := rowsAffected(result); err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}
