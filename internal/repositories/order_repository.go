package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/models"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/utils"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateOrderItems(ctx context.Context, orderID int64, items []models.OrderItem) error
	ExistsByCode(ctx context.Context, code string) (bool, error)
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	LockOrderByID(ctx context.Context, id int64) (*models.Order, error)
	GetOrderDetail(ctx context.Context, id int64) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID int64, page, size int) ([]models.Order, int, error)
	ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, int, error)
	UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) error
}

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

const orderColumns = `o.id, o.order_code, o.user_id, o.user_address_id, o.status, o.total_items_price,
		o.discount_amount, o.shipping_cost, o.final_amount, o.created_at, o.updated_at`

func scanOrder(row interface{ Scan(dest ...any) error }, order *models.Order, extra ...any) error {
	dest := []any{&order.ID, &order.OrderCode, &order.UserID, &order.UserAddressID, &order.Status, &order.TotalItemsPrice,
		&order.DiscountAmount, &order.ShippingCost, &order.FinalAmount, &order.CreatedAt, &order.UpdatedAt}

	return row.Scan(append(dest, extra...)...)
}

func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO orders (order_code, user_id, user_address_id, status, total_items_price, discount_amount, shipping_cost, final_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := conn(ctx, r.DB).QueryRowContext(dbCtx, query, order.OrderCode, order.UserID, order.UserAddressID, order.Status,
		order.TotalItemsPrice, order.DiscountAmount, order.ShippingCost, order.FinalAmount).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	return nil
}

func (r *orderRepository) CreateOrderItems(ctx context.Context, orderID int64, items []models.OrderItem) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO order_items (order_id, book_id, quantity, price, snapshot_book_title, snapshot_price_per_item, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	for i := range items {
		item := &items[i]
		item.OrderID = orderID

		err := conn(ctx, r.DB).QueryRowContext(dbCtx, query, orderID, item.BookID, item.Quantity, item.Price,
			item.SnapshotBookTitle, item.SnapshotPricePerItem).Scan(&item.ID, &item.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert an order item: %w", err)
		}
	}

	return nil
}

func (r *orderRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var exists bool

	err := conn(ctx, r.DB).QueryRowContext(dbCtx, `SELECT EXISTS (SELECT 1 FROM orders WHERE order_code = $1)`, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check order code: %w", err)
	}

	return exists, nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	return r.getOrder(ctx, `SELECT `+orderColumns+` FROM orders o WHERE o.id = $1 AND o.deleted_at IS NULL`, id)
}

// LockOrderByID must run inside a transaction. The row stays locked until it
// ends so concurrent status changes are checked one at a time.
func (r *orderRepository) LockOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	return r.getOrder(ctx, `SELECT `+orderColumns+` FROM orders o WHERE o.id = $1 AND o.deleted_at IS NULL FOR UPDATE`, id)
}

func (r *orderRepository) getOrder(ctx context.Context, query string, id int64) (*models.Order, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	order := &models.Order{}

	if err := scanOrder(conn(ctx, r.DB).QueryRowContext(dbCtx, query, id), order); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to get the order: %w", err)
	}

	return order, nil
}

// GetOrderDetail loads the order with its items, payment and shipping address.
func (r *orderRepository) GetOrderDetail(ctx context.Context, id int64) (*models.Order, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	db := conn(ctx, r.DB)

	query := `SELECT ` + orderColumns + `,
			a.id, a.user_id, a.label, a.recipient_name, a.phone, a.street, a.city, a.province, a.postal_code, a.is_primary, a.created_at, a.updated_at
		FROM orders o
		LEFT JOIN user_addresses a ON a.id = o.user_address_id
		WHERE o.id = $1 AND o.deleted_at IS NULL
	`

	order := &models.Order{}

	var addr nullableAddress

	err := scanOrder(db.QueryRowContext(dbCtx, query, id), order,
		&addr.ID, &addr.UserID, &addr.Label, &addr.RecipientName, &addr.Phone, &addr.Street, &addr.City,
		&addr.Province, &addr.PostalCode, &addr.IsPrimary, &addr.CreatedAt, &addr.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to get the order: %w", err)
	}

	order.Address = addr.toModel()

	itemsQuery := `
		SELECT id, order_id, book_id, quantity, price, snapshot_book_title, snapshot_price_per_item, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`

	rows, err := db.QueryContext(dbCtx, itemsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get the order items: %w", err)
	}
	defer rows.Close()

	order.Items = []models.OrderItem{}

	for rows.Next() {
		var item models.OrderItem

		var bookID sql.NullInt64

		if err := rows.Scan(&item.ID, &item.OrderID, &bookID, &item.Quantity, &item.Price, &item.SnapshotBookTitle, &item.SnapshotPricePerItem, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}

		if bookID.Valid {
			item.BookID = &bookID.Int64
		}

		order.Items = append(order.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over the rows: %w", err)
	}

	payment := &models.Payment{}

	err = scanPayment(db.QueryRowContext(dbCtx, `SELECT `+paymentColumns+` FROM payments WHERE order_id = $1`, id), payment)
	switch {
	case err == nil:
		order.Payment = payment
	case errors.Is(err, sql.ErrNoRows):
	default:
		return nil, fmt.Errorf("failed to get the payment: %w", err)
	}

	return order, nil
}

func (r *orderRepository) ListOrdersByUser(ctx context.Context, userID int64, page, size int) ([]models.Order, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	db := conn(ctx, r.DB)

	var total int

	err := db.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM orders WHERE user_id = $1 AND deleted_at IS NULL`, userID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := (page - 1) * size

	query := `SELECT ` + orderColumns + `, p.id, p.status
		FROM orders o
		LEFT JOIN payments p ON p.order_id = o.id
		WHERE o.user_id = $1 AND o.deleted_at IS NULL
		ORDER BY o.created_at DESC, o.id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := db.QueryContext(dbCtx, query, userID, size, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders, err := scanOrderSummaries(rows)
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// ListOrders is the admin listing. An empty PaymentStatus matches every order.
func (r *orderRepository) ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	db := conn(ctx, r.DB)

	var total int

	countQuery := `
		SELECT COUNT(*)
		FROM orders o
		LEFT JOIN payments p ON p.order_id = o.id
		WHERE o.deleted_at IS NULL AND ($1 = '' OR p.status = $1)
	`

	if err := db.QueryRowContext(dbCtx, countQuery, string(filter.PaymentStatus)).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := (filter.Page - 1) * filter.Size

	query := `SELECT ` + orderColumns + `, p.id, p.status
		FROM orders o
		LEFT JOIN payments p ON p.order_id = o.id
		WHERE o.deleted_at IS NULL AND ($1 = '' OR p.status = $1)
		ORDER BY o.created_at DESC, o.id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := db.QueryContext(dbCtx, query, string(filter.PaymentStatus), filter.Size, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders, err := scanOrderSummaries(rows)
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL`

	result, err := conn(ctx, r.DB).ExecContext(dbCtx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	return rowsAffected(result)
}

func scanOrderSummaries(rows *sql.Rows) ([]models.Order, error) {
	orders := []models.Order{}

	for rows.Next() {
		var (
			order         models.Order
			paymentID     sql.NullInt64
			paymentStatus sql.NullString
		)

		if err := scanOrder(rows, &order, &paymentID, &paymentStatus); err != nil {
			return nil, fmt.Errorf("failed to scan the orders: %w", err)
		}

		if paymentID.Valid {
			order.Payment = &models.Payment{
				ID:      paymentID.Int64,
				OrderID: order.ID,
				Status:  models.PaymentStatus(paymentStatus.String),
			}
		}

		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over the rows: %w", err)
	}

	return orders, nil
}

// nullableAddress absorbs the LEFT JOIN on user_addresses.
type nullableAddress struct {
	ID            sql.NullInt64
	UserID        sql.NullInt64
	Label         sql.NullString
	RecipientName sql.NullString
	Phone         sql.NullString
	Street        sql.NullString
	City          sql.NullString
	Province      sql.NullString
	PostalCode    sql.NullString
	IsPrimary     sql.NullBool
	CreatedAt     sql.NullTime
	UpdatedAt     sql.NullTime
}

func (a nullableAddress) toModel() *models.UserAddress {
	if !a.ID.Valid {
		return nil
	}

	return &models.UserAddress{
		ID:            a.ID.Int64,
		UserID:        a.UserID.Int64,
		Label:         a.Label.String,
		RecipientName: a.RecipientName.String,
		Phone:         a.Phone.String,
		Street:        a.Street.String,
		City:          a.City.String,
		Province:      a.Province.String,
		PostalCode:    a.PostalCode.String,
		IsPrimary:     a.IsPrimary.Bool,
		CreatedAt:     a.CreatedAt.Time,
		UpdatedAt:     a.UpdatedAt.Time,
	}
}
