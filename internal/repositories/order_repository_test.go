package repository_test

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/models"
	repository "github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderColumns = []string{"id", "order_code", "user_id", "user_address_id", "status", "total_items_price",
	"discount_amount", "shipping_cost", "final_amount", "created_at", "updated_at"}

var paymentColumns = []string{"id", "order_id", "method", "status", "amount_due", "amount_paid", "payment_proof_url",
	"admin_notes", "payment_date", "confirmed_at", "created_at", "updated_at"}

func TestCreateOrder(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewOrderRepository(db)
	now := time.Now()

	order := &models.Order{
		OrderCode:       "ORD-AB12CD34",
		UserID:          42,
		UserAddressID:   3,
		Status:          models.OrderStatusAwaitingValidation,
		TotalItemsPrice: decimal.NewFromInt(100000),
		FinalAmount:     decimal.NewFromInt(100000),
	}

	mock.ExpectQuery(`INSERT INTO orders`).
		WithArgs("ORD-AB12CD34", int64(42), int64(3), "menunggu_validasi", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(11), now, now))

	err := repo.CreateOrder(t.Context(), order)

	require.NoError(t, err)
	assert.Equal(t, int64(11), order.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderItems(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewOrderRepository(db)
	now := time.Now()
	bookID := int64(7)

	items := []models.OrderItem{
		{BookID: &bookID, Quantity: 2, Price: decimal.NewFromInt(100000), SnapshotBookTitle: "Laskar Pelangi", SnapshotPricePerItem: decimal.NewFromInt(50000)},
	}

	mock.ExpectQuery(`INSERT INTO order_items`).
		WithArgs(int64(11), int64(7), 2, sqlmock.AnyArg(), "Laskar Pelangi", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(21), now))

	err := repo.CreateOrderItems(t.Context(), 11, items)

	require.NoError(t, err)
	assert.Equal(t, int64(21), items[0].ID)
	assert.Equal(t, int64(11), items[0].OrderID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExistsByCode(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewOrderRepository(db)

	mock.ExpectQuery(`SELECT EXISTS`).WithArgs("ORD-AB12CD34").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByCode(t.Context(), "ORD-AB12CD34")

	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrderDetail(t *testing.T) {
	now := time.Now()
	addressColumns := []string{"a_id", "a_user_id", "label", "recipient_name", "phone", "street", "city", "province", "postal_code", "is_primary", "a_created_at", "a_updated_at"}

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewOrderRepository(db)

		mock.ExpectQuery(`FROM orders o LEFT JOIN user_addresses a`).WithArgs(int64(11)).
			WillReturnRows(sqlmock.NewRows(append(append([]string{}, orderColumns...), addressColumns...)).
				AddRow(int64(11), "ORD-AB12CD34", int64(42), int64(3), "menunggu_validasi", "100000", "0", "0", "100000", now, now,
					int64(3), int64(42), "Rumah", "Budi", "0812", "Jl. Merdeka 1", "Bandung", "Jawa Barat", "40111", true, now, now))

		mock.ExpectQuery(`FROM order_items WHERE order_id = \$1`).WithArgs(int64(11)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "book_id", "quantity", "price", "snapshot_book_title", "snapshot_price_per_item", "created_at"}).
				AddRow(int64(21), int64(11), int64(7), 2, "100000", "Laskar Pelangi", "50000", now).
				AddRow(int64(22), int64(11), nil, 1, "0", "Deleted Book", "0", now))

		mock.ExpectQuery(`FROM payments WHERE order_id = \$1`).WithArgs(int64(11)).
			WillReturnRows(sqlmock.NewRows(paymentColumns).
				AddRow(int64(31), int64(11), "qris_manual", "waiting_validation", "100000", "100000", "/storage/payment_proofs/a.png", nil, now, nil, now, now))

		order, err := repo.GetOrderDetail(t.Context(), 11)

		require.NoError(t, err)
		require.NotNil(t, order.Address)
		assert.Equal(t, "Bandung", order.Address.City)
		require.Len(t, order.Items, 2)
		assert.Equal(t, int64(7), *order.Items[0].BookID)
		assert.Nil(t, order.Items[1].BookID, "a deleted book leaves the snapshot without a reference")
		require.NotNil(t, order.Payment)
		assert.Equal(t, models.PaymentStatusWaitingValidation, order.Payment.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - No payment row", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewOrderRepository(db)

		mock.ExpectQuery(`FROM orders o LEFT JOIN user_addresses a`).WithArgs(int64(11)).
			WillReturnRows(sqlmock.NewRows(append(append([]string{}, orderColumns...), addressColumns...)).
				AddRow(int64(11), "ORD-AB12CD34", int64(42), int64(3), "pending", "100000", "0", "0", "100000", now, now,
					nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil))
		mock.ExpectQuery(`FROM order_items`).WithArgs(int64(11)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "book_id", "quantity", "price", "snapshot_book_title", "snapshot_price_per_item", "created_at"}))
		mock.ExpectQuery(`FROM payments`).WithArgs(int64(11)).WillReturnRows(sqlmock.NewRows(paymentColumns))

		order, err := repo.GetOrderDetail(t.Context(), 11)

		require.NoError(t, err)
		assert.Nil(t, order.Address)
		assert.Nil(t, order.Payment)
		assert.Empty(t, order.Items)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewOrderRepository(db)

		mock.ExpectQuery(`FROM orders o`).WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows(append(append([]string{}, orderColumns...), addressColumns...)))

		order, err := repo.GetOrderDetail(t.Context(), 99)

		assert.Nil(t, order)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestListOrders(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewOrderRepository(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT COUNT\(\*\)`).WithArgs("waiting_validation").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	mock.ExpectQuery(`LEFT JOIN payments p ON p.order_id = o.id`).WithArgs("waiting_validation", 2, 2).
		WillReturnRows(sqlmock.NewRows(append(append([]string{}, orderColumns...), "p_id", "p_status")).
			AddRow(int64(11), "ORD-AB12CD34", int64(42), int64(3), "menunggu_validasi", "100000", "0", "0", "100000", now, now, int64(31), "waiting_validation"))

	orders, total, err := repo.ListOrders(t.Context(), models.OrderFilter{
		PaymentStatus: models.PaymentStatusWaitingValidation,
		Page:          2,
		Size:          2,
	})

	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, orders, 1)
	assert.Equal(t, int64(31), orders[0].Payment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListOrdersByUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewOrderRepository(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM orders WHERE user_id = \$1`).WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery(`WHERE o.user_id = \$1`).WithArgs(int64(42), 10, 0).
		WillReturnRows(sqlmock.NewRows(append(append([]string{}, orderColumns...), "p_id", "p_status")).
			AddRow(int64(11), "ORD-AB12CD34", int64(42), int64(3), "pending", "100000", "0", "0", "100000", now, now, nil, nil))

	orders, total, err := repo.ListOrdersByUser(t.Context(), 42, 1, 10)

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, orders, 1)
	assert.Nil(t, orders[0].Payment)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockOrderByID(t *testing.T) {
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewOrderRepository(db)

		mock.ExpectQuery(`FROM orders o WHERE o.id = \$1 AND o.deleted_at IS NULL FOR UPDATE`).WithArgs(int64(11)).
			WillReturnRows(sqlmock.NewRows(orderColumns).
				AddRow(int64(11), "ORD-AB12CD34", int64(42), int64(3), "diproses", "100000", "0", "0", "100000", now, now))

		order, err := repo.LockOrderByID(t.Context(), 11)

		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusProcessing, order.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewOrderRepository(db)

		mock.ExpectQuery(`FOR UPDATE`).WithArgs(int64(99)).WillReturnRows(sqlmock.NewRows(orderColumns))

		_, err := repo.LockOrderByID(t.Context(), 99)

		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestUpdateOrderStatus(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewOrderRepository(db)

		mock.ExpectExec(`UPDATE orders SET status = \$1`).WithArgs("diproses", int64(11)).WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdateOrderStatus(t.Context(), 11, models.OrderStatusProcessing))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewOrderRepository(db)

		mock.ExpectExec(`UPDATE orders SET status = \$1`).WithArgs("diproses", int64(99)).WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.UpdateOrderStatus(t.Context(), 99, models.OrderStatusProcessing), repository.ErrNotFound)
	})
}
