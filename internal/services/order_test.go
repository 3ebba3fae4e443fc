package service_test

import (
	"context"
	"errors"
	"testing"

	cacheMocks "github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/cache/mocks"
	appErrors "github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/errors"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/models"
	repository "github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/repositories"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/repositories/mocks"
	service "github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupOrderServiceTest(t *testing.T) (service.OrderService, *mocks.OrderRepository, *cacheMocks.Cache) {
	orderRepo := mocks.NewOrderRepository(t)
	cache := cacheMocks.NewCache(t)

	return service.NewOrderService(passthroughTx(t), orderRepo, cache), orderRepo, cache
}

func TestGetMyOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Cache miss loads and stores the order", func(t *testing.T) {
		// Arrange
		svc, orderRepo, cache := setupOrderServiceTest(t)
		order := &models.Order{ID: 11, UserID: testUserID, Status: models.OrderStatusPending}

		cache.On("Get", mock.Anything, "order:11", mock.AnythingOfType("*models.Order")).Return(false, nil).Once()
		orderRepo.On("GetOrderDetail", mock.Anything, int64(11)).Return(order, nil).Once()
		cache.On("Set", mock.Anything, "order:11", order, mock.Anything).Return(nil).Once()

		// Act
		got, err := svc.GetMyOrder(ctx, testUserID, 11)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, order, got)
	})

	t.Run("Success - Cache hit skips the database", func(t *testing.T) {
		svc, orderRepo, cache := setupOrderServiceTest(t)

		cache.On("Get", mock.Anything, "order:11", mock.AnythingOfType("*models.Order")).
			Run(func(args mock.Arguments) {
				*args.Get(2).(*models.Order) = models.Order{ID: 11, UserID: testUserID, OrderCode: "ORD-ABCDEFGH"}
			}).Return(true, nil).Once()

		got, err := svc.GetMyOrder(ctx, testUserID, 11)

		require.NoError(t, err)
		assert.Equal(t, "ORD-ABCDEFGH", got.OrderCode)
		orderRepo.AssertNotCalled(t, "GetOrderDetail", mock.Anything, mock.Anything)
	})

	t.Run("Success - Cache failures fall back to the database", func(t *testing.T) {
		svc, orderRepo, cache := setupOrderServiceTest(t)
		order := &models.Order{ID: 11, UserID: testUserID}

		cache.On("Get", mock.Anything, "order:11", mock.Anything).Return(false, errors.New("redis down")).Once()
		orderRepo.On("GetOrderDetail", mock.Anything, int64(11)).Return(order, nil).Once()
		cache.On("Set", mock.Anything, "order:11", order, mock.Anything).Return(errors.New("redis down")).Once()

		got, err := svc.GetMyOrder(ctx, testUserID, 11)

		require.NoError(t, err)
		assert.Equal(t, int64(11), got.ID)
	})

	t.Run("Failure - Order of another user is hidden", func(t *testing.T) {
		svc, orderRepo, cache := setupOrderServiceTest(t)
		order := &models.Order{ID: 11, UserID: 7}

		cache.On("Get", mock.Anything, "order:11", mock.Anything).Return(false, nil).Once()
		orderRepo.On("GetOrderDetail", mock.Anything, int64(11)).Return(order, nil).Once()
		cache.On("Set", mock.Anything, "order:11", order, mock.Anything).Return(nil).Once()

		got, err := svc.GetMyOrder(ctx, testUserID, 11)

		assert.Nil(t, got)
		requireAppError(t, err, appErrors.ErrCodeNotFound)
	})

	t.Run("Failure - Order not found", func(t *testing.T) {
		svc, orderRepo, cache := setupOrderServiceTest(t)

		cache.On("Get", mock.Anything, "order:99", mock.Anything).Return(false, nil).Once()
		orderRepo.On("GetOrderDetail", mock.Anything, int64(99)).Return(nil, repository.ErrNotFound).Once()

		_, err := svc.GetMyOrder(ctx, testUserID, 99)

		requireAppError(t, err, appErrors.ErrCodeNotFound)
	})
}

func TestListMyOrders(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Out of range paging falls back to defaults", func(t *testing.T) {
		svc, orderRepo, _ := setupOrderServiceTest(t)
		orders := []models.Order{{ID: 1}, {ID: 2}}

		orderRepo.On("ListOrdersByUser", mock.Anything, testUserID, 1, 10).Return(orders, 2, nil).Once()

		resp, err := svc.ListMyOrders(ctx, testUserID, 0, 500)

		require.NoError(t, err)
		assert.Equal(t, 2, resp.Total)
		assert.Equal(t, 1, resp.Page)
		assert.Equal(t, 10, resp.PageSize)
		assert.Equal(t, orders, resp.Data)
	})

	t.Run("Failure - Database error", func(t *testing.T) {
		svc, orderRepo, _ := setupOrderServiceTest(t)

		orderRepo.On("ListOrdersByUser", mock.Anything, testUserID, 2, 5).Return(nil, 0, errors.New("db error")).Once()

		_, err := svc.ListMyOrders(ctx, testUserID, 2, 5)

		requireAppError(t, err, appErrors.ErrCodeDatabaseError)
	})
}

func TestListOrders(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Filter by payment status", func(t *testing.T) {
		svc, orderRepo, _ := setupOrderServiceTest(t)
		expected := models.OrderFilter{PaymentStatus: models.PaymentStatusPending, Page: 3, Size: 20}

		orderRepo.On("ListOrders", mock.Anything, expected).Return([]models.Order{{ID: 4}}, 41, nil).Once()

		resp, err := svc.ListOrders(ctx, expected)

		require.NoError(t, err)
		assert.Equal(t, 41, resp.Total)
		assert.Equal(t, 3, resp.Page)
	})

	t.Run("Failure - Unknown payment status", func(t *testing.T) {
		svc, _, _ := setupOrderServiceTest(t)

		_, err := svc.ListOrders(ctx, models.OrderFilter{PaymentStatus: "refunded"})

		requireAppError(t, err, appErrors.ErrCodeValidation)
	})
}

func TestUpdateOrderStatus(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		current models.OrderStatus
		next    models.OrderStatus
		allowed bool
	}{
		{"Processing to shipped", models.OrderStatusProcessing, models.OrderStatusShipped, true},
		{"Shipped to completed", models.OrderStatusShipped, models.OrderStatusCompleted, true},
		{"Pending to shipped", models.OrderStatusPending, models.OrderStatusShipped, false},
		{"Processing to completed", models.OrderStatusProcessing, models.OrderStatusCompleted, false},
		{"Cancelled to shipped", models.OrderStatusCancelled, models.OrderStatusShipped, false},
		{"Completed to shipped", models.OrderStatusCompleted, models.OrderStatusShipped, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, orderRepo, cache := setupOrderServiceTest(t)

			orderRepo.On("LockOrderByID", mock.Anything, int64(11)).Return(&models.Order{ID: 11, Status: tc.current}, nil).Once()

			if tc.allowed {
				orderRepo.On("UpdateOrderStatus", mock.Anything, int64(11), tc.next).Return(nil).Once()
				cache.On("Delete", mock.Anything, "order:11").Return(nil).Once()
			}

			order, err := svc.UpdateOrderStatus(ctx, 11, tc.next)

			if !tc.allowed {
				assert.Nil(t, order)
				requireAppError(t, err, appErrors.ErrCodeInvalidState)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.next, order.Status)
		})
	}
}

type txMarker struct{}

func TestUpdateOrderStatusLocksInsideTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Lock and write share the transaction", func(t *testing.T) {
		// Arrange
		tx := mocks.NewTxManager(t)
		tx.On("RunInTx", mock.Anything, mock.Anything).
			Return(func(ctx context.Context, fn func(context.Context) error) error {
				return fn(context.WithValue(ctx, txMarker{}, true))
			}).Once()

		orderRepo := mocks.NewOrderRepository(t)
		cache := cacheMocks.NewCache(t)
		svc := service.NewOrderService(tx, orderRepo, cache)

		inTx := mock.MatchedBy(func(ctx context.Context) bool { return ctx.Value(txMarker{}) == true })

		orderRepo.On("LockOrderByID", inTx, int64(11)).Return(&models.Order{ID: 11, Status: models.OrderStatusProcessing}, nil).Once()
		orderRepo.On("UpdateOrderStatus", inTx, int64(11), models.OrderStatusShipped).Return(nil).Once()
		cache.On("Delete", mock.Anything, "order:11").Return(nil).Once()

		// Act
		order, err := svc.UpdateOrderStatus(ctx, 11, models.OrderStatusShipped)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusShipped, order.Status)
		orderRepo.AssertNotCalled(t, "GetOrderByID", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Write error keeps the cache", func(t *testing.T) {
		svc, orderRepo, cache := setupOrderServiceTest(t)

		orderRepo.On("LockOrderByID", mock.Anything, int64(11)).Return(&models.Order{ID: 11, Status: models.OrderStatusShipped}, nil).Once()
		orderRepo.On("UpdateOrderStatus", mock.Anything, int64(11), models.OrderStatusCompleted).Return(errors.New("connection reset")).Once()

		_, err := svc.UpdateOrderStatus(ctx, 11, models.OrderStatusCompleted)

		requireAppError(t, err, appErrors.ErrCodeDatabaseError)
		cache.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Unknown order", func(t *testing.T) {
		svc, orderRepo, _ := setupOrderServiceTest(t)

		orderRepo.On("LockOrderByID", mock.Anything, int64(99)).Return(nil, repository.ErrNotFound).Once()

		_, err := svc.UpdateOrderStatus(ctx, 99, models.OrderStatusShipped)

		requireAppError(t, err, appErrors.ErrCodeNotFound)
	})
}
