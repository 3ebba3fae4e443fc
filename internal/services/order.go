package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/api/middleware"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/cache"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/errors"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/models"
	repository "github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/repositories"
)

type OrderService interface {
	ListMyOrders(ctx context.Context, userID int64, page, size int) (*models.PaginatedResponse, error)
	GetMyOrder(ctx context.Context, userID, orderID int64) (*models.Order, error)
	ListOrders(ctx context.Context, filter models.OrderFilter) (*models.PaginatedResponse, error)
	GetOrder(ctx context.Context, orderID int64) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status models.OrderStatus) (*models.Order, error)
}

type orderService struct {
	tx        repository.TxManager
	orderRepo repository.OrderRepository
	cache     cache.Cache
}

func NewOrderService(tx repository.TxManager, orderRepo repository.OrderRepository, cache cache.Cache) OrderService {
	return &orderService{tx: tx, orderRepo: orderRepo, cache: cache}
}

// fulfilment transitions an admin may apply after the payment is approved
var nextOrderStatus = map[models.OrderStatus]models.OrderStatus{
	models.OrderStatusProcessing: models.OrderStatusShipped,
	models.OrderStatusShipped:    models.OrderStatusCompleted,
}

func (s *orderService) ListMyOrders(ctx context.Context, userID int64, page, size int) (*models.PaginatedResponse, error) {

	page, size = normalizePage(page, size)

	orders, total, err := s.orderRepo.ListOrdersByUser(ctx, userID, page, size)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch orders").WithError(err)
	}

	return &models.PaginatedResponse{Data: orders, Total: total, Page: page, PageSize: size}, nil
}

// GetMyOrder hides orders of other users behind a 404.
func (s *orderService) GetMyOrder(ctx context.Context, userID, orderID int64) (*models.Order, error) {

	order, err := s.detail(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.UserID != userID {
		middleware.LoggerFromContext(ctx).Warn("Attempted to access another user's order", slog.Int64("orderId", orderID))

		return nil, errors.NotFoundError("Order not found")
	}

	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, filter models.OrderFilter) (*models.PaginatedResponse, error) {

	if filter.PaymentStatus != "" && !filter.PaymentStatus.Valid() {
		return nil, errors.AddValidationError("payment_status", "must be one of waiting_validation pending success failed")
	}

	filter.Page, filter.Size = normalizePage(filter.Page, filter.Size)

	orders, total, err := s.orderRepo.ListOrders(ctx, filter)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch orders").WithError(err)
	}

	return &models.PaginatedResponse{Data: orders, Total: total, Page: filter.Page, PageSize: filter.Size}, nil
}

func (s *orderService) GetOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	return s.detail(ctx, orderID)
}

// UpdateOrderStatus moves a paid order through diproses -> dikirim -> selesai.
// The order row is locked while the transition is checked and written.
func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID int64, status models.OrderStatus) (*models.Order, error) {

	var (
		order *models.Order
		from  models.OrderStatus
	)

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error

		order, err = s.orderRepo.LockOrderByID(ctx, orderID)
		if err != nil {
			return repoError(err, "Order not found", "Failed to load order")
		}

		if next, ok := nextOrderStatus[order.Status]; !ok || next != status {
			return errors.InvalidStateError(fmt.Sprintf("Order cannot move from %s to %s", order.Status, status))
		}

		if err := s.orderRepo.UpdateOrderStatus(ctx, orderID, status); err != nil {
			return repoError(err, "Order not found", "Failed to update order status")
		}

		from = order.Status
		order.Status = status

		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateOrder(ctx, s.cache, orderID)

	middleware.LoggerFromContext(ctx).Info("Order status updated",
		slog.Int64("orderId", orderID), slog.String("from", string(from)), slog.String("to", string(status)))

	return order, nil
}

// detail reads through the order cache. Cache failures only cost a database
// round trip.
func (s *orderService) detail(ctx context.Context, orderID int64) (*models.Order, error) {
	logger := middleware.LoggerFromContext(ctx)
	key := cache.OrderKey(orderID)

	var cached models.Order

	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn("Order cache read failed", slog.String("key", key), slog.Any("error", err))
	} else if found {
		return &cached, nil
	}

	order, err := s.orderRepo.GetOrderDetail(ctx, orderID)
	if err != nil {
		return nil, repoError(err, "Order not found", "Failed to load order")
	}

	if err := s.cache.Set(ctx, key, order, 0); err != nil {
		logger.Warn("Order cache write failed", slog.String("key", key), slog.Any("error", err))
	}

	return order, nil
}

func invalidateOrder(ctx context.Context, c cache.Cache, orderID int64) {
	if err := c.Delete(ctx, cache.OrderKey(orderID)); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Order cache invalidation failed", slog.Int64("orderId", orderID), slog.Any("error", err))
	}
}
