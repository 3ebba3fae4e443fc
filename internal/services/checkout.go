package service

import (
	"context"
	"crypto/rand"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"math/big"
	"strconv"
	"time"

	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/api/middleware"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/errors"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/metrics"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/models"
	repository "github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/repositories"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	orderCodePrefix   = "ORD-"
	orderCodeLength   = 8
	orderCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	orderCodeAttempts = 5

	eventProducer = "bookstore-api"
)

type CheckoutService interface {
	Checkout(ctx context.Context, userID int64, req *models.CheckoutRequest) (*models.CheckoutResponse, error)
}

type checkoutService struct {
	tx          repository.TxManager
	cartRepo    repository.CartRepository
	bookRepo    repository.BookRepository
	orderRepo   repository.OrderRepository
	paymentRepo repository.PaymentRepository
	addressRepo repository.AddressRepository
	outboxRepo  repository.OutboxRepository
	files       storage.FileStorage
	newCode     func() (string, error)
}

func NewCheckoutService(
	tx repository.TxManager,
	cartRepo repository.CartRepository,
	bookRepo repository.BookRepository,
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	addressRepo repository.AddressRepository,
	outboxRepo repository.OutboxRepository,
	files storage.FileStorage,
) CheckoutService {
	return &checkoutService{
		tx:          tx,
		cartRepo:    cartRepo,
		bookRepo:    bookRepo,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		addressRepo: addressRepo,
		outboxRepo:  outboxRepo,
		files:       files,
		newCode:     GenerateOrderCode,
	}
}

// Checkout turns the selected cart items into an order with its payment and
// items. Everything, including the OrderFinalized outbox row, is written in
// one transaction; the stored proof file is removed again if it rolls back.
func (s *checkoutService) Checkout(ctx context.Context, userID int64, req *models.CheckoutRequest) (*models.CheckoutResponse, error) {
	logger := middleware.LoggerFromContext(ctx).With(slog.Int64("userId", userID))

	resp, proofURL, err := s.checkout(ctx, userID, req)
	if err != nil {
		if proofURL != "" {
			if delErr := s.files.Delete(context.WithoutCancel(ctx), proofURL); delErr != nil {
				logger.Warn("Failed to remove proof of an aborted checkout", slog.String("proof", proofURL), slog.Any("error", delErr))
			}
		}

		result := errors.ErrCodeInternal
		if appErr, ok := errors.IsAppError(err); ok {
			result = appErr.Code
		}

		metrics.CheckoutTotal.WithLabelValues(result).Inc()
		logger.Warn("Checkout failed", slog.String("result", result), slog.Any("error", err))

		return nil, err
	}

	metrics.CheckoutTotal.WithLabelValues("created").Inc()
	logger.Info("Order created", slog.Int64("orderId", resp.OrderID), slog.String("orderCode", resp.OrderCode))

	return resp, nil
}

func (s *checkoutService) checkout(ctx context.Context, userID int64, req *models.CheckoutRequest) (*models.CheckoutResponse, string, error) {

	if req.AmountPaid.LessThan(decimal.NewFromInt(1)) {
		return nil, "", errors.AddValidationError("amount_paid", "must be at least 1")
	}

	ids := uniqueIDs(req.CartItemIDs)
	if len(ids) == 0 {
		return nil, "", errors.EmptySelectionError("No cart items were selected")
	}

	address, err := s.addressRepo.GetAddressByID(ctx, req.AddressID)
	if err != nil && !stdErrors.Is(err, repository.ErrNotFound) {
		return nil, "", errors.DatabaseError("Failed to load address").WithError(err)
	}

	if address == nil || address.UserID != userID {
		return nil, "", errors.AddValidationError("user_address_id", "the selected address is invalid")
	}

	var (
		resp     *models.CheckoutResponse
		proofURL string
	)

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		items, err := s.cartRepo.GetItemsForUser(ctx, userID, ids)
		if err != nil {
			return errors.DatabaseError("Failed to load selected cart items").WithError(err)
		}

		if len(items) == 0 {
			return errors.EmptySelectionError("None of the selected items are in your cart")
		}

		if len(items) != len(ids) {
			return errors.PartialSelectionMismatchError("Some selected items are no longer in your cart, please refresh and try again")
		}

		bookIDs := make([]int64, 0, len(items))

		for _, item := range items {
			if !item.Price.Valid {
				return errors.PriceMissingError(fmt.Sprintf("Cart item %d has no price", item.ID))
			}

			bookIDs = append(bookIDs, item.BookID)
		}

		books, err := s.bookRepo.LockBooks(ctx, bookIDs)
		if err != nil {
			return errors.DatabaseError("Failed to load books").WithError(err)
		}

		total := decimal.Zero
		orderItems := make([]models.OrderItem, 0, len(items))

		for _, item := range items {
			book, ok := books[item.BookID]
			if !ok {
				return errors.NotFoundError(fmt.Sprintf("Book %d is no longer available", item.BookID))
			}

			if err := CheckAvailable(book, item.Quantity); err != nil {
				return err
			}

			unitPrice := item.Price.Decimal
			lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
			total = total.Add(lineTotal)

			bookID := book.ID
			orderItems = append(orderItems, models.OrderItem{
				BookID:               &bookID,
				Quantity:             item.Quantity,
				Price:                lineTotal,
				SnapshotBookTitle:    book.Title,
				SnapshotPricePerItem: unitPrice,
			})
		}

		proofURL, err = s.files.Save(ctx, storage.ProofFolder, req.Proof)
		if err != nil {
			if _, ok := errors.IsAppError(err); ok {
				return err
			}

			return errors.InternalError("Failed to store payment proof").WithError(err)
		}

		code, err := s.uniqueOrderCode(ctx)
		if err != nil {
			return err
		}

		order := &models.Order{
			OrderCode:       code,
			UserID:          userID,
			UserAddressID:   address.ID,
			Status:          models.OrderStatusPending,
			TotalItemsPrice: total,
			DiscountAmount:  decimal.Zero,
			ShippingCost:    decimal.Zero,
			FinalAmount:     total,
		}

		if err := s.orderRepo.CreateOrder(ctx, order); err != nil {
			return errors.DatabaseError("Failed to create order").WithError(err)
		}

		payment := &models.Payment{
			OrderID:         order.ID,
			Method:          models.PaymentMethodQRISManual,
			Status:          models.PaymentStatusWaitingValidation,
			AmountDue:       order.FinalAmount,
			AmountPaid:      req.AmountPaid,
			PaymentProofURL: &proofURL,
			PaymentDate:     time.Now(),
		}

		if err := s.paymentRepo.CreatePayment(ctx, payment); err != nil {
			return errors.DatabaseError("Failed to create payment").WithError(err)
		}

		if err := s.orderRepo.CreateOrderItems(ctx, order.ID, orderItems); err != nil {
			return errors.DatabaseError("Failed to create order items").WithError(err)
		}

		if err := s.cartRepo.DeleteItems(ctx, ids); err != nil {
			if stdErrors.Is(err, repository.ErrStaleSelection) {
				return errors.PartialSelectionMismatchError("Some selected items were already checked out, please refresh and try again").WithError(err)
			}

			return errors.DatabaseError("Failed to clear checked out cart items").WithError(err)
		}

		msg, err := newOrderFinalizedMessage(ctx, order, orderItems)
		if err != nil {
			return errors.InternalError("Failed to build order event").WithError(err)
		}

		if err := s.outboxRepo.InsertMessage(ctx, msg); err != nil {
			return errors.DatabaseError("Failed to record order event").WithError(err)
		}

		resp = &models.CheckoutResponse{OrderID: order.ID, OrderCode: order.OrderCode}

		return nil
	})
	if err != nil {
		return nil, proofURL, err
	}

	return resp, proofURL, nil
}

func (s *checkoutService) uniqueOrderCode(ctx context.Context) (string, error) {
	for range orderCodeAttempts {
		code, err := s.newCode()
		if err != nil {
			return "", errors.InternalError("Failed to generate order code").WithError(err)
		}

		exists, err := s.orderRepo.ExistsByCode(ctx, code)
		if err != nil {
			return "", errors.DatabaseError("Failed to check order code").WithError(err)
		}

		if !exists {
			return code, nil
		}
	}

	return "", errors.InternalError("Failed to generate a unique order code")
}

// GenerateOrderCode returns ORD- followed by 8 random uppercase alphanumerics.
func GenerateOrderCode() (string, error) {
	code := make([]byte, orderCodeLength)
	limit := big.NewInt(int64(len(orderCodeAlphabet)))

	for i := range code {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}

		code[i] = orderCodeAlphabet[n.Int64()]
	}

	return orderCodePrefix + string(code), nil
}

func newOrderFinalizedMessage(ctx context.Context, order *models.Order, items []models.OrderItem) (*models.OutboxMessage, error) {
	payload := models.OrderFinalizedPayload{
		OrderID:   order.ID,
		OrderCode: order.OrderCode,
		UserID:    order.UserID,
		Items:     make([]models.FinalizedItem, 0, len(items)),
	}

	for _, item := range items {
		payload.Items = append(payload.Items, models.FinalizedItem{BookID: *item.BookID, Quantity: item.Quantity})
	}

	rawPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	envelope := models.Envelope{
		EventID:       uuid.NewString(),
		EventType:     models.EventOrderFinalized,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      eventProducer,
		CorrelationID: middleware.CorrelationIDFromContext(ctx),
		Payload:       rawPayload,
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal envelope: %w", err)
	}

	return &models.OutboxMessage{
		Topic:     models.TopicOrderFinalized,
		Key:       strconv.FormatInt(order.ID, 10),
		EventType: models.EventOrderFinalized,
		Payload:   body,
		Headers: map[string]string{
			"event_id":       envelope.EventID,
			"event_type":     envelope.EventType,
			"correlation_id": envelope.CorrelationID,
		},
	}, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
