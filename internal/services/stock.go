package service

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/api/middleware"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/cache"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/metrics"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/models"
	repository "github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/repositories"
)

const (
	stockConsumer = "stock"
	dedupTTL      = 48 * time.Hour
)

const (
	stockApplied   = "applied"
	stockOversold  = "oversold"
	stockMissing   = "missing"
	stockError     = "error"
	stockDuplicate = "duplicate"
	stockMalformed = "malformed"
)

// StockListener decrements book stock for finalized orders.
type StockListener interface {
	HandleOrderFinalized(ctx context.Context, message []byte) error
}

type stockListener struct {
	bookRepo repository.BookRepository
	cache    cache.Cache
}

func NewStockListener(bookRepo repository.BookRepository, cache cache.Cache) StockListener {
	return &stockListener{bookRepo: bookRepo, cache: cache}
}

// HandleOrderFinalized applies one OrderFinalized envelope. Each event id is
// applied at most once. Per-item failures are logged and skipped so the
// remaining items are still decremented; only a dedup store failure is
// returned, so the message can be redelivered.
func (l *stockListener) HandleOrderFinalized(ctx context.Context, message []byte) error {
	logger := middleware.LoggerFromContext(ctx)

	var envelope models.Envelope
	if err := json.Unmarshal(message, &envelope); err != nil {
		metrics.StockReconciliationTotal.WithLabelValues(stockMalformed).Inc()
		logger.Error("Dropping malformed order event", slog.Any("error", err))

		return nil
	}

	var payload models.OrderFinalizedPayload
	if envelope.EventType != models.EventOrderFinalized || envelope.EventID == "" || json.Unmarshal(envelope.Payload, &payload) != nil {
		metrics.StockReconciliationTotal.WithLabelValues(stockMalformed).Inc()
		logger.Error("Dropping unexpected order event", slog.String("eventId", envelope.EventID), slog.String("eventType", envelope.EventType))

		return nil
	}

	logger = logger.With(slog.String("eventId", envelope.EventID), slog.Int64("orderId", payload.OrderID))
	if envelope.CorrelationID != "" {
		logger = logger.With(slog.String("correlationId", envelope.CorrelationID))
	}

	first, err := l.cache.SetIfAbsent(ctx, cache.DedupKey(stockConsumer, envelope.EventID), dedupTTL)
	if err != nil {
		return fmt.Errorf("failed to record event %s: %w", envelope.EventID, err)
	}

	if !first {
		metrics.StockReconciliationTotal.WithLabelValues(stockDuplicate).Inc()
		logger.Info("Order event already applied")

		return nil
	}

	for _, item := range payload.Items {
		result := l.decrement(ctx, logger.With(slog.Int64("bookId", item.BookID)), item)
		metrics.StockReconciliationTotal.WithLabelValues(result).Inc()
	}

	logger.Info("Stock reconciled for order", slog.String("orderCode", payload.OrderCode), slog.Int("items", len(payload.Items)))

	return nil
}

func (l *stockListener) decrement(ctx context.Context, logger *slog.Logger, item models.FinalizedItem) string {
	applied, err := l.bookRepo.DecrementStock(ctx, item.BookID, item.Quantity)
	if err != nil {
		logger.Error("Failed to decrement stock", slog.Any("error", err))
		return stockError
	}

	if applied {
		return stockApplied
	}

	book, err := l.bookRepo.GetBookByID(ctx, item.BookID)
	switch {
	case stdErrors.Is(err, repository.ErrNotFound):
		logger.Error("Book of a finalized order no longer exists")
		return stockMissing
	case err != nil:
		logger.Error("Failed to load book after a rejected decrement", slog.Any("error", err))
		return stockError
	}

	logger.Error("Book oversold, stock left unchanged", slog.Int("stock", book.Stock), slog.Int("quantity", item.Quantity))

	return stockOversold
}
