package outbox

import (
	"context"
	"log/slog"
	"time"

	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/api/middleware"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/config"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/events"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/metrics"
	repository "github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/repositories"
	"github.com/cenkalti/backoff/v4"
)

// Relay moves committed outbox rows to a Publisher. Rows are locked with
// SKIP LOCKED, so several API instances can relay concurrently.
type Relay struct {
	tx           repository.TxManager
	repo         repository.OutboxRepository
	publisher    events.Publisher
	logger       *slog.Logger
	batchSize    int
	maxRetries   int
	pollInterval time.Duration
	maxBackoff   time.Duration
}

// Batch reports what one ProcessBatch call did.
type Batch struct {
	Picked int
	Failed int
}

func NewRelay(tx repository.TxManager, repo repository.OutboxRepository, publisher events.Publisher, logger *slog.Logger, cfg *config.Outbox) *Relay {
	return &Relay{
		tx:           tx,
		repo:         repo,
		publisher:    publisher,
		logger:       logger,
		batchSize:    cfg.BatchSize,
		maxRetries:   cfg.MaxRetries,
		pollInterval: cfg.PollInterval,
		maxBackoff:   max(cfg.MaxBackoff, cfg.PollInterval),
	}
}

func (r *Relay) Run(ctx context.Context) error {
	r.logger.Info("Outbox relay started",
		slog.Int("batchSize", r.batchSize),
		slog.Duration("pollInterval", r.pollInterval))

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Outbox relay stopping")
			return nil
		case <-ticker.C:
			r.Drain(ctx)
		}
	}
}

// Drain relays batches until the outbox has no due rows left. It stops early
// when a batch had failed publishes; those rows wait out their backoff.
func (r *Relay) Drain(ctx context.Context) {
	for ctx.Err() == nil {
		batch, err := r.ProcessBatch(ctx)
		if err != nil {
			r.logger.Error("Outbox batch failed", slog.Any("error", err))
			return
		}

		if batch.Failed > 0 || batch.Picked < r.batchSize {
			return
		}
	}
}

// ProcessBatch publishes one batch of due rows. A failed publish bumps the
// row's retry count and pushes its next attempt out; rows at max_retries are
// no longer selected.
func (r *Relay) ProcessBatch(ctx context.Context) (Batch, error) {
	var batch Batch

	err := r.tx.RunInTx(ctx, func(ctx context.Context) error {
		batch = Batch{}

		msgs, err := r.repo.GetBatch(ctx, r.batchSize, r.maxRetries)
		if err != nil {
			return err
		}

		batch.Picked = len(msgs)

		for _, msg := range msgs {
			logger := r.logger.With(
				slog.Int64("outboxId", msg.ID),
				slog.String("topic", msg.Topic),
				slog.String("eventId", msg.Headers["event_id"]),
			)

			pubCtx := middleware.WithLogger(repository.WithoutTx(ctx), logger)

			if pubErr := r.publisher.Publish(pubCtx, msg); pubErr != nil {
				batch.Failed++
				metrics.OutboxPublishTotal.WithLabelValues("failed").Inc()

				attempt := msg.RetryCount + 1
				delay := r.retryAfter(attempt)

				logger.Error("Publish failed",
					slog.Int("retryCount", attempt),
					slog.Duration("retryAfter", delay),
					slog.Any("error", pubErr))

				if err := r.repo.UpdateRetryCount(ctx, msg.ID, pubErr.Error(), delay); err != nil {
					return err
				}

				continue
			}

			if err := r.repo.MarkPublished(ctx, msg.ID); err != nil {
				return err
			}

			metrics.OutboxPublishTotal.WithLabelValues("published").Inc()
		}

		return nil
	})

	return batch, err
}

// retryAfter is the jittered exponential delay before the given attempt,
// starting at the poll interval and capped at maxBackoff.
func (r *Relay) retryAfter(attempt int) time.Duration {
	b := &backoff.ExponentialBackOff{
		InitialInterval:     r.pollInterval,
		RandomizationFactor: backoff.DefaultRandomizationFactor,
		Multiplier:          backoff.DefaultMultiplier,
		MaxInterval:         r.maxBackoff,
		Stop:                backoff.Stop,
		Clock:               backoff.SystemClock,
	}
	b.Reset()

	delay := b.NextBackOff()
	for i := 1; i < attempt; i++ {
		delay = b.NextBackOff()
	}

	return delay
}
