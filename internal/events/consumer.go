package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/api/middleware"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/config"
	"github.com/segmentio/kafka-go"
)

const (
	minRetryBackoff = 200 * time.Millisecond
	maxRetryBackoff = 10 * time.Second
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads one topic with a consumer group and fans messages out to a
// fixed pool of workers. Messages of one partition always go to the same
// worker, so offsets are committed in order.
type Consumer struct {
	r       messageReader
	workers int
	logger  *slog.Logger
}

func NewConsumer(cfg *config.Kafka, logger *slog.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		GroupID:        cfg.GroupID,
		Topic:          cfg.Topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0,
	})

	return newConsumer(r, cfg.Workers, logger)
}

func newConsumer(r messageReader, workers int, logger *slog.Logger) *Consumer {
	if workers <= 0 {
		workers = 1
	}

	return &Consumer{r: r, workers: workers, logger: logger}
}

// Start blocks until ctx is cancelled or the reader fails. A message is
// committed only after h returned nil; failing messages are retried with
// backoff until they succeed or the consumer stops.
func (c *Consumer) Start(ctx context.Context, h Handler) error {
	defer c.r.Close()

	jobs := make([]chan kafka.Message, c.workers)

	var wg sync.WaitGroup

	for i := range jobs {
		jobs[i] = make(chan kafka.Message, 64)

		wg.Add(1)

		go func(in <-chan kafka.Message) {
			defer wg.Done()

			for m := range in {
				c.process(ctx, h, m)
			}
		}(jobs[i])
	}

	stop := func() {
		for _, ch := range jobs {
			close(ch)
		}

		wg.Wait()
	}

	c.logger.Info("Consumer started", slog.Int("workers", c.workers))

	for {
		m, err := c.r.FetchMessage(ctx)
		if err != nil {
			stop()

			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				c.logger.Info("Consumer stopping")
				return nil
			}

			return fmt.Errorf("failed to fetch message: %w", err)
		}

		select {
		case jobs[m.Partition%c.workers] <- m:
		case <-ctx.Done():
			stop()
			c.logger.Info("Consumer stopping")

			return nil
		}
	}
}

func (c *Consumer) process(ctx context.Context, h Handler, m kafka.Message) {
	logger := c.logger.With(
		slog.String("topic", m.Topic),
		slog.Int("partition", m.Partition),
		slog.Int64("offset", m.Offset),
	)

	for _, header := range m.Headers {
		switch header.Key {
		case "event_id":
			logger = logger.With(slog.String("eventId", string(header.Value)))
		case "correlation_id":
			logger = logger.With(slog.String("correlationId", string(header.Value)))
		}
	}

	hctx := middleware.WithLogger(ctx, logger)
	backoff := minRetryBackoff

	for {
		err := h(hctx, m.Value)
		if err == nil {
			break
		}

		logger.Error("Handler failed, retrying", slog.Duration("backoff", backoff), slog.Any("error", err))

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}

		backoff = min(backoff*2, maxRetryBackoff)
	}

	if err := c.r.CommitMessages(ctx, m); err != nil && ctx.Err() == nil {
		logger.Error("Failed to commit message", slog.Any("error", err))
	}
}
