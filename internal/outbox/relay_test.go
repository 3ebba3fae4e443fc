package outbox_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/config"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/events"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/models"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/outbox"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/repositories/mocks"
	serviceMocks "github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/services/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupRelayTest(t *testing.T, handler events.Handler) (*outbox.Relay, *mocks.OutboxRepository) {
	return setupRelayTestWithConfig(t, handler, &config.Outbox{BatchSize: 2, MaxRetries: 10, PollInterval: 10 * time.Millisecond, MaxBackoff: time.Second})
}

func setupRelayTestWithConfig(t *testing.T, handler events.Handler, cfg *config.Outbox) (*outbox.Relay, *mocks.OutboxRepository) {
	tx := mocks.NewTxManager(t)
	tx.On("RunInTx", mock.Anything, mock.Anything).
		Return(func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) }).
		Maybe()

	repo := mocks.NewOutboxRepository(t)
	publisher := events.NewLocalPublisher(map[string]events.Handler{models.TopicOrderFinalized: handler})

	return outbox.NewRelay(tx, repo, publisher, slog.Default(), cfg), repo
}

func message(id int64) *models.OutboxMessage {
	return &models.OutboxMessage{ID: id, Topic: models.TopicOrderFinalized, Key: "11", Payload: []byte(`{}`)}
}

func TestProcessBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Published rows are marked", func(t *testing.T) {
		// Arrange
		listener := serviceMocks.NewStockListener(t)
		listener.On("HandleOrderFinalized", mock.Anything, mock.Anything).Return(nil).Twice()

		relay, repo := setupRelayTest(t, listener.HandleOrderFinalized)

		repo.On("GetBatch", mock.Anything, 2, 10).Return([]*models.OutboxMessage{message(1), message(2)}, nil).Once()
		repo.On("MarkPublished", mock.Anything, int64(1)).Return(nil).Once()
		repo.On("MarkPublished", mock.Anything, int64(2)).Return(nil).Once()

		// Act
		batch, err := relay.ProcessBatch(ctx)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, outbox.Batch{Picked: 2}, batch)
	})

	t.Run("Success - Failed publish bumps the retry count", func(t *testing.T) {
		relay, repo := setupRelayTest(t, func(context.Context, []byte) error {
			return errors.New("broker unavailable")
		})

		repo.On("GetBatch", mock.Anything, 2, 10).Return([]*models.OutboxMessage{message(1)}, nil).Once()
		repo.On("UpdateRetryCount", mock.Anything, int64(1), "broker unavailable", mock.MatchedBy(within(5*time.Millisecond, 15*time.Millisecond))).
			Return(nil).Once()

		batch, err := relay.ProcessBatch(ctx)

		require.NoError(t, err)
		assert.Equal(t, outbox.Batch{Picked: 1, Failed: 1}, batch)
		repo.AssertNotCalled(t, "MarkPublished", mock.Anything, mock.Anything)
	})

	t.Run("Success - Later attempts wait longer", func(t *testing.T) {
		relay, repo := setupRelayTest(t, func(context.Context, []byte) error {
			return errors.New("broker unavailable")
		})

		retried := message(1)
		retried.RetryCount = 5

		repo.On("GetBatch", mock.Anything, 2, 10).Return([]*models.OutboxMessage{retried}, nil).Once()
		repo.On("UpdateRetryCount", mock.Anything, int64(1), "broker unavailable", mock.MatchedBy(within(35*time.Millisecond, 115*time.Millisecond))).
			Return(nil).Once()

		_, err := relay.ProcessBatch(ctx)

		require.NoError(t, err)
	})

	t.Run("Failure - Batch query error", func(t *testing.T) {
		relay, repo := setupRelayTest(t, func(context.Context, []byte) error { return nil })

		repo.On("GetBatch", mock.Anything, 2, 10).Return(nil, errors.New("db error")).Once()

		_, err := relay.ProcessBatch(ctx)

		assert.Error(t, err)
	})
}

func TestDrain(t *testing.T) {
	t.Run("Success - Keeps going while batches are full", func(t *testing.T) {
		relay, repo := setupRelayTest(t, func(context.Context, []byte) error { return nil })

		repo.On("GetBatch", mock.Anything, 2, 10).Return([]*models.OutboxMessage{message(1), message(2)}, nil).Once()
		repo.On("GetBatch", mock.Anything, 2, 10).Return([]*models.OutboxMessage{message(3)}, nil).Once()
		repo.On("MarkPublished", mock.Anything, mock.AnythingOfType("int64")).Return(nil).Times(3)

		relay.Drain(context.Background())

		repo.AssertNumberOfCalls(t, "GetBatch", 2)
	})

	t.Run("Success - A failing broker costs each row one attempt per drain", func(t *testing.T) {
		// Arrange
		cfg := &config.Outbox{BatchSize: 4, MaxRetries: 10, PollInterval: 10 * time.Millisecond, MaxBackoff: time.Second}
		relay, repo := setupRelayTestWithConfig(t, func(context.Context, []byte) error {
			return errors.New("broker unavailable")
		}, cfg)

		repo.On("GetBatch", mock.Anything, 4, 10).
			Return([]*models.OutboxMessage{message(1), message(2), message(3), message(4)}, nil).Once()
		repo.On("UpdateRetryCount", mock.Anything, mock.AnythingOfType("int64"), "broker unavailable", mock.MatchedBy(within(5*time.Millisecond, 15*time.Millisecond))).
			Return(nil).Times(4)

		// Act
		relay.Drain(context.Background())

		// Assert
		repo.AssertNumberOfCalls(t, "GetBatch", 1)
		for id := int64(1); id <= 4; id++ {
			repo.AssertCalled(t, "UpdateRetryCount", mock.Anything, id, "broker unavailable", mock.Anything)
		}
	})
}

func within(lo, hi time.Duration) func(time.Duration) bool {
	return func(d time.Duration) bool { return d >= lo && d <= hi }
}

func TestRelayRun(t *testing.T) {
	delivered := make(chan struct{}, 1)

	relay, repo := setupRelayTest(t, func(context.Context, []byte) error {
		delivered <- struct{}{}
		return nil
	})

	repo.On("GetBatch", mock.Anything, 2, 10).Return([]*models.OutboxMessage{message(1)}, nil).Once()
	repo.On("MarkPublished", mock.Anything, int64(1)).Return(nil).Once()
	repo.On("GetBatch", mock.Anything, 2, 10).Return(nil, nil).Maybe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- relay.Run(ctx) }()

	select {
	case <-delivered:
	case <-time.After(2 * time.Second):
		t.Fatal("outbox row was not relayed")
	}

	cancel()
	require.NoError(t, <-done)
}
