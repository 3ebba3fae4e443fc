package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeReader hands out queued messages, then blocks until the context ends.
type fakeReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []int64
	fetchErr  error
	closed    bool
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.queue) > 0 {
		m := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()

		return m, nil
	}

	fetchErr := r.fetchErr
	r.mu.Unlock()

	if fetchErr != nil {
		return kafka.Message{}, fetchErr
	}

	<-ctx.Done()

	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}

	return nil
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true

	return nil
}

func (r *fakeReader) committedOffsets() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]int64(nil), r.committed...)
}

func TestConsumer(t *testing.T) {
	t.Run("Success - Commits after the handler succeeds", func(t *testing.T) {
		// Arrange
		reader := &fakeReader{queue: []kafka.Message{
			{Partition: 0, Offset: 1, Value: []byte("a")},
			{Partition: 0, Offset: 2, Value: []byte("b")},
			{Partition: 1, Offset: 1, Value: []byte("c")},
		}}
		c := newConsumer(reader, 2, slog.Default())

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var calls atomic.Int32

		done := make(chan error, 1)

		// Act
		go func() {
			done <- c.Start(ctx, func(context.Context, []byte) error {
				calls.Add(1)
				return nil
			})
		}()

		// Assert
		require.Eventually(t, func() bool { return len(reader.committedOffsets()) == 3 }, 2*time.Second, 10*time.Millisecond)

		cancel()
		require.NoError(t, <-done)
		assert.Equal(t, int32(3), calls.Load())
		assert.True(t, reader.closed)
	})

	t.Run("Success - Failed message is retried before commit", func(t *testing.T) {
		reader := &fakeReader{queue: []kafka.Message{{Partition: 0, Offset: 7, Value: []byte("a")}}}
		c := newConsumer(reader, 1, slog.Default())

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var calls atomic.Int32

		done := make(chan error, 1)

		go func() {
			done <- c.Start(ctx, func(context.Context, []byte) error {
				if calls.Add(1) == 1 {
					return errors.New("redis down")
				}

				return nil
			})
		}()

		require.Eventually(t, func() bool { return len(reader.committedOffsets()) == 1 }, 3*time.Second, 10*time.Millisecond)

		cancel()
		require.NoError(t, <-done)
		assert.Equal(t, int32(2), calls.Load())
		assert.Equal(t, []int64{7}, reader.committedOffsets())
	})

	t.Run("Failure - Reader error stops the consumer", func(t *testing.T) {
		reader := &fakeReader{fetchErr: errors.New("group coordinator not available")}
		c := newConsumer(reader, 0, slog.Default())

		err := c.Start(context.Background(), func(context.Context, []byte) error { return nil })

		require.Error(t, err)
		assert.Contains(t, err.Error(), "group coordinator not available")
	})
}
