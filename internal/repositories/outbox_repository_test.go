package repository_test

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/models"
	repository "github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertMessage(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewOutboxRepository(db)
	now := time.Now()

	msg := &models.OutboxMessage{
		Topic:     models.TopicOrderFinalized,
		Key:       "11",
		EventType: models.EventOrderFinalized,
		Payload:   []byte(`{"event_id":"e1"}`),
		Headers:   map[string]string{"event_id": "e1"},
	}

	mock.ExpectQuery(`INSERT INTO outbox`).
		WithArgs("order.finalized", "11", "OrderFinalized", []byte(`{"event_id":"e1"}`), []byte(`{"event_id":"e1"}`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), now))

	err := repo.InsertMessage(t.Context(), msg)

	require.NoError(t, err)
	assert.Equal(t, int64(1), msg.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBatch(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewOutboxRepository(db)
	now := time.Now()

	mock.ExpectQuery(`FROM outbox WHERE published_at IS NULL AND retry_count < \$2 AND next_attempt_at <= NOW\(\) (.+) FOR UPDATE SKIP LOCKED`).
		WithArgs(50, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "topic", "key", "event_type", "payload", "headers", "retry_count", "created_at"}).
			AddRow(int64(1), "order.finalized", "11", "OrderFinalized", []byte(`{}`), []byte(`{"event_id":"e1"}`), 0, now).
			AddRow(int64(2), "order.finalized", "12", "OrderFinalized", []byte(`{}`), nil, 3, now))

	msgs, err := repo.GetBatch(t.Context(), 50, 10)

	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "e1", msgs[0].Headers["event_id"])
	assert.Nil(t, msgs[1].Headers)
	assert.Equal(t, 3, msgs[1].RetryCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkPublishedAndRetry(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewOutboxRepository(db)

	mock.ExpectExec(`UPDATE outbox SET retry_count = retry_count \+ 1, last_error = \$2, next_attempt_at = NOW\(\) \+ make_interval\(secs => \$3::float8\)`).
		WithArgs(int64(2), "broker down", 30.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE outbox SET published_at = NOW\(\)`).WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateRetryCount(t.Context(), 2, "broker down", 30*time.Second))
	require.NoError(t, repo.MarkPublished(t.Context(), 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}
