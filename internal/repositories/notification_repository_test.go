package repository_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/models"
	repository "github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateNotification(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewNotificationRepository(db)

		n := &models.Notification{
			ID:        uuid.New(),
			OrderID:   11,
			Type:      models.NotificationTypeEmail,
			Recipient: "budi@example.com",
			Subject:   "Payment approved",
			Content:   "Order ORD-AB12CD34 is being processed",
			Status:    models.StatusPending,
			Metadata:  json.RawMessage(`{"order_code":"ORD-AB12CD34"}`),
		}

		mock.ExpectExec(`INSERT INTO notifications`).
			WithArgs(n.ID, int64(11), "email", "budi@example.com", "Payment approved", n.Content, "pending", "", []byte(`{"order_code":"ORD-AB12CD34"}`)).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := repo.CreateNotification(t.Context(), n)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewNotificationRepository(db)
		dbErr := errors.New("database error")

		mock.ExpectExec(`INSERT INTO notifications`).WillReturnError(dbErr)

		err := repo.CreateNotification(t.Context(), &models.Notification{ID: uuid.New()})

		assert.ErrorIs(t, err, dbErr)
		assert.Contains(t, err.Error(), "failed to create notification")
	})
}

func TestUpdateNotificationStatus(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewNotificationRepository(db)
		id := uuid.New()

		mock.ExpectExec(`UPDATE notifications SET status = \$1, error_message = \$2`).
			WithArgs("sent", "", id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdateNotificationStatus(t.Context(), id, models.StatusSent, ""))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewNotificationRepository(db)
		id := uuid.New()

		mock.ExpectExec(`UPDATE notifications`).WithArgs("failed", "timeout", id).WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateNotificationStatus(t.Context(), id, models.StatusFailed, "timeout")

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Contains(t, err.Error(), id.String())
	})
}

func TestListNotificationsByOrder(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewNotificationRepository(db)
	now := time.Now()
	id := uuid.New()

	mock.ExpectQuery(`FROM notifications WHERE order_id = \$1`).WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "type", "recipient", "subject", "content", "status", "error_message", "metadata", "created_at", "updated_at"}).
			AddRow(id.String(), int64(11), "email", "budi@example.com", "Payment approved", "body", "sent", "", []byte(`{}`), now, now))

	notifications, err := repo.ListNotificationsByOrder(t.Context(), 11)

	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, id, notifications[0].ID)
	assert.Equal(t, models.StatusSent, notifications[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
