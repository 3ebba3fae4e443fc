package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/models"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/utils"
)

type OutboxRepository interface {
	InsertMessage(ctx context.Context, msg *models.OutboxMessage) error
	GetBatch(ctx context.Context, batchSize, maxRetries int) ([]*models.OutboxMessage, error)
	UpdateRetryCount(ctx context.Context, id int64, errMsg string, retryAfter time.Duration) error
	MarkPublished(ctx context.Context, id int64) error
}

type outboxRepository struct {
	DB *sql.DB
}

func NewOutboxRepository(db *sql.DB) OutboxRepository {
	return &outboxRepository{DB: db}
}

func (r *outboxRepository) InsertMessage(ctx context.Context, msg *models.OutboxMessage) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	headers, err := json.Marshal(msg.Headers)
	if err != nil {
		return fmt.Errorf("failed to marshal outbox headers: %w", err)
	}

	query := `
		INSERT INTO outbox (topic, key, event_type, payload, headers, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`

	err = conn(ctx, r.DB).QueryRowContext(dbCtx, query, msg.Topic, msg.Key, msg.EventType, msg.Payload, headers).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert outbox message: %w", err)
	}

	return nil
}

// GetBatch returns unpublished rows whose next attempt is due. It must run
// inside a transaction: the selected rows stay locked and are skipped by other
// relays until it ends.
func (r *outboxRepository) GetBatch(ctx context.Context, batchSize, maxRetries int) ([]*models.OutboxMessage, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, topic, key, event_type, payload, headers, retry_count, created_at
		FROM outbox
		WHERE published_at IS NULL AND retry_count < $2 AND next_attempt_at <= NOW()
		ORDER BY created_at, id
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`

	rows, err := conn(ctx, r.DB).QueryContext(dbCtx, query, batchSize, maxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox batch: %w", err)
	}
	defer rows.Close()

	var msgs []*models.OutboxMessage

	for rows.Next() {
		msg := &models.OutboxMessage{}

		var headersJSON []byte

		if err := rows.Scan(&msg.ID, &msg.Topic, &msg.Key, &msg.EventType, &msg.Payload, &headersJSON, &msg.RetryCount, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan outbox message: %w", err)
		}

		if len(headersJSON) > 0 {
			if err := json.Unmarshal(headersJSON, &msg.Headers); err != nil {
				return nil, fmt.Errorf("failed to unmarshal outbox headers: %w", err)
			}
		}

		msgs = append(msgs, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over the rows: %w", err)
	}

	return msgs, nil
}

// UpdateRetryCount records a failed attempt and holds the row back for
// retryAfter.
func (r *outboxRepository) UpdateRetryCount(ctx context.Context, id int64, errMsg string, retryAfter time.Duration) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE outbox
		SET retry_count = retry_count + 1, last_error = $2, next_attempt_at = NOW() + make_interval(secs => $3::float8)
		WHERE id = $1
	`

	if _, err := conn(ctx, r.DB).ExecContext(dbCtx, query, id, errMsg, retryAfter.Seconds()); err != nil {
		return fmt.Errorf("failed to update retry count: %w", err)
	}

	return nil
}

func (r *outboxRepository) MarkPublished(ctx context.Context, id int64) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	if _, err := conn(ctx, r.DB).ExecContext(dbCtx, `UPDATE outbox SET published_at = NOW() WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to mark outbox message published: %w", err)
	}

	return nil
}
