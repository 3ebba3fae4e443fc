package models

import (
	"encoding/json"
	"time"
)

const (
	EventOrderFinalized = "OrderFinalized"
	TopicOrderFinalized = "order.finalized"
)

// Envelope wraps every event written to the outbox.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type FinalizedItem struct {
	BookID   int64 `json:"book_id"`
	Quantity int   `json:"quantity"`
}

type OrderFinalizedPayload struct {
	OrderID   int64           `json:"order_id"`
	OrderCode string          `json:"order_code"`
	UserID    int64           `json:"user_id"`
	Items     []FinalizedItem `json:"items"`
}

type OutboxMessage struct {
	ID         int64
	Topic      string
	Key        string
	EventType  string
	Payload    []byte
	Headers    map[string]string
	RetryCount int
	CreatedAt  time.Time
}
