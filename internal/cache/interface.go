package cache

import (
	"context"
	"strconv"
	"time"
)

type Cache interface {
	Get(ctx context.Context, key string, value any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// SetIfAbsent stores a marker under key and reports whether this call
	// created it.
	SetIfAbsent(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
	Close() error
}

func Key(prefix string, id string) string {
	return prefix + ":" + id
}

func OrderKey(orderID int64) string {
	return Key(OrderKeyPrefix, strconv.FormatInt(orderID, 10))
}

// DedupKey scopes an event id to the consumer that processed it.
func DedupKey(consumer, eventID string) string {
	return Key(DedupKeyPrefix, consumer+":"+eventID)
}

const (
	OrderKeyPrefix = "order"
	CartKeyPrefix  = "cart"
	DedupKeyPrefix = "dedup"
)
