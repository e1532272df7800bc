package domain

import (
	"context"
	"time"
)

// KVStore is the minimal persistence capability the engine runs against.
// Get returns ErrNotFound when the key is absent.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
