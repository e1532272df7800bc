package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mansoorceksport/repflow/internal/domain"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RedisKVStore implements domain.KVStore on Redis. Used for short-lived
// session snapshots, where a TTL bounds the tab lifetime.
type RedisKVStore struct {
	client *redis.Client
	prefix string
}

// NewRedisKVStore creates a Redis key-value store. Every key is namespaced with prefix.
func NewRedisKVStore(client *redis.Client, prefix string) *RedisKVStore {
	return &RedisKVStore{
		client: client,
		prefix: prefix,
	}
}

// Get retrieves a value by key with OTel tracing. Returns domain.ErrNotFound on miss.
func (r *RedisKVStore) Get(ctx context.Context, key string) (string, error) {
	ctx, span := otel.Tracer("redis").Start(ctx, "redis.Get",
		trace.WithAttributes(attribute.String("cache.key", r.prefix+key)),
	)
	defer span.End()

	val, err := r.client.Get(ctx, r.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			span.SetAttributes(attribute.String("cache.result", "miss"))
			return "", domain.ErrNotFound
		}
		span.RecordError(err)
		return "", fmt.Errorf("redis get error: %w", err)
	}

	span.SetAttributes(attribute.String("cache.result", "hit"))
	return val, nil
}

// Set stores a value with TTL. A zero TTL keeps the key until deleted.
func (r *RedisKVStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	ctx, span := otel.Tracer("redis").Start(ctx, "redis.Set",
		trace.WithAttributes(
			attribute.String("cache.key", r.prefix+key),
			attribute.Int64("cache.ttl_seconds", int64(ttl.Seconds())),
		),
	)
	defer span.End()

	if err := r.client.Set(ctx, r.prefix+key, value, ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("redis set error: %w", err)
	}
	return nil
}

// Delete removes a key. Deleting a missing key is not an error.
func (r *RedisKVStore) Delete(ctx context.Context, key string) error {
	ctx, span := otel.Tracer("redis").Start(ctx, "redis.Delete",
		trace.WithAttributes(attribute.String("cache.key", r.prefix+key)),
	)
	defer span.End()

	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("redis delete error: %w", err)
	}
	return nil
}
