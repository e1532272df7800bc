package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/mansoorceksport/repflow/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return mr, client
}

func TestRedisKVStore_RoundTrip(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisKVStore(client, "repflow:")
	ctx := context.Background()

	_, err := store.Get(ctx, "session:snapshot:w-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.Set(ctx, "session:snapshot:w-1", `{"v":1}`, time.Hour))
	assert.True(t, mr.Exists("repflow:session:snapshot:w-1"))

	got, err := store.Get(ctx, "session:snapshot:w-1")
	require.NoError(t, err)
	assert.Equal(t, `{"v":1}`, got)

	require.NoError(t, store.Delete(ctx, "session:snapshot:w-1"))
	require.NoError(t, store.Delete(ctx, "session:snapshot:w-1"))
	_, err = store.Get(ctx, "session:snapshot:w-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRedisKVStore_TTLExpires(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisKVStore(client, "")
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v", time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRedisKVStore_ConnectionError(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisKVStore(client, "")
	mr.Close()

	_, err := store.Get(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}
