package repository

import (
	"context"
	"testing"
	"time"

	"github.com/mansoorceksport/repflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryKVStore(t *testing.T) {
	store := NewMemoryKVStore()
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "forever", "a", 0))
	require.NoError(t, store.Set(ctx, "short", "b", time.Minute))

	v, err := store.Get(ctx, "short")
	require.NoError(t, err)
	assert.Equal(t, "b", v)

	now = now.Add(2 * time.Minute)
	_, err = store.Get(ctx, "short")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	v, err = store.Get(ctx, "forever")
	require.NoError(t, err)
	assert.Equal(t, "a", v)

	require.NoError(t, store.Delete(ctx, "forever"))
	_, err = store.Get(ctx, "forever")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
