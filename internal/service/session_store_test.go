package service

import (
	"context"
	"testing"
	"time"

	"github.com/mansoorceksport/repflow/internal/domain"
	"github.com/mansoorceksport/repflow/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot(workoutID string, completed bool) *domain.SessionSnapshot {
	return &domain.SessionSnapshot{
		Session: &domain.WorkoutSession{
			ID:        "01HZXSNAPSHOT0000000000000",
			WorkoutID: workoutID,
			Status:    domain.SessionStatusActive,
			Exercises: []*domain.ExerciseSession{{
				ExerciseName: "Squat",
				Status:       domain.ExerciseStatusInProgress,
				Sets: []*domain.SetLog{
					{SetNumber: 1, Weight: 100, Reps: 5, Completed: completed},
					{SetNumber: 2},
				},
			}},
		},
		ElapsedSeconds: 120,
		WeightUnit:     domain.UnitKilograms,
	}
}

func TestSessionStore_SaveOnlyWithProgress(t *testing.T) {
	store := NewSessionStore(repository.NewMemoryKVStore(), time.Hour)
	ctx := context.Background()

	saved, err := store.Save(ctx, sampleSnapshot("w-1", false))
	require.NoError(t, err)
	assert.False(t, saved)

	saved, err = store.Save(ctx, sampleSnapshot("w-1", true))
	require.NoError(t, err)
	assert.True(t, saved)

	snap, err := store.Load(ctx, "w-1")
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, domain.SnapshotVersion, snap.Version)
	assert.Equal(t, 120, snap.ElapsedSeconds)
	assert.False(t, snap.SavedAt.IsZero())
}

func TestSessionStore_SavesPendingSubmit(t *testing.T) {
	store := NewSessionStore(repository.NewMemoryKVStore(), time.Hour)
	ctx := context.Background()

	snap := sampleSnapshot("w-1", true)
	snap.Session.Status = domain.SessionStatusCompleted
	saved, err := store.Save(ctx, snap)
	require.NoError(t, err)
	assert.True(t, saved)

	loaded, err := store.Load(ctx, "w-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.True(t, loaded.PendingSubmit())
}

func TestSessionStore_LoadDiscardsBadEntries(t *testing.T) {
	kv := repository.NewMemoryKVStore()
	store := NewSessionStore(kv, time.Hour)
	ctx := context.Background()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "malformed json", raw: `{"version":1,"session":`},
		{name: "wrong version", raw: `{"version":99,"session":{"workout_id":"w-1","status":"Active","exercises":[{"sets":[{"set_number":1}]}]},"weight_unit":"kg"}`},
		{name: "no exercises", raw: `{"version":1,"session":{"workout_id":"w-1","status":"Active","exercises":[]},"weight_unit":"kg"}`},
		{name: "cursor out of range", raw: `{"version":1,"session":{"workout_id":"w-1","status":"Active","exercises":[{"sets":[{"set_number":1}]}]},"current_exercise_index":3,"weight_unit":"kg"}`},
		{name: "other workout", raw: `{"version":1,"session":{"workout_id":"w-2","status":"Active","exercises":[{"sets":[{"set_number":1}]}]},"weight_unit":"kg"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, kv.Set(ctx, snapshotKeyPrefix+"w-1", tt.raw, time.Hour))

			snap, err := store.Load(ctx, "w-1")
			require.NoError(t, err)
			assert.Nil(t, snap)

			_, err = kv.Get(ctx, snapshotKeyPrefix+"w-1")
			assert.ErrorIs(t, err, domain.ErrNotFound, "bad entry must be removed")
		})
	}
}

func TestSessionStore_ClearIsIdempotent(t *testing.T) {
	store := NewSessionStore(repository.NewMemoryKVStore(), time.Hour)
	ctx := context.Background()

	_, err := store.Save(ctx, sampleSnapshot("w-1", true))
	require.NoError(t, err)
	require.NoError(t, store.Clear(ctx, "w-1"))
	require.NoError(t, store.Clear(ctx, "w-1"))

	snap, err := store.Load(ctx, "w-1")
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestSessionStore_ForUserIsolatesKeys(t *testing.T) {
	base := NewSessionStore(repository.NewMemoryKVStore(), time.Hour)
	ctx := context.Background()

	_, err := base.ForUser("alice").Save(ctx, sampleSnapshot("w-1", true))
	require.NoError(t, err)

	snap, err := base.ForUser("bob").Load(ctx, "w-1")
	require.NoError(t, err)
	assert.Nil(t, snap)

	snap, err = base.ForUser("alice").Load(ctx, "w-1")
	require.NoError(t, err)
	assert.NotNil(t, snap)
}
