package repository

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mansoorceksport/repflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingDefinitionRepo struct {
	calls atomic.Int32
	def   *domain.WorkoutDefinition
	err   error
	delay time.Duration
}

func (r *countingDefinitionRepo) GetByID(ctx context.Context, id string) (*domain.WorkoutDefinition, error) {
	r.calls.Add(1)
	time.Sleep(r.delay)
	if r.err != nil {
		return nil, r.err
	}
	return r.def, nil
}

func TestCachedWorkoutDefinitionRepository_CachesHits(t *testing.T) {
	source := &countingDefinitionRepo{def: &domain.WorkoutDefinition{
		ID:    "w-1",
		Title: "Leg Day",
		Exercises: []*domain.DefinitionExercise{
			{Name: "Back Squat", Sets: 4, Reps: 6},
		},
	}}
	repo := NewCachedWorkoutDefinitionRepository(source, NewMemoryKVStore())
	ctx := context.Background()

	first, err := repo.GetByID(ctx, "w-1")
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, "w-1")
	require.NoError(t, err)

	assert.Equal(t, int32(1), source.calls.Load())
	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, "Back Squat", second.Exercises[0].Name)

	require.NoError(t, repo.Invalidate(ctx, "w-1"))
	_, err = repo.GetByID(ctx, "w-1")
	require.NoError(t, err)
	assert.Equal(t, int32(2), source.calls.Load())
}

func TestCachedWorkoutDefinitionRepository_DeduplicatesConcurrentMisses(t *testing.T) {
	source := &countingDefinitionRepo{
		def:   &domain.WorkoutDefinition{ID: "w-2"},
		delay: 20 * time.Millisecond,
	}
	repo := NewCachedWorkoutDefinitionRepository(source, NewMemoryKVStore())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.GetByID(context.Background(), "w-2")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), source.calls.Load())
}

func TestCachedWorkoutDefinitionRepository_PropagatesErrors(t *testing.T) {
	source := &countingDefinitionRepo{err: domain.ErrWorkoutNotFound}
	repo := NewCachedWorkoutDefinitionRepository(source, NewMemoryKVStore())

	_, err := repo.GetByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, domain.ErrWorkoutNotFound))
}
