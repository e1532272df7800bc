package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mansoorceksport/repflow/internal/domain"
	"golang.org/x/sync/singleflight"
)

const (
	workoutDefinitionKeyPrefix = "workout:definition:"
	defaultDefinitionCacheTTL  = 5 * time.Minute
)

// CachedWorkoutDefinitionRepository wraps a definition repository with a KV cache.
// Concurrent misses for the same id share one upstream fetch.
type CachedWorkoutDefinitionRepository struct {
	source domain.WorkoutDefinitionRepository
	cache  domain.KVStore
	ttl    time.Duration
	group  singleflight.Group
}

// NewCachedWorkoutDefinitionRepository creates a new cached definition repository
func NewCachedWorkoutDefinitionRepository(source domain.WorkoutDefinitionRepository, cache domain.KVStore) *CachedWorkoutDefinitionRepository {
	return &CachedWorkoutDefinitionRepository{
		source: source,
		cache:  cache,
		ttl:    defaultDefinitionCacheTTL,
	}
}

// WithTTL overrides how long fetched definitions stay cached
func (r *CachedWorkoutDefinitionRepository) WithTTL(ttl time.Duration) *CachedWorkoutDefinitionRepository {
	if ttl > 0 {
		r.ttl = ttl
	}
	return r
}

// GetByID retrieves a definition with caching
func (r *CachedWorkoutDefinitionRepository) GetByID(ctx context.Context, id string) (*domain.WorkoutDefinition, error) {
	key := workoutDefinitionKeyPrefix + id

	// Try cache first
	if raw, err := r.cache.Get(ctx, key); err == nil {
		var def domain.WorkoutDefinition
		if err := json.Unmarshal([]byte(raw), &def); err == nil {
			return &def, nil
		}
	}

	v, err, _ := r.group.Do(id, func() (interface{}, error) {
		def, err := r.source.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		// Store in cache (ignore cache errors)
		if data, err := json.Marshal(def); err == nil {
			_ = r.cache.Set(ctx, key, string(data), r.ttl)
		}
		return def, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.WorkoutDefinition), nil
}

// Invalidate drops a cached definition after the catalog changed it
func (r *CachedWorkoutDefinitionRepository) Invalidate(ctx context.Context, id string) error {
	return r.cache.Delete(ctx, workoutDefinitionKeyPrefix+id)
}
