package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mansoorceksport/repflow/internal/domain"
	"github.com/sirupsen/logrus"
)

const performanceKeyPrefix = "performance:last:"

// PerformanceHistory remembers the last completed weight/reps per exercise of a workout.
// Records do not expire.
type PerformanceHistory struct {
	kv        domain.KVStore
	namespace string
	now       func() time.Time
}

// NewPerformanceHistory creates a history over any KV capability
func NewPerformanceHistory(kv domain.KVStore) *PerformanceHistory {
	return &PerformanceHistory{kv: kv, now: time.Now}
}

// ForUser returns a history whose keys are scoped to one user
func (h *PerformanceHistory) ForUser(userID string) *PerformanceHistory {
	if h == nil {
		return nil
	}
	cp := *h
	cp.namespace = "user:" + userID + ":"
	return &cp
}

func (h *PerformanceHistory) key(workoutID string) string {
	return h.namespace + performanceKeyPrefix + workoutID
}

// RecordCompletion overwrites the record of workoutID with the completed sets of session.
// Exercises without completed sets are skipped.
func (h *PerformanceHistory) RecordCompletion(ctx context.Context, workoutID string, session *domain.WorkoutSession, unit string) error {
	record := domain.PerformanceRecord{
		WorkoutID:  workoutID,
		Unit:       unit,
		Exercises:  make(map[string][]domain.PerformedSet),
		RecordedAt: h.now().UTC(),
	}
	for _, ex := range session.Exercises {
		var sets []domain.PerformedSet
		for _, s := range ex.Sets {
			if s.Completed {
				sets = append(sets, domain.PerformedSet{Weight: s.Weight, Reps: s.Reps})
			}
		}
		if len(sets) > 0 {
			record.Exercises[ex.ExerciseName] = sets
		}
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode performance record: %w", err)
	}
	if err := h.kv.Set(ctx, h.key(workoutID), string(data), 0); err != nil {
		return fmt.Errorf("failed to save performance record: %w", err)
	}
	return nil
}

// Record returns the whole record of workoutID, or nil when absent or unreadable
func (h *PerformanceHistory) Record(ctx context.Context, workoutID string) *domain.PerformanceRecord {
	raw, err := h.kv.Get(ctx, h.key(workoutID))
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logrus.WithError(err).WithField("workout_id", workoutID).Warn("performance history unavailable")
		}
		return nil
	}
	var record domain.PerformanceRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		logrus.WithError(err).WithField("workout_id", workoutID).Warn("ignoring malformed performance record")
		return nil
	}
	return &record
}

// Lookup returns the previous pair for the exercise at setIndex, the last pair when
// fewer sets were recorded, or nil. Weights are returned in the unit they were recorded in.
func (h *PerformanceHistory) Lookup(ctx context.Context, workoutID, exerciseName string, setIndex int) *domain.PerformedSet {
	return h.Record(ctx, workoutID).SetAt(exerciseName, setIndex)
}
