package domain

import "time"

// PerformedSet is one completed weight/reps pair
type PerformedSet struct {
	Weight float64 `json:"weight" bson:"weight"`
	Reps   int     `json:"reps" bson:"reps"`
}

// PerformanceRecord caches the most recent completed sets of a workout.
// Exercises are keyed by name since exercise identity can shift between plan edits.
// Used only to pre-fill and hint, never to validate.
type PerformanceRecord struct {
	WorkoutID  string                    `json:"workout_id" bson:"workout_id"`
	Unit       string                    `json:"unit" bson:"unit"`
	Exercises  map[string][]PerformedSet `json:"exercises" bson:"exercises"`
	RecordedAt time.Time                 `json:"recorded_at" bson:"recorded_at"`
}

// SetAt returns the pair at setIndex for the named exercise, falling back to the
// last recorded pair when the exercise had fewer sets, or nil when none exist.
func (r *PerformanceRecord) SetAt(exerciseName string, setIndex int) *PerformedSet {
	if r == nil || setIndex < 0 {
		return nil
	}
	sets := r.Exercises[exerciseName]
	if len(sets) == 0 {
		return nil
	}
	if setIndex >= len(sets) {
		setIndex = len(sets) - 1
	}
	p := sets[setIndex]
	return &p
}
