// Package ledger holds the pure set operations of a workout session.
// Every operation returns a new session; the input is never mutated.
package ledger

import (
	"fmt"
	"math"
	"time"

	"github.com/mansoorceksport/repflow/internal/domain"
)

// Editable set fields
const (
	FieldWeight = "weight"
	FieldReps   = "reps"
)

// MaxReps bounds a provisional reps value so it always fits an int32
const MaxReps = math.MaxInt32

// UpdateField sets a provisional weight or reps value, clamped to >= 0.
// Provisional values are not validated; only completion is gated.
func UpdateField(s *domain.WorkoutSession, exIdx, setIdx int, field string, value float64) (*domain.WorkoutSession, error) {
	if field != FieldWeight && field != FieldReps {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidField, field)
	}
	if err := checkBounds(s, exIdx, setIdx); err != nil {
		return nil, err
	}
	if s.Exercises[exIdx].Sets[setIdx].Completed {
		return nil, domain.ErrSetLocked
	}

	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, fmt.Errorf("%w: %s must be a finite number", domain.ErrInvalidField, field)
	}

	value = max(value, 0)
	out, ex := withExercise(s, exIdx)
	set := ex.Sets[setIdx]
	switch field {
	case FieldWeight:
		set.Weight = value
	case FieldReps:
		set.Reps = int(min(value, MaxReps))
	}
	return out, nil
}

// CompleteSet marks a set completed, copies its values forward into the next
// untouched set and recomputes the exercise status.
func CompleteSet(s *domain.WorkoutSession, exIdx, setIdx int, now time.Time) (*domain.WorkoutSession, error) {
	if err := checkBounds(s, exIdx, setIdx); err != nil {
		return nil, err
	}
	current := s.Exercises[exIdx].Sets[setIdx]
	if current.Completed {
		return s, nil
	}
	if !current.IsValid() {
		return nil, &domain.IncompleteInputError{
			ExerciseIndex: exIdx,
			SetIndex:      setIdx,
			Weight:        current.Weight,
			Reps:          current.Reps,
		}
	}

	out, ex := withExercise(s, exIdx)
	set := ex.Sets[setIdx]
	at := now
	set.Completed = true
	set.CompletedAt = &at

	// copy forward only into fields the user has not edited yet
	if setIdx+1 < len(ex.Sets) {
		next := ex.Sets[setIdx+1]
		if !next.Completed {
			if next.Weight == 0 {
				next.Weight = set.Weight
			}
			if next.Reps == 0 {
				next.Reps = set.Reps
			}
		}
	}

	ex.Status = exerciseStatus(ex)
	return out, nil
}

// UncompleteSet reverts a completed set. The exercise drops back to InProgress.
// Calling it on an incomplete set returns the session unchanged.
func UncompleteSet(s *domain.WorkoutSession, exIdx, setIdx int) (*domain.WorkoutSession, error) {
	if err := checkBounds(s, exIdx, setIdx); err != nil {
		return nil, err
	}
	if !s.Exercises[exIdx].Sets[setIdx].Completed {
		return s, nil
	}

	out, ex := withExercise(s, exIdx)
	set := ex.Sets[setIdx]
	set.Completed = false
	set.CompletedAt = nil
	ex.Status = domain.ExerciseStatusInProgress
	return out, nil
}

// Validate checks that every completed set carries weight and reps greater than zero
func Validate(s *domain.WorkoutSession) error {
	for i, ex := range s.Exercises {
		for j, set := range ex.Sets {
			if set.Completed && !set.IsValid() {
				return &domain.IncompleteInputError{ExerciseIndex: i, SetIndex: j, Weight: set.Weight, Reps: set.Reps}
			}
		}
	}
	return nil
}

// exerciseStatus derives the status from the sets
func exerciseStatus(ex *domain.ExerciseSession) string {
	if ex.AllSetsCompleted() {
		return domain.ExerciseStatusCompleted
	}
	return domain.ExerciseStatusInProgress
}

// withExercise shallow-copies the session and deep-copies the exercise about to change
func withExercise(s *domain.WorkoutSession, exIdx int) (*domain.WorkoutSession, *domain.ExerciseSession) {
	out := *s
	out.Exercises = make([]*domain.ExerciseSession, len(s.Exercises))
	copy(out.Exercises, s.Exercises)
	ex := s.Exercises[exIdx].Clone()
	out.Exercises[exIdx] = ex
	return &out, ex
}

func checkBounds(s *domain.WorkoutSession, exIdx, setIdx int) error {
	if s == nil || exIdx < 0 || exIdx >= len(s.Exercises) {
		return domain.ErrIndexOutOfRange
	}
	if setIdx < 0 || setIdx >= len(s.Exercises[exIdx].Sets) {
		return domain.ErrIndexOutOfRange
	}
	return nil
}
