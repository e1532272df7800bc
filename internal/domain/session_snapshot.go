package domain

import "time"

// SnapshotVersion is bumped when the persisted layout changes
const SnapshotVersion = 1

// SessionSnapshot is the persisted projection of a live session used for reload resumption
type SessionSnapshot struct {
	Version              int             `json:"version"`
	Session              *WorkoutSession `json:"session"`
	CurrentExerciseIndex int             `json:"current_exercise_index"`
	ElapsedSeconds       int             `json:"elapsed_seconds"`
	WeightUnit           string          `json:"weight_unit"`
	SavedAt              time.Time       `json:"saved_at"`
}

// Valid checks the structural invariants a resumable snapshot must satisfy
func (s *SessionSnapshot) Valid() bool {
	if s == nil || s.Session == nil || len(s.Session.Exercises) == 0 {
		return false
	}
	if s.CurrentExerciseIndex < 0 || s.CurrentExerciseIndex >= len(s.Session.Exercises) {
		return false
	}
	if s.ElapsedSeconds < 0 || !ValidUnit(s.WeightUnit) {
		return false
	}
	for _, ex := range s.Session.Exercises {
		if ex == nil || len(ex.Sets) == 0 {
			return false
		}
		for _, set := range ex.Sets {
			if set == nil || (set.Completed && !set.IsValid()) {
				return false
			}
		}
	}
	return s.Session.Status == SessionStatusActive || s.Session.Status == SessionStatusCompleted
}

// PendingSubmit reports whether the snapshot holds a completed session awaiting submission
func (s *SessionSnapshot) PendingSubmit() bool {
	return s.Session != nil && s.Session.Status == SessionStatusCompleted
}
