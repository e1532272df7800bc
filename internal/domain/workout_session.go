package domain

import (
	"time"
)

// Session lifecycle states. Transitions only move forward.
const (
	SessionStatusActive    = "Active"
	SessionStatusCompleted = "Completed"
)

// Exercise lifecycle states inside a session
const (
	ExerciseStatusPending    = "Pending"
	ExerciseStatusInProgress = "InProgress"
	ExerciseStatusCompleted  = "Completed"
)

// Session types decide which completion endpoint receives the summary
const (
	SessionTypeAssigned    = "assigned"    // trainer/client-assigned workout
	SessionTypeIndependent = "independent" // self-tracked workout
)

// SetLog is one performed instance of an exercise
type SetLog struct {
	SetNumber   int        `json:"set_number" bson:"set_number"` // 1-based, fixed
	Weight      float64    `json:"weight" bson:"weight"`
	Reps        int        `json:"reps" bson:"reps"`
	Completed   bool       `json:"completed" bson:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
}

// IsValid reports whether the set carries enough data to be completed
func (s *SetLog) IsValid() bool {
	return s.Weight > 0 && s.Reps > 0
}

// ExerciseSession is the live state of one exercise of the workout
type ExerciseSession struct {
	ExerciseID   string    `json:"exercise_id" bson:"exercise_id"`
	ExerciseName string    `json:"exercise_name" bson:"exercise_name"`
	MuscleGroup  string    `json:"muscle_group" bson:"muscle_group"`
	TargetSets   int       `json:"target_sets" bson:"target_sets"`
	TargetReps   int       `json:"target_reps" bson:"target_reps"`
	Sets         []*SetLog `json:"sets" bson:"sets"`
	RestSeconds  int       `json:"rest_seconds" bson:"rest_seconds"`
	Status       string    `json:"status" bson:"status"`
}

// CompletedSets counts completed sets of the exercise
func (e *ExerciseSession) CompletedSets() int {
	n := 0
	for _, s := range e.Sets {
		if s.Completed {
			n++
		}
	}
	return n
}

// AllSetsCompleted reports whether every set is done
func (e *ExerciseSession) AllSetsCompleted() bool {
	return len(e.Sets) > 0 && e.CompletedSets() == len(e.Sets)
}

// Clone returns a deep copy of the exercise
func (e *ExerciseSession) Clone() *ExerciseSession {
	cp := *e
	cp.Sets = make([]*SetLog, len(e.Sets))
	for i, s := range e.Sets {
		set := *s
		if s.CompletedAt != nil {
			at := *s.CompletedAt
			set.CompletedAt = &at
		}
		cp.Sets[i] = &set
	}
	return &cp
}

// WorkoutSession is one execution of a workout definition
type WorkoutSession struct {
	ID           string             `json:"id" bson:"_id"` // ULID of this execution
	WorkoutID    string             `json:"workout_id" bson:"workout_id"`
	Title        string             `json:"title" bson:"title"` // copied at start
	SessionType  string             `json:"session_type" bson:"session_type"`
	AssignmentID string             `json:"assignment_id,omitempty" bson:"assignment_id,omitempty"`
	StartedAt    time.Time          `json:"started_at" bson:"started_at"`
	Exercises    []*ExerciseSession `json:"exercises" bson:"exercises"`
	Status       string             `json:"status" bson:"status"`
}

// Clone returns a deep copy of the session
func (s *WorkoutSession) Clone() *WorkoutSession {
	cp := *s
	cp.Exercises = make([]*ExerciseSession, len(s.Exercises))
	for i, ex := range s.Exercises {
		cp.Exercises[i] = ex.Clone()
	}
	return &cp
}

// HasProgress reports whether at least one set across all exercises is completed
func (s *WorkoutSession) HasProgress() bool {
	for _, ex := range s.Exercises {
		if ex.CompletedSets() > 0 {
			return true
		}
	}
	return false
}

// CompletedExercises counts exercises in Completed status
func (s *WorkoutSession) CompletedExercises() int {
	n := 0
	for _, ex := range s.Exercises {
		if ex.Status == ExerciseStatusCompleted {
			n++
		}
	}
	return n
}

// SetCounts returns completed and total set counts
func (s *WorkoutSession) SetCounts() (completed int, total int) {
	for _, ex := range s.Exercises {
		completed += ex.CompletedSets()
		total += len(ex.Sets)
	}
	return completed, total
}
