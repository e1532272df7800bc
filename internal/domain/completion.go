package domain

import (
	"context"
	"time"
)

// CompletedSet is a completed set normalized to kilograms
type CompletedSet struct {
	SetNumber int     `json:"set_number"`
	WeightKg  float64 `json:"weight_kg"`
	Reps      int     `json:"reps"`
}

// CompletedExercise groups the completed sets of one exercise
type CompletedExercise struct {
	ExerciseID   string         `json:"exercise_id"`
	ExerciseName string         `json:"exercise_name"`
	MuscleGroup  string         `json:"muscle_group"`
	Sets         []CompletedSet `json:"sets"`
}

// CompletionPayload is submitted to the completion endpoint. Incomplete sets are never included.
type CompletionPayload struct {
	SessionID       string              `json:"session_id"`
	WorkoutID       string              `json:"workout_id"`
	Title           string              `json:"title"`
	SessionType     string              `json:"session_type"`
	AssignmentID    string              `json:"assignment_id,omitempty"`
	StartedAt       time.Time           `json:"started_at"`
	CompletedAt     time.Time           `json:"completed_at"`
	DurationMinutes int                 `json:"duration_minutes"`
	Exercises       []CompletedExercise `json:"exercises"`
}

// CompletionReward is the optional gamification response of the completion endpoint
type CompletionReward struct {
	XPAwarded *int `json:"xp_awarded,omitempty"`
}

// CompletionSummary is returned to the UI layer once a session has been submitted
type CompletionSummary struct {
	SessionID       string    `json:"session_id"`
	WorkoutID       string    `json:"workout_id"`
	Title           string    `json:"title"`
	DurationMinutes int       `json:"duration_minutes"`
	TotalVolumeKg   float64   `json:"total_volume_kg"`
	CompletedSets   int       `json:"completed_sets"`
	TotalSets       int       `json:"total_sets"`
	Calories        int       `json:"calories"`
	MuscleGroups    []string  `json:"muscle_groups"`
	XPAwarded       int       `json:"xp_awarded"`
	XPEstimated     bool      `json:"xp_estimated"` // true when the server returned no reward
	SubmittedAt     time.Time `json:"submitted_at"`
}

// CompletionClient submits a completion payload to the external endpoint
type CompletionClient interface {
	SubmitCompletion(ctx context.Context, payload *CompletionPayload) (*CompletionReward, error)
}
