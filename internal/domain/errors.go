package domain

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrNotFound             = errors.New("record not found")
	ErrEmptyWorkout         = errors.New("workout has no exercises")
	ErrIncompleteInput      = errors.New("set requires weight and reps greater than zero")
	ErrSetLocked            = errors.New("completed set cannot be edited")
	ErrIndexOutOfRange      = errors.New("exercise or set index out of range")
	ErrInvalidField         = errors.New("unknown set field")
	ErrInvalidUnit          = errors.New("unknown weight unit")
	ErrNotInitialized       = errors.New("session not initialized")
	ErrAlreadyInitialized   = errors.New("session already initialized")
	ErrSessionClosed        = errors.New("session controller closed")
	ErrSessionNotActive     = errors.New("session is not active")
	ErrSessionNotCompleted  = errors.New("session is not completed")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrSubmissionInFlight   = errors.New("completion submission already in flight")
	ErrSessionNotFound      = errors.New("workout session not found")
	ErrWorkoutNotFound      = errors.New("workout definition not found")
)

// IncompleteInputError is returned when a set is completed without valid weight/reps.
// The session is left unchanged.
type IncompleteInputError struct {
	ExerciseIndex int
	SetIndex      int
	Weight        float64
	Reps          int
}

func (e *IncompleteInputError) Error() string {
	return fmt.Sprintf("set %d of exercise %d: weight=%g reps=%d: %v",
		e.SetIndex+1, e.ExerciseIndex+1, e.Weight, e.Reps, ErrIncompleteInput)
}

func (e *IncompleteInputError) Unwrap() error {
	return ErrIncompleteInput
}

// ResumeAvailableError tells the caller a resumable snapshot exists and
// a Resume / Start Fresh decision is needed before initializing.
type ResumeAvailableError struct {
	Snapshot *SessionSnapshot
}

func (e *ResumeAvailableError) Error() string {
	return fmt.Sprintf("resumable session exists for workout %s", e.Snapshot.Session.WorkoutID)
}

// DefinitionLoadError is fatal: no session is created
type DefinitionLoadError struct {
	WorkoutID string
	Err       error
}

func (e *DefinitionLoadError) Error() string {
	return fmt.Sprintf("failed to load workout %s: %v", e.WorkoutID, e.Err)
}

func (e *DefinitionLoadError) Unwrap() error {
	return e.Err
}

// SubmitError is a retryable completion submission failure.
// The local snapshot is kept so the submission can be retried after reload.
type SubmitError struct {
	Err error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("completion submission failed (retryable): %v", e.Err)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

// Retryable is always true for submission failures
func (e *SubmitError) Retryable() bool {
	return true
}
