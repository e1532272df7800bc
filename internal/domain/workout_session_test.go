package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSession() *WorkoutSession {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return &WorkoutSession{
		ID:        "01HSESSION",
		WorkoutID: "w-1",
		Status:    SessionStatusActive,
		Exercises: []*ExerciseSession{
			{
				ExerciseName: "Bench Press",
				Status:       ExerciseStatusInProgress,
				Sets: []*SetLog{
					{SetNumber: 1, Weight: 60, Reps: 10, Completed: true, CompletedAt: &at},
					{SetNumber: 2},
				},
			},
			{
				ExerciseName: "Lateral Raise",
				Status:       ExerciseStatusPending,
				Sets:         []*SetLog{{SetNumber: 1}},
			},
		},
	}
}

func TestWorkoutSession_Clone(t *testing.T) {
	s := sampleSession()
	cp := s.Clone()

	cp.Exercises[0].Sets[1].Weight = 80
	*cp.Exercises[0].Sets[0].CompletedAt = time.Time{}
	cp.Exercises[1].Status = ExerciseStatusCompleted

	assert.Zero(t, s.Exercises[0].Sets[1].Weight)
	assert.False(t, s.Exercises[0].Sets[0].CompletedAt.IsZero())
	assert.Equal(t, ExerciseStatusPending, s.Exercises[1].Status)
}

func TestWorkoutSession_Counts(t *testing.T) {
	s := sampleSession()
	assert.True(t, s.HasProgress())

	done, total := s.SetCounts()
	assert.Equal(t, 1, done)
	assert.Equal(t, 3, total)
	assert.Equal(t, 0, s.CompletedExercises())
	assert.False(t, s.Exercises[0].AllSetsCompleted())

	s.Exercises[0].Sets[0].Completed = false
	assert.False(t, s.HasProgress())
	assert.False(t, (&ExerciseSession{}).AllSetsCompleted())
}

func TestSessionSnapshot_Valid(t *testing.T) {
	valid := func() *SessionSnapshot {
		return &SessionSnapshot{
			Version:              SnapshotVersion,
			Session:              sampleSession(),
			CurrentExerciseIndex: 0,
			ElapsedSeconds:       245,
			WeightUnit:           UnitKilograms,
		}
	}

	tests := []struct {
		name   string
		mutate func(s *SessionSnapshot)
		want   bool
	}{
		{"valid", func(s *SessionSnapshot) {}, true},
		{"cursor out of range", func(s *SessionSnapshot) { s.CurrentExerciseIndex = 2 }, false},
		{"negative elapsed", func(s *SessionSnapshot) { s.ElapsedSeconds = -1 }, false},
		{"unknown unit", func(s *SessionSnapshot) { s.WeightUnit = "st" }, false},
		{"completed set without reps", func(s *SessionSnapshot) { s.Session.Exercises[0].Sets[0].Reps = 0 }, false},
		{"exercise without sets", func(s *SessionSnapshot) { s.Session.Exercises[1].Sets = nil }, false},
		{"unknown status", func(s *SessionSnapshot) { s.Session.Status = "Paused" }, false},
		{"no session", func(s *SessionSnapshot) { s.Session = nil }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := valid()
			tt.mutate(snap)
			assert.Equal(t, tt.want, snap.Valid())
		})
	}

	var nilSnap *SessionSnapshot
	assert.False(t, nilSnap.Valid())
}

func TestSessionSnapshot_PendingSubmit(t *testing.T) {
	snap := &SessionSnapshot{Session: sampleSession()}
	assert.False(t, snap.PendingSubmit())
	snap.Session.Status = SessionStatusCompleted
	assert.True(t, snap.PendingSubmit())
}

func TestPerformanceRecord_SetAt(t *testing.T) {
	rec := &PerformanceRecord{
		Exercises: map[string][]PerformedSet{
			"Bench Press": {{Weight: 60, Reps: 10}, {Weight: 65, Reps: 8}},
		},
	}

	p := rec.SetAt("Bench Press", 1)
	require.NotNil(t, p)
	assert.Equal(t, 65.0, p.Weight)

	p = rec.SetAt("Bench Press", 3)
	require.NotNil(t, p)
	assert.Equal(t, 8, p.Reps)

	p.Weight = 1
	assert.Equal(t, 65.0, rec.Exercises["Bench Press"][1].Weight)

	assert.Nil(t, rec.SetAt("Squat", 0))
	assert.Nil(t, rec.SetAt("Bench Press", -1))

	var none *PerformanceRecord
	assert.Nil(t, none.SetAt("Bench Press", 0))
}
