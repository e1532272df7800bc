package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/mansoorceksport/repflow/internal/domain"
	"github.com/sirupsen/logrus"
)

// Local reward estimates used when the completion endpoint returns none
const (
	xpPerCompletedSet      = 5
	caloriesPerMinute      = 7
	caloriesPerCompleteSet = 8
)

// CompletionSynchronizer turns a completed session into a payload, submits it once
// and reconciles the local caches with the result.
type CompletionSynchronizer struct {
	clients map[string]domain.CompletionClient
	history *PerformanceHistory
	store   *SessionStore
	metrics *engineMetrics
	now     func() time.Time
}

// NewCompletionSynchronizer creates a synchronizer with one client per session type
func NewCompletionSynchronizer(clients map[string]domain.CompletionClient, history *PerformanceHistory, store *SessionStore) *CompletionSynchronizer {
	return &CompletionSynchronizer{
		clients: clients,
		history: history,
		store:   store,
		metrics: newEngineMetrics(),
		now:     time.Now,
	}
}

// forUser scopes the local caches to one user while sharing the clients
func (c *CompletionSynchronizer) forUser(userID string) *CompletionSynchronizer {
	cp := *c
	if c.history != nil {
		cp.history = c.history.ForUser(userID)
	}
	if c.store != nil {
		cp.store = c.store.ForUser(userID)
	}
	return &cp
}

// BuildPayload collects completed sets only, normalizing weights to kilograms
func (c *CompletionSynchronizer) BuildPayload(session *domain.WorkoutSession, elapsedSeconds int, unit string) *domain.CompletionPayload {
	payload := &domain.CompletionPayload{
		SessionID:       session.ID,
		WorkoutID:       session.WorkoutID,
		Title:           session.Title,
		SessionType:     session.SessionType,
		AssignmentID:    session.AssignmentID,
		StartedAt:       session.StartedAt,
		CompletedAt:     c.now().UTC(),
		DurationMinutes: durationMinutes(elapsedSeconds),
		Exercises:       []domain.CompletedExercise{},
	}

	for _, ex := range session.Exercises {
		var sets []domain.CompletedSet
		for _, s := range ex.Sets {
			if !s.Completed {
				continue
			}
			sets = append(sets, domain.CompletedSet{
				SetNumber: s.SetNumber,
				WeightKg:  domain.ToKilograms(s.Weight, unit),
				Reps:      s.Reps,
			})
		}
		if len(sets) == 0 {
			continue
		}
		payload.Exercises = append(payload.Exercises, domain.CompletedExercise{
			ExerciseID:   ex.ExerciseID,
			ExerciseName: ex.ExerciseName,
			MuscleGroup:  ex.MuscleGroup,
			Sets:         sets,
		})
	}
	return payload
}

// Submit sends the payload once. On success the performance history is refreshed and
// the snapshot cleared; on failure a retryable *domain.SubmitError is returned and
// the snapshot is kept.
func (c *CompletionSynchronizer) Submit(ctx context.Context, session *domain.WorkoutSession, payload *domain.CompletionPayload, unit string) (*domain.CompletionSummary, error) {
	if session.Status != domain.SessionStatusCompleted {
		return nil, domain.ErrSessionNotCompleted
	}

	client, ok := c.clients[session.SessionType]
	if !ok {
		return nil, &domain.SubmitError{Err: fmt.Errorf("no completion client for session type %q", session.SessionType)}
	}

	reward, err := client.SubmitCompletion(ctx, payload)
	if err != nil {
		c.metrics.submitted(ctx, session.SessionType, false)
		logrus.WithError(err).WithFields(logrus.Fields{
			"session_id": session.ID,
			"workout_id": session.WorkoutID,
		}).Warn("completion submission failed")
		return nil, &domain.SubmitError{Err: err}
	}
	c.metrics.submitted(ctx, session.SessionType, true)

	var xp *int
	if reward != nil {
		xp = reward.XPAwarded
	}
	summary := c.Summarize(session, payload, xp)

	// Local caches are best effort once the server accepted the session
	if c.history != nil {
		if err := c.history.RecordCompletion(ctx, session.WorkoutID, session, unit); err != nil {
			logrus.WithError(err).WithField("workout_id", session.WorkoutID).Warn("failed to record performance history")
		}
	}
	if c.store != nil {
		if err := c.store.Clear(ctx, session.WorkoutID); err != nil {
			logrus.WithError(err).WithField("workout_id", session.WorkoutID).Warn("failed to clear session snapshot")
		}
	}

	logrus.WithFields(logrus.Fields{
		"session_id":   session.ID,
		"workout_id":   session.WorkoutID,
		"xp_awarded":   summary.XPAwarded,
		"xp_estimated": summary.XPEstimated,
	}).Info("session submitted")

	return summary, nil
}

// Summarize derives the display summary. A nil xp falls back to a local estimate.
func (c *CompletionSynchronizer) Summarize(session *domain.WorkoutSession, payload *domain.CompletionPayload, xp *int) *domain.CompletionSummary {
	completed, total := session.SetCounts()

	summary := &domain.CompletionSummary{
		SessionID:       session.ID,
		WorkoutID:       session.WorkoutID,
		Title:           session.Title,
		DurationMinutes: payload.DurationMinutes,
		CompletedSets:   completed,
		TotalSets:       total,
		MuscleGroups:    []string{},
		SubmittedAt:     c.now().UTC(),
	}

	var volume float64
	for _, ex := range payload.Exercises {
		for _, s := range ex.Sets {
			volume += s.WeightKg * float64(s.Reps)
		}
	}
	summary.TotalVolumeKg = math.Round(volume*100) / 100

	seen := make(map[string]bool)
	for _, ex := range session.Exercises {
		if ex.MuscleGroup == "" || seen[ex.MuscleGroup] {
			continue
		}
		seen[ex.MuscleGroup] = true
		summary.MuscleGroups = append(summary.MuscleGroups, ex.MuscleGroup)
	}

	summary.Calories = max(payload.DurationMinutes*caloriesPerMinute, completed*caloriesPerCompleteSet)

	if xp != nil {
		summary.XPAwarded = *xp
	} else {
		summary.XPAwarded = completed * xpPerCompletedSet
		summary.XPEstimated = true
	}
	return summary
}

func durationMinutes(elapsedSeconds int) int {
	return max(1, int(math.Round(float64(elapsedSeconds)/60)))
}
