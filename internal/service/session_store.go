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

const snapshotKeyPrefix = "session:snapshot:"

// DefaultSnapshotTTL approximates the lifetime of a browser tab
const DefaultSnapshotTTL = 12 * time.Hour

// SessionStore persists the in-progress session so it survives a reload
type SessionStore struct {
	kv        domain.KVStore
	ttl       time.Duration
	namespace string
	now       func() time.Time
}

// NewSessionStore creates a snapshot store over any KV capability
func NewSessionStore(kv domain.KVStore, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	return &SessionStore{kv: kv, ttl: ttl, now: time.Now}
}

// ForUser returns a store whose keys are scoped to one user
func (s *SessionStore) ForUser(userID string) *SessionStore {
	cp := *s
	cp.namespace = "user:" + userID + ":"
	return &cp
}

func (s *SessionStore) key(workoutID string) string {
	return s.namespace + snapshotKeyPrefix + workoutID
}

// Save writes the snapshot when it is worth resuming: an active session with at
// least one completed set, or a completed session still waiting for submission.
// Returns false when nothing was written.
func (s *SessionStore) Save(ctx context.Context, snap *domain.SessionSnapshot) (bool, error) {
	if snap == nil || snap.Session == nil {
		return false, nil
	}
	switch snap.Session.Status {
	case domain.SessionStatusActive:
		if !snap.Session.HasProgress() {
			return false, nil
		}
	case domain.SessionStatusCompleted:
	default:
		return false, nil
	}

	snap.Version = domain.SnapshotVersion
	snap.SavedAt = s.now().UTC()

	data, err := json.Marshal(snap)
	if err != nil {
		return false, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := s.kv.Set(ctx, s.key(snap.Session.WorkoutID), string(data), s.ttl); err != nil {
		return false, fmt.Errorf("failed to save snapshot: %w", err)
	}
	return true, nil
}

// Load returns the stored snapshot for workoutID, or nil when none is usable.
// Malformed or mismatched entries are removed.
func (s *SessionStore) Load(ctx context.Context, workoutID string) (*domain.SessionSnapshot, error) {
	raw, err := s.kv.Get(ctx, s.key(workoutID))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snap domain.SessionSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		logrus.WithError(err).WithField("workout_id", workoutID).Warn("discarding malformed session snapshot")
		s.discard(ctx, workoutID)
		return nil, nil
	}
	if snap.Version != domain.SnapshotVersion || !snap.Valid() {
		logrus.WithField("workout_id", workoutID).Warn("discarding invalid session snapshot")
		s.discard(ctx, workoutID)
		return nil, nil
	}
	if snap.Session.WorkoutID != workoutID {
		logrus.WithFields(logrus.Fields{
			"workout_id":  workoutID,
			"snapshot_id": snap.Session.WorkoutID,
		}).Warn("discarding snapshot of another workout")
		s.discard(ctx, workoutID)
		return nil, nil
	}
	return &snap, nil
}

// Clear removes the snapshot. Clearing a missing snapshot is not an error.
func (s *SessionStore) Clear(ctx context.Context, workoutID string) error {
	if err := s.kv.Delete(ctx, s.key(workoutID)); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}
	return nil
}

func (s *SessionStore) discard(ctx context.Context, workoutID string) {
	if err := s.Clear(ctx, workoutID); err != nil {
		logrus.WithError(err).Warn("failed to discard session snapshot")
	}
}
