package service

import (
	"context"
	"errors"
	"sync"

	"github.com/mansoorceksport/repflow/internal/domain"
	"github.com/sirupsen/logrus"
)

// SessionManager keeps one live controller per user and workout
type SessionManager struct {
	mu          sync.Mutex
	controllers map[string]*SessionController

	definitions  domain.WorkoutDefinitionRepository
	store        *SessionStore
	history      *PerformanceHistory
	synchronizer *CompletionSynchronizer
	cfg          ControllerConfig
}

// NewSessionManager creates an empty registry
func NewSessionManager(
	definitions domain.WorkoutDefinitionRepository,
	store *SessionStore,
	history *PerformanceHistory,
	synchronizer *CompletionSynchronizer,
	cfg ControllerConfig,
) *SessionManager {
	return &SessionManager{
		controllers:  make(map[string]*SessionController),
		definitions:  definitions,
		store:        store,
		history:      history,
		synchronizer: synchronizer,
		cfg:          cfg,
	}
}

func managerKey(userID, workoutID string) string {
	return userID + ":" + workoutID
}

// Start loads the workout, honouring choice against a live controller the same way
// it is honoured against a stored snapshot: ResumeAsk reports progress as
// *domain.ResumeAvailableError, ResumeContinue returns the live controller and
// ResumeStartFresh discards it. A controller whose session was already submitted
// is replaced.
func (m *SessionManager) Start(ctx context.Context, userID, workoutID string, choice ResumeChoice) (*SessionController, error) {
	key := managerKey(userID, workoutID)

	m.mu.Lock()
	existing, live := m.controllers[key]
	if live && (existing.isClosed() || existing.submitted()) {
		delete(m.controllers, key)
		existing.abandon()
		live = false
	}
	if live {
		switch choice {
		case ResumeContinue:
			m.mu.Unlock()
			return existing, nil
		case ResumeAsk:
			snap := existing.resumeSnapshot()
			m.mu.Unlock()
			if snap != nil {
				return nil, &domain.ResumeAvailableError{Snapshot: snap}
			}
			return existing, nil
		default:
			delete(m.controllers, key)
		}
	}
	m.mu.Unlock()

	if live {
		// the fresh controller below clears the snapshot once this one can no longer write it
		existing.discard()
		logrus.WithFields(logrus.Fields{"user_id": userID, "workout_id": workoutID}).Info("live session discarded for a fresh start")
	}

	c := NewSessionController(
		m.definitions,
		m.store.ForUser(userID),
		m.history.ForUser(userID),
		m.synchronizer.forUser(userID),
		m.cfg,
	)
	if err := c.Load(ctx, workoutID, choice); err != nil {
		c.abandon()
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.controllers[key]; ok && !existing.isClosed() {
		// a concurrent Start won; keep its controller and drop ours untouched
		c.abandon()
		return existing, nil
	}
	m.controllers[key] = c
	return c, nil
}

// Get returns the live controller of the workout
func (m *SessionManager) Get(userID, workoutID string) (*SessionController, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.controllers[managerKey(userID, workoutID)]
	if !ok || c.isClosed() {
		return nil, domain.ErrSessionNotFound
	}
	return c, nil
}

// Close tears the controller down, persisting its latest state
func (m *SessionManager) Close(ctx context.Context, userID, workoutID string) error {
	key := managerKey(userID, workoutID)

	m.mu.Lock()
	c, ok := m.controllers[key]
	delete(m.controllers, key)
	m.mu.Unlock()

	if !ok {
		return domain.ErrSessionNotFound
	}
	return c.Close(ctx)
}

// Shutdown closes every live controller
func (m *SessionManager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	controllers := m.controllers
	m.controllers = make(map[string]*SessionController)
	m.mu.Unlock()

	var errs []error
	for key, c := range controllers {
		if err := c.Close(ctx); err != nil {
			logrus.WithError(err).WithField("session", key).Warn("failed to close session")
			errs = append(errs, err)
		}
	}
	logrus.WithField("sessions", len(controllers)).Info("session manager stopped")
	return errors.Join(errs...)
}

// Len returns the number of registered controllers
func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.controllers)
}
