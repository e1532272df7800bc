package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mansoorceksport/repflow/internal/clock"
	"github.com/mansoorceksport/repflow/internal/domain"
	"github.com/mansoorceksport/repflow/internal/ledger"
	"github.com/mansoorceksport/repflow/internal/rest"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

// Controller states
const (
	StateUninitialized = "Uninitialized"
	StateActive        = "Active"
	StateCompleted     = "Completed"
)

// DestinationCompletion is the completion screen; leaving for it never needs confirmation
const DestinationCompletion = "completion"

// ResumeChoice answers the resume prompt raised when a snapshot exists
type ResumeChoice int

const (
	ResumeAsk ResumeChoice = iota
	ResumeContinue
	ResumeStartFresh
)

// ParseResumeChoice maps "ask", "continue" and "fresh". Empty means ask.
func ParseResumeChoice(s string) (ResumeChoice, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ask":
		return ResumeAsk, nil
	case "continue", "resume":
		return ResumeContinue, nil
	case "fresh", "start_fresh":
		return ResumeStartFresh, nil
	}
	return ResumeAsk, fmt.Errorf("unknown resume choice %q", s)
}

// Event kinds delivered to subscribers
const (
	EventSession = "session" // any session transition, View is set
	EventRest    = "rest"    // rest timer change, Rest is set
	EventTick    = "tick"    // elapsed clock tick, ElapsedSeconds is set
)

// Event is pushed to subscribers. Subscribers must not call mutating controller
// methods from inside the callback.
type Event struct {
	Kind           string
	View           *SessionView
	Rest           rest.Status
	ElapsedSeconds int
}

// SessionView is a read-only projection of the controller for rendering
type SessionView struct {
	State                string                    `json:"state"`
	Session              *domain.WorkoutSession    `json:"session,omitempty"`
	CurrentExerciseIndex int                       `json:"current_exercise_index"`
	ElapsedSeconds       int                       `json:"elapsed_seconds"`
	WeightUnit           string                    `json:"weight_unit"`
	Rest                 rest.Status               `json:"rest"`
	Submitting           bool                      `json:"submitting"`
	Summary              *domain.CompletionSummary `json:"summary,omitempty"`
}

// CompleteOutcome describes what a set completion triggered
type CompleteOutcome struct {
	ExerciseCompleted bool `json:"exercise_completed"`
	Advanced          bool `json:"advanced"`
	SessionCompleted  bool `json:"session_completed"`
	RestSeconds       int  `json:"rest_seconds"` // 0 when no rest period started
}

// ControllerConfig tunes a SessionController
type ControllerConfig struct {
	TickInterval            time.Duration
	DefaultUnit             string
	ClearSnapshotOnComplete bool // drop the snapshot as soon as the session completes
}

// SessionController owns one live workout session
type SessionController struct {
	opMu sync.Mutex // serializes operations together with their timer and storage side effects
	mu   sync.Mutex // guards the state below

	cfg          ControllerConfig
	definitions  domain.WorkoutDefinitionRepository
	store        *SessionStore
	history      *PerformanceHistory
	synchronizer *CompletionSynchronizer
	metrics      *engineMetrics
	elapsed      *clock.Elapsed
	rest         *rest.Scheduler
	now          func() time.Time

	state        string
	closed       bool
	session      *domain.WorkoutSession
	current      int
	unit         string
	finalElapsed int
	perf         *domain.PerformanceRecord
	submitting   bool
	summary      *domain.CompletionSummary

	stored bool // the store holds a snapshot of this session; guarded by opMu

	subMu   sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

// NewSessionController creates an uninitialized controller
func NewSessionController(
	definitions domain.WorkoutDefinitionRepository,
	store *SessionStore,
	history *PerformanceHistory,
	synchronizer *CompletionSynchronizer,
	cfg ControllerConfig,
) *SessionController {
	if !domain.ValidUnit(cfg.DefaultUnit) {
		cfg.DefaultUnit = domain.UnitKilograms
	}
	c := &SessionController{
		cfg:          cfg,
		definitions:  definitions,
		store:        store,
		history:      history,
		synchronizer: synchronizer,
		metrics:      newEngineMetrics(),
		elapsed:      clock.NewElapsed(cfg.TickInterval),
		rest:         rest.NewScheduler(cfg.TickInterval),
		now:          time.Now,
		state:        StateUninitialized,
		unit:         cfg.DefaultUnit,
		subs:         make(map[int]func(Event)),
	}
	c.elapsed.OnTick(func(seconds int) {
		c.publish(Event{Kind: EventTick, ElapsedSeconds: seconds})
	})
	c.rest.OnChange(func(st rest.Status) {
		c.publish(Event{Kind: EventRest, Rest: st})
	})
	return c
}

// Load fetches the workout definition and initializes from it.
// A fetch failure is fatal and returned as *domain.DefinitionLoadError.
func (c *SessionController) Load(ctx context.Context, workoutID string, choice ResumeChoice) error {
	if c.definitions == nil {
		return &domain.DefinitionLoadError{WorkoutID: workoutID, Err: errors.New("no definition source configured")}
	}
	def, err := c.definitions.GetByID(ctx, workoutID)
	if err != nil {
		return &domain.DefinitionLoadError{WorkoutID: workoutID, Err: err}
	}
	return c.Initialize(ctx, def, choice)
}

// Initialize builds the session from def, or resumes the stored snapshot.
// With ResumeAsk and a snapshot present, *domain.ResumeAvailableError is returned
// and the controller stays uninitialized.
func (c *SessionController) Initialize(ctx context.Context, def *domain.WorkoutDefinition, choice ResumeChoice) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	closed, state := c.closed, c.state
	c.mu.Unlock()
	if closed {
		return domain.ErrSessionClosed
	}
	if state != StateUninitialized {
		return domain.ErrAlreadyInitialized
	}
	if def == nil {
		return domain.ErrEmptyWorkout
	}
	exercises := usableExercises(def.Exercises)
	if len(exercises) == 0 {
		return domain.ErrEmptyWorkout
	}
	if len(exercises) != len(def.Exercises) {
		trimmed := *def
		trimmed.Exercises = exercises
		def = &trimmed
	}

	snap, err := c.store.Load(ctx, def.ID)
	if err != nil {
		logrus.WithError(err).WithField("workout_id", def.ID).Warn("ignoring unreadable session snapshot")
		snap = nil
	}

	var perf *domain.PerformanceRecord
	if c.history != nil {
		perf = c.history.Record(ctx, def.ID)
	}

	if snap != nil {
		switch choice {
		case ResumeAsk:
			return &domain.ResumeAvailableError{Snapshot: snap}
		case ResumeContinue:
			c.stored = true
			c.restore(snap, perf)
			c.notify()
			return nil
		default:
			if err := c.store.Clear(ctx, def.ID); err != nil {
				logrus.WithError(err).WithField("workout_id", def.ID).Warn("failed to clear session snapshot")
			}
		}
	}

	c.startFresh(def, perf)
	c.notify()
	return nil
}

func (c *SessionController) restore(snap *domain.SessionSnapshot, perf *domain.PerformanceRecord) {
	c.mu.Lock()
	c.session = snap.Session
	c.current = snap.CurrentExerciseIndex
	c.unit = snap.WeightUnit
	c.perf = perf
	pending := snap.PendingSubmit()
	if pending {
		c.state = StateCompleted
		c.finalElapsed = snap.ElapsedSeconds
	} else {
		c.state = StateActive
	}
	c.mu.Unlock()

	if pending {
		c.elapsed.Set(snap.ElapsedSeconds)
	} else {
		c.elapsed.Start(snap.ElapsedSeconds)
	}

	logrus.WithFields(logrus.Fields{
		"session_id":      snap.Session.ID,
		"workout_id":      snap.Session.WorkoutID,
		"elapsed_seconds": snap.ElapsedSeconds,
		"pending_submit":  pending,
	}).Info("session resumed")
}

func (c *SessionController) startFresh(def *domain.WorkoutDefinition, perf *domain.PerformanceRecord) {
	unit := c.cfg.DefaultUnit
	session := &domain.WorkoutSession{
		ID:           newSessionID(),
		WorkoutID:    def.ID,
		Title:        def.Title,
		SessionType:  sessionTypeOf(def),
		AssignmentID: def.AssignmentID,
		StartedAt:    c.now().UTC(),
		Exercises:    make([]*domain.ExerciseSession, 0, len(def.Exercises)),
		Status:       domain.SessionStatusActive,
	}

	for i, d := range def.Exercises {
		n := max(1, d.Sets)
		ex := &domain.ExerciseSession{
			ExerciseID:   d.ExerciseID,
			ExerciseName: d.Name,
			MuscleGroup:  d.MuscleGroup,
			TargetSets:   n,
			TargetReps:   d.Reps,
			Sets:         make([]*domain.SetLog, n),
			RestSeconds:  d.RestDuration(),
			Status:       domain.ExerciseStatusPending,
		}
		if i == 0 {
			ex.Status = domain.ExerciseStatusInProgress
		}
		for j := range ex.Sets {
			set := &domain.SetLog{SetNumber: j + 1}
			// weights only; reps are always entered by hand
			if prev := perf.SetAt(d.Name, j); prev != nil {
				set.Weight = domain.ConvertWeight(prev.Weight, perf.Unit, unit)
			}
			ex.Sets[j] = set
		}
		session.Exercises = append(session.Exercises, ex)
	}

	c.mu.Lock()
	c.session = session
	c.current = 0
	c.unit = unit
	c.perf = perf
	c.state = StateActive
	c.mu.Unlock()

	c.elapsed.Start(0)

	logrus.WithFields(logrus.Fields{
		"session_id":   session.ID,
		"workout_id":   session.WorkoutID,
		"session_type": session.SessionType,
		"exercises":    len(session.Exercises),
	}).Info("session started")
}

// UpdateField edits a provisional weight or reps value of an incomplete set
func (c *SessionController) UpdateField(ctx context.Context, exIdx, setIdx int, field string, value float64) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	if err := c.activeLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	next, err := ledger.UpdateField(c.session, exIdx, setIdx, field, value)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.session = next
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.persist(ctx, snap)
	c.notify()
	return nil
}

// CompleteSet completes a set, then either advances past a finished exercise or
// starts the rest period before the next set.
func (c *SessionController) CompleteSet(ctx context.Context, exIdx, setIdx int) (CompleteOutcome, error) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	var out CompleteOutcome

	c.mu.Lock()
	if err := c.activeLocked(); err != nil {
		c.mu.Unlock()
		return out, err
	}
	next, err := ledger.CompleteSet(c.session, exIdx, setIdx, c.now().UTC())
	if err != nil {
		c.mu.Unlock()
		return out, err
	}
	if next == c.session {
		c.mu.Unlock()
		return out, nil
	}
	c.session = next

	ex := next.Exercises[exIdx]
	switch {
	case ex.Status == domain.ExerciseStatusCompleted:
		out.ExerciseCompleted = true
		if exIdx < len(next.Exercises)-1 {
			c.moveToLocked(exIdx + 1)
			out.Advanced = true
		} else {
			c.completeLocked()
			out.SessionCompleted = true
		}
	case setIdx < len(ex.Sets)-1:
		out.RestSeconds = ex.RestSeconds
	}
	sessionType := next.SessionType
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.metrics.setCompleted(ctx, sessionType)
	switch {
	case out.SessionCompleted:
		c.finishTimers(snap.ElapsedSeconds)
		c.metrics.sessionCompleted(ctx, sessionType, false)
	case out.Advanced:
		c.rest.Skip()
	case out.RestSeconds > 0:
		c.rest.Start(out.RestSeconds)
	}

	c.persist(ctx, snap)
	c.notify()
	return out, nil
}

// UncompleteSet reopens a completed set. The cursor does not move.
func (c *SessionController) UncompleteSet(ctx context.Context, exIdx, setIdx int) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	if err := c.activeLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	next, err := ledger.UncompleteSet(c.session, exIdx, setIdx)
	if err != nil || next == c.session {
		c.mu.Unlock()
		return err
	}
	c.session = next
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.persist(ctx, snap)
	c.notify()
	return nil
}

// GoToExercise moves the cursor to any exercise while the session is active.
// Leaving the current exercise cancels its rest period.
func (c *SessionController) GoToExercise(ctx context.Context, idx int) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	if err := c.activeLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	if idx < 0 || idx >= len(c.session.Exercises) {
		c.mu.Unlock()
		return domain.ErrIndexOutOfRange
	}
	moved := idx != c.current
	c.moveToLocked(idx)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if moved {
		c.rest.Skip()
	}
	c.persist(ctx, snap)
	c.notify()
	return nil
}

// FinishEarly completes the session before every exercise is done. Below half of
// the exercises completed it needs confirmed set, otherwise ErrConfirmationRequired.
func (c *SessionController) FinishEarly(ctx context.Context, confirmed bool) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	if err := c.activeLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	done, total := c.session.CompletedExercises(), len(c.session.Exercises)
	if !confirmed && done*2 < total {
		c.mu.Unlock()
		return domain.ErrConfirmationRequired
	}
	c.completeLocked()
	sessionType := c.session.SessionType
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.finishTimers(snap.ElapsedSeconds)
	c.metrics.sessionCompleted(ctx, sessionType, true)
	c.persist(ctx, snap)
	c.notify()
	return nil
}

// ExtendRest adds seconds to the running or expired rest period.
// A non-positive delta uses rest.ExtendStep.
func (c *SessionController) ExtendRest(deltaSeconds int) (bool, error) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if err := c.checkActive(); err != nil {
		return false, err
	}
	if deltaSeconds <= 0 {
		deltaSeconds = rest.ExtendStep
	}
	return c.rest.Extend(deltaSeconds), nil
}

// SkipRest ends the rest period immediately
func (c *SessionController) SkipRest() error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if err := c.checkActive(); err != nil {
		return err
	}
	c.rest.Skip()
	return nil
}

// SetWeightUnit switches the unit weights are entered in. Stored values are not
// converted; the unit is applied when the payload is built.
func (c *SessionController) SetWeightUnit(ctx context.Context, unit string) error {
	if !domain.ValidUnit(unit) {
		return domain.ErrInvalidUnit
	}

	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	if err := c.activeLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	if c.unit == unit {
		c.mu.Unlock()
		return nil
	}
	c.unit = unit
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.persist(ctx, snap)
	c.notify()
	return nil
}

// Submit sends the completed session. A second call while one is in flight returns
// ErrSubmissionInFlight; after success the stored summary is returned again.
func (c *SessionController) Submit(ctx context.Context) (*domain.CompletionSummary, error) {
	session, elapsed, unit, done, err := c.beginSubmit()
	if err != nil || done != nil {
		return done, err
	}
	c.notify()

	payload := c.synchronizer.BuildPayload(session, elapsed, unit)
	summary, err := c.synchronizer.Submit(ctx, session, payload, unit)

	c.mu.Lock()
	c.submitting = false
	if err == nil {
		c.summary = summary
	}
	c.mu.Unlock()
	c.notify()

	return summary, err
}

// beginSubmit claims the submission. It waits for the operation that completed the
// session to finish persisting, so the snapshot cleared on success stays cleared.
func (c *SessionController) beginSubmit() (*domain.WorkoutSession, int, string, *domain.CompletionSummary, error) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.closed:
		return nil, 0, "", nil, domain.ErrSessionClosed
	case c.state != StateCompleted:
		return nil, 0, "", nil, domain.ErrSessionNotCompleted
	case c.summary != nil:
		return nil, 0, "", c.summary, nil
	case c.submitting:
		return nil, 0, "", nil, domain.ErrSubmissionInFlight
	}
	c.submitting = true
	return c.session, c.finalElapsed, c.unit, nil, nil
}

// RequiresNavigationConfirmation reports whether leaving for dest would abandon progress
func (c *SessionController) RequiresNavigationConfirmation(dest string) bool {
	if dest == DestinationCompletion {
		return false
	}
	return c.RequiresUnloadConfirmation()
}

// RequiresUnloadConfirmation reports whether unloading now would abandon progress.
// Advisory only.
func (c *SessionController) RequiresUnloadConfirmation() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed && c.state == StateActive && c.session.HasProgress()
}

// HintFor returns the previous performance of a set converted to the current unit,
// or nil when there is none.
func (c *SessionController) HintFor(exIdx, setIdx int) *domain.PerformedSet {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil || exIdx < 0 || exIdx >= len(c.session.Exercises) {
		return nil
	}
	hint := c.perf.SetAt(c.session.Exercises[exIdx].ExerciseName, setIdx)
	if hint != nil {
		hint.Weight = domain.ConvertWeight(hint.Weight, c.perf.Unit, c.unit)
	}
	return hint
}

// State returns the controller state
func (c *SessionController) State() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// View returns the current projection
func (c *SessionController) View() SessionView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// Subscribe registers fn for every event and returns a function that removes it.
// fn runs synchronously, often while an operation is in progress, so it must not
// call the controller's operations or Submit.
func (c *SessionController) Subscribe(fn func(Event)) (unsubscribe func()) {
	c.subMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.subMu.Unlock()

	return func() {
		c.subMu.Lock()
		delete(c.subs, id)
		c.subMu.Unlock()
	}
}

// Close persists the latest elapsed time and stops both timers. Safe to call twice.
func (c *SessionController) Close(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.elapsed.Stop()
	c.rest.Stop()

	c.mu.Lock()
	var snap *domain.SessionSnapshot
	if c.state == StateActive {
		snap = c.snapshotLocked()
	}
	c.mu.Unlock()

	if snap != nil {
		c.persist(ctx, snap)
	}
	return nil
}

// resumeSnapshot returns the live state as a resumable snapshot, or nil when a
// fresh start would lose nothing.
func (c *SessionController) resumeSnapshot() *domain.SessionSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.session == nil || c.summary != nil {
		return nil
	}
	switch c.state {
	case StateActive:
		if !c.session.HasProgress() {
			return nil
		}
	case StateCompleted:
	default:
		return nil
	}
	snap := c.snapshotLocked()
	snap.SavedAt = c.now().UTC()
	return snap
}

// discard is abandon after any running operation has finished its storage writes
func (c *SessionController) discard() {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	c.abandon()
}

// abandon stops the timers without touching storage
func (c *SessionController) abandon() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.elapsed.Stop()
	c.rest.Stop()
}

func (c *SessionController) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *SessionController) submitted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.summary != nil
}

func (c *SessionController) checkActive() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeLocked()
}

func (c *SessionController) activeLocked() error {
	if c.closed {
		return domain.ErrSessionClosed
	}
	switch c.state {
	case StateUninitialized:
		return domain.ErrNotInitialized
	case StateCompleted:
		return domain.ErrSessionNotActive
	}
	return nil
}

// moveToLocked points the cursor at idx and opens a pending exercise
func (c *SessionController) moveToLocked(idx int) {
	c.current = idx
	ex := c.session.Exercises[idx]
	if ex.Status != domain.ExerciseStatusPending {
		return
	}
	out := *c.session
	out.Exercises = make([]*domain.ExerciseSession, len(c.session.Exercises))
	copy(out.Exercises, c.session.Exercises)
	opened := *ex
	opened.Status = domain.ExerciseStatusInProgress
	out.Exercises[idx] = &opened
	c.session = &out
}

func (c *SessionController) completeLocked() {
	out := *c.session
	out.Status = domain.SessionStatusCompleted
	c.session = &out
	c.state = StateCompleted
	c.finalElapsed = c.elapsed.Seconds()

	logrus.WithFields(logrus.Fields{
		"session_id":      out.ID,
		"workout_id":      out.WorkoutID,
		"elapsed_seconds": c.finalElapsed,
	}).Info("session completed")
}

// finishTimers stops both timers and pins the clock to the value captured at completion
func (c *SessionController) finishTimers(final int) {
	c.rest.Stop()
	c.elapsed.Stop()
	c.elapsed.Set(final)
}

func (c *SessionController) snapshotLocked() *domain.SessionSnapshot {
	elapsed := c.elapsed.Seconds()
	if c.state == StateCompleted {
		elapsed = c.finalElapsed
	}
	return &domain.SessionSnapshot{
		Version:              domain.SnapshotVersion,
		Session:              c.session,
		CurrentExerciseIndex: c.current,
		ElapsedSeconds:       elapsed,
		WeightUnit:           c.unit,
	}
}

func (c *SessionController) viewLocked() SessionView {
	view := SessionView{
		State:                c.state,
		CurrentExerciseIndex: c.current,
		ElapsedSeconds:       c.elapsed.Seconds(),
		WeightUnit:           c.unit,
		Rest:                 c.rest.Status(),
		Submitting:           c.submitting,
		Summary:              c.summary,
	}
	if c.state == StateCompleted {
		view.ElapsedSeconds = c.finalElapsed
	}
	if c.session != nil {
		view.Session = c.session.Clone()
	}
	return view
}

// persist writes the snapshot. Storage failures never interrupt the workout.
func (c *SessionController) persist(ctx context.Context, snap *domain.SessionSnapshot) {
	workoutID := snap.Session.WorkoutID
	log := logrus.WithFields(logrus.Fields{"session_id": snap.Session.ID, "workout_id": workoutID})

	if snap.Session.Status == domain.SessionStatusCompleted && c.cfg.ClearSnapshotOnComplete {
		c.clearStored(ctx, log, workoutID)
		return
	}

	saved, err := c.store.Save(ctx, snap)
	if err != nil {
		log.WithError(err).Warn("failed to persist session snapshot")
		return
	}
	if saved {
		c.stored = true
		return
	}
	// every completed set was undone; a stale snapshot must not resurrect them
	if c.stored && snap.Session.Status == domain.SessionStatusActive {
		c.clearStored(ctx, log, workoutID)
	}
}

func (c *SessionController) clearStored(ctx context.Context, log *logrus.Entry, workoutID string) {
	if err := c.store.Clear(ctx, workoutID); err != nil {
		log.WithError(err).Warn("failed to clear session snapshot")
		return
	}
	c.stored = false
}

func (c *SessionController) notify() {
	view := c.View()
	c.publish(Event{Kind: EventSession, View: &view})
}

func (c *SessionController) publish(ev Event) {
	c.subMu.Lock()
	fns := make([]func(Event), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// usableExercises drops the null entries a catalog document may carry
func usableExercises(in []*domain.DefinitionExercise) []*domain.DefinitionExercise {
	out := make([]*domain.DefinitionExercise, 0, len(in))
	for _, d := range in {
		if d != nil {
			out = append(out, d)
		}
	}
	return out
}

func sessionTypeOf(def *domain.WorkoutDefinition) string {
	switch def.SessionType {
	case domain.SessionTypeAssigned, domain.SessionTypeIndependent:
		return def.SessionType
	}
	if def.AssignmentID != "" {
		return domain.SessionTypeAssigned
	}
	return domain.SessionTypeIndependent
}

func newSessionID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}
