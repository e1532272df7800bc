// Package rest owns the single rest-period countdown that follows a completed set.
package rest

import (
	"time"

	"github.com/mansoorceksport/repflow/internal/clock"
	"github.com/sirupsen/logrus"
)

// Scheduler states
const (
	StateIdle    = "Idle"
	StateRunning = "Running"
	StateExpired = "Expired" // reached zero, grace window before returning to Idle
)

// ExtendStep is the "+30s" increment offered by the UI
const ExtendStep = 30

// Status is a snapshot of the rest timer
type Status struct {
	State     string `json:"state"`
	Duration  int    `json:"duration"`
	Remaining int    `json:"remaining"`
	Grace     int    `json:"grace,omitempty"`
}

// Scheduler wraps a countdown with the Idle -> Running -> Expired -> Idle state machine.
// Start always replaces the previous countdown; two rest timers never run at once.
type Scheduler struct {
	countdown *clock.Countdown
}

// NewScheduler creates an idle scheduler ticking at the given interval
func NewScheduler(interval time.Duration) *Scheduler {
	return &Scheduler{countdown: clock.NewCountdown(interval)}
}

// OnChange registers an observer for every state change
func (s *Scheduler) OnChange(fn func(Status)) {
	if fn == nil {
		s.countdown.OnChange(nil)
		return
	}
	s.countdown.OnChange(func(st clock.CountdownStatus) {
		fn(fromCountdown(st))
	})
}

// Start begins a rest period, cancelling any rest already running
func (s *Scheduler) Start(durationSeconds int) {
	logrus.WithField("rest_seconds", durationSeconds).Debug("rest period started")
	s.countdown.Start(durationSeconds)
}

// Extend adds seconds to a running or expired rest period. Idle timers are left alone.
func (s *Scheduler) Extend(deltaSeconds int) bool {
	return s.countdown.Add(deltaSeconds)
}

// Skip ends the rest period immediately and cancels any pending auto-clear
func (s *Scheduler) Skip() {
	s.countdown.Dismiss()
}

// Stop tears the timer down without notifying observers
func (s *Scheduler) Stop() {
	s.countdown.Stop()
}

// Tick advances the timer by one second synchronously
func (s *Scheduler) Tick() Status {
	return fromCountdown(s.countdown.Tick())
}

// Status returns the current state
func (s *Scheduler) Status() Status {
	return fromCountdown(s.countdown.Status())
}

// Active reports whether a countdown goroutine is alive
func (s *Scheduler) Active() bool {
	return s.countdown.Running()
}

func fromCountdown(st clock.CountdownStatus) Status {
	out := Status{Duration: st.Duration, Remaining: st.Remaining, Grace: st.Grace}
	switch st.Phase {
	case clock.CountdownRunning:
		out.State = StateRunning
	case clock.CountdownFinished:
		out.State = StateExpired
	default:
		out = Status{State: StateIdle}
	}
	return out
}
