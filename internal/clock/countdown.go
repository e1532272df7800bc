package clock

import (
	"sync"
	"time"
)

// Countdown phases
const (
	CountdownIdle     = "idle"
	CountdownRunning  = "running"
	CountdownFinished = "finished" // reached zero, inside the grace window
)

// CountdownStatus is a point-in-time view of a countdown
type CountdownStatus struct {
	Phase     string `json:"phase"`
	Duration  int    `json:"duration"`
	Remaining int    `json:"remaining"`
	Grace     int    `json:"grace"` // ticks left before a finished countdown clears itself
}

// Countdown counts down once per tick. At zero it enters the finished phase
// and clears itself after GraceTicks unless extended or dismissed first.
// Only one countdown goroutine exists at a time; Start replaces the previous one.
type Countdown struct {
	mu       sync.Mutex
	interval time.Duration
	status   CountdownStatus
	gen      int
	run      *runner
	onChange func(CountdownStatus)
}

// NewCountdown creates an idle countdown. A non-positive interval uses DefaultInterval.
func NewCountdown(interval time.Duration) *Countdown {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Countdown{
		interval: interval,
		status:   CountdownStatus{Phase: CountdownIdle},
	}
}

// OnChange registers a callback invoked after every tick or transition, outside the lock
func (c *Countdown) OnChange(fn func(CountdownStatus)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Status returns the current state
func (c *Countdown) Status() CountdownStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Start begins a countdown from seconds, cancelling any countdown in progress
func (c *Countdown) Start(seconds int) {
	c.mu.Lock()
	prev := c.run
	c.run = nil
	c.gen++
	if seconds <= 0 {
		c.status = CountdownStatus{Phase: CountdownIdle}
	} else {
		c.status = CountdownStatus{Phase: CountdownRunning, Duration: seconds, Remaining: seconds}
		gen := c.gen
		c.run = startRunner(c.interval, func() bool { return c.step(gen) })
	}
	st, cb := c.status, c.onChange
	c.mu.Unlock()
	prev.halt()
	if cb != nil {
		cb(st)
	}
}

// Add extends a running or finished countdown. A finished countdown resumes running.
// Returns false when the countdown is idle.
func (c *Countdown) Add(delta int) bool {
	c.mu.Lock()
	if c.status.Phase == CountdownIdle || delta <= 0 {
		c.mu.Unlock()
		return false
	}
	c.status.Duration += delta
	c.status.Remaining += delta
	c.status.Phase = CountdownRunning
	c.status.Grace = 0
	st, cb := c.status, c.onChange
	c.mu.Unlock()
	if cb != nil {
		cb(st)
	}
	return true
}

// Dismiss forces the countdown idle and cancels any pending auto-clear
func (c *Countdown) Dismiss() {
	c.halt(true)
}

// Stop cancels the countdown without notifying observers. Safe to call repeatedly.
func (c *Countdown) Stop() {
	c.halt(false)
}

// Running reports whether a countdown goroutine is active
func (c *Countdown) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.run != nil
}

// Tick advances the countdown by one second synchronously
func (c *Countdown) Tick() CountdownStatus {
	c.mu.Lock()
	st, changed := c.advanceLocked()
	cb := c.onChange
	c.mu.Unlock()
	if changed && cb != nil {
		cb(st)
	}
	return st
}

func (c *Countdown) halt(notify bool) {
	c.mu.Lock()
	prev := c.run
	c.run = nil
	c.gen++
	wasIdle := c.status.Phase == CountdownIdle
	c.status = CountdownStatus{Phase: CountdownIdle}
	st, cb := c.status, c.onChange
	c.mu.Unlock()
	prev.halt()
	if notify && !wasIdle && cb != nil {
		cb(st)
	}
}

func (c *Countdown) step(gen int) bool {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return false
	}
	st, changed := c.advanceLocked()
	if st.Phase == CountdownIdle {
		c.run = nil
	}
	cb := c.onChange
	c.mu.Unlock()
	if changed && cb != nil {
		cb(st)
	}
	return st.Phase != CountdownIdle
}

func (c *Countdown) advanceLocked() (CountdownStatus, bool) {
	switch c.status.Phase {
	case CountdownRunning:
		c.status.Remaining--
		if c.status.Remaining <= 0 {
			c.status.Remaining = 0
			c.status.Phase = CountdownFinished
			c.status.Grace = GraceTicks
		}
		return c.status, true
	case CountdownFinished:
		c.status.Grace--
		if c.status.Grace <= 0 {
			c.status = CountdownStatus{Phase: CountdownIdle}
		}
		return c.status, true
	}
	return c.status, false
}
