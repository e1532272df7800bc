package clock

import (
	"sync"
	"time"
)

// DefaultInterval is the tick period of both counters
const DefaultInterval = time.Second

// GraceTicks is how long a finished countdown stays visible before clearing itself
const GraceTicks = 3

// Elapsed is a second-granularity counter incremented once per tick while running
type Elapsed struct {
	mu       sync.Mutex
	interval time.Duration
	seconds  int
	gen      int
	run      *runner
	onTick   func(seconds int)
}

// NewElapsed creates a stopped counter. A non-positive interval uses DefaultInterval.
func NewElapsed(interval time.Duration) *Elapsed {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Elapsed{interval: interval}
}

// OnTick registers a callback invoked after every increment, outside the lock
func (e *Elapsed) OnTick(fn func(seconds int)) {
	e.mu.Lock()
	e.onTick = fn
	e.mu.Unlock()
}

// Start begins counting from the given value, replacing any running counter
func (e *Elapsed) Start(from int) {
	if from < 0 {
		from = 0
	}
	e.mu.Lock()
	prev := e.run
	e.gen++
	gen := e.gen
	e.seconds = from
	e.run = startRunner(e.interval, func() bool { return e.advance(gen) })
	e.mu.Unlock()
	prev.halt()
}

// Stop halts counting and keeps the current value. Safe to call repeatedly.
func (e *Elapsed) Stop() {
	e.mu.Lock()
	prev := e.run
	e.run = nil
	e.gen++
	e.mu.Unlock()
	prev.halt()
}

// Set overwrites the value without starting the counter
func (e *Elapsed) Set(seconds int) {
	if seconds < 0 {
		seconds = 0
	}
	e.mu.Lock()
	e.seconds = seconds
	e.mu.Unlock()
}

// Running reports whether the background counter is active
func (e *Elapsed) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.run != nil
}

// Seconds returns the current elapsed value
func (e *Elapsed) Seconds() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seconds
}

// Tick advances the counter by one second synchronously
func (e *Elapsed) Tick() int {
	e.mu.Lock()
	e.seconds++
	s, cb := e.seconds, e.onTick
	e.mu.Unlock()
	if cb != nil {
		cb(s)
	}
	return s
}

func (e *Elapsed) advance(gen int) bool {
	e.mu.Lock()
	if gen != e.gen {
		e.mu.Unlock()
		return false
	}
	e.seconds++
	s, cb := e.seconds, e.onTick
	e.mu.Unlock()
	if cb != nil {
		cb(s)
	}
	return true
}
