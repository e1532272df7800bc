package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// TestMain fails the package if any ticker goroutine outlives its test
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const fastTick = 5 * time.Millisecond

func TestElapsed_TickAndStart(t *testing.T) {
	e := NewElapsed(time.Hour)
	assert.Equal(t, 0, e.Seconds())
	assert.Equal(t, 1, e.Tick())
	assert.Equal(t, 2, e.Tick())

	e.Start(245)
	assert.True(t, e.Running())
	assert.Equal(t, 245, e.Seconds())
	e.Stop()
	assert.False(t, e.Running())
	assert.Equal(t, 245, e.Seconds())
}

func TestElapsed_CountsInBackground(t *testing.T) {
	e := NewElapsed(fastTick)
	ticks := make(chan int, 100)
	e.OnTick(func(s int) { ticks <- s })

	e.Start(10)
	defer e.Stop()

	require.Eventually(t, func() bool { return e.Seconds() >= 13 }, time.Second, fastTick)
	assert.Equal(t, 11, <-ticks)
}

func TestElapsed_StopIsIdempotent(t *testing.T) {
	e := NewElapsed(fastTick)
	e.Stop()
	e.Start(0)
	e.Stop()
	e.Stop()
	frozen := e.Seconds()
	time.Sleep(4 * fastTick)
	assert.Equal(t, frozen, e.Seconds())
}

func TestElapsed_NegativeStartClampsToZero(t *testing.T) {
	e := NewElapsed(time.Hour)
	e.Start(-5)
	defer e.Stop()
	assert.Equal(t, 0, e.Seconds())
}

func TestCountdown_TickLifecycle(t *testing.T) {
	c := NewCountdown(time.Hour)
	c.Start(2)
	defer c.Stop()

	assert.Equal(t, CountdownStatus{Phase: CountdownRunning, Duration: 2, Remaining: 2}, c.Status())
	assert.Equal(t, 1, c.Tick().Remaining)

	st := c.Tick()
	assert.Equal(t, CountdownFinished, st.Phase)
	assert.Equal(t, GraceTicks, st.Grace)

	c.Tick()
	c.Tick()
	st = c.Tick()
	assert.Equal(t, CountdownIdle, st.Phase)
}

func TestCountdown_AddRevivesFinished(t *testing.T) {
	c := NewCountdown(time.Hour)
	c.Start(1)
	defer c.Stop()
	c.Tick()
	require.Equal(t, CountdownFinished, c.Status().Phase)

	assert.True(t, c.Add(30))
	st := c.Status()
	assert.Equal(t, CountdownRunning, st.Phase)
	assert.Equal(t, 31, st.Duration)
	assert.Equal(t, 30, st.Remaining)
	assert.Equal(t, 0, st.Grace)
}

func TestCountdown_AddOnIdleIsRejected(t *testing.T) {
	c := NewCountdown(time.Hour)
	assert.False(t, c.Add(30))
	assert.Equal(t, CountdownIdle, c.Status().Phase)
}

func TestCountdown_StartReplacesRunningCountdown(t *testing.T) {
	c := NewCountdown(time.Hour)
	c.Start(60)
	c.Start(90)
	defer c.Stop()

	st := c.Status()
	assert.Equal(t, 90, st.Duration)
	assert.Equal(t, 90, st.Remaining)
	assert.True(t, c.Running())
}

func TestCountdown_ExpiresAndClearsInBackground(t *testing.T) {
	c := NewCountdown(fastTick)
	phases := make(chan string, 100)
	c.OnChange(func(st CountdownStatus) { phases <- st.Phase })

	c.Start(2)
	require.Eventually(t, func() bool { return !c.Running() }, time.Second, fastTick)
	assert.Equal(t, CountdownIdle, c.Status().Phase)

	seen := map[string]bool{}
	for len(phases) > 0 {
		seen[<-phases] = true
	}
	assert.True(t, seen[CountdownRunning])
	assert.True(t, seen[CountdownFinished])
	assert.True(t, seen[CountdownIdle])
}

func TestCountdown_DismissCancelsGrace(t *testing.T) {
	c := NewCountdown(time.Hour)
	var last CountdownStatus
	c.OnChange(func(st CountdownStatus) { last = st })

	c.Start(1)
	c.Tick()
	require.Equal(t, CountdownFinished, c.Status().Phase)

	c.Dismiss()
	assert.Equal(t, CountdownIdle, c.Status().Phase)
	assert.Equal(t, CountdownIdle, last.Phase)
	assert.False(t, c.Running())
}

func TestCountdown_StartWithZeroStaysIdle(t *testing.T) {
	c := NewCountdown(time.Hour)
	c.Start(0)
	assert.Equal(t, CountdownIdle, c.Status().Phase)
	assert.False(t, c.Running())
}
