package rest

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestScheduler_StateMachine(t *testing.T) {
	s := NewScheduler(time.Hour)
	defer s.Stop()

	assert.Equal(t, StateIdle, s.Status().State)

	s.Start(2)
	assert.Equal(t, Status{State: StateRunning, Duration: 2, Remaining: 2}, s.Status())

	s.Tick()
	st := s.Tick()
	assert.Equal(t, StateExpired, st.State)
	assert.Equal(t, 3, st.Grace)

	s.Tick()
	s.Tick()
	assert.Equal(t, StateIdle, s.Tick().State)
}

func TestScheduler_StartReplacesInsteadOfStacking(t *testing.T) {
	s := NewScheduler(time.Hour)
	defer s.Stop()

	s.Start(60)
	s.Tick()
	s.Start(90)

	st := s.Status()
	assert.Equal(t, 90, st.Duration)
	assert.Equal(t, 90, st.Remaining)

	// one tick decrements once: a stacked countdown would decrement twice
	assert.Equal(t, 89, s.Tick().Remaining)
}

func TestScheduler_ExtendRunningAndExpired(t *testing.T) {
	s := NewScheduler(time.Hour)
	defer s.Stop()

	s.Start(60)
	require.True(t, s.Extend(ExtendStep))
	st := s.Status()
	assert.Equal(t, 90, st.Duration)
	assert.Equal(t, 90, st.Remaining)

	s.Start(1)
	s.Tick()
	require.Equal(t, StateExpired, s.Status().State)
	require.True(t, s.Extend(ExtendStep))
	st = s.Status()
	assert.Equal(t, StateRunning, st.State)
	assert.Equal(t, 31, st.Duration)
	assert.Equal(t, 30, st.Remaining)
}

func TestScheduler_ExtendIdleIsNoop(t *testing.T) {
	s := NewScheduler(time.Hour)
	assert.False(t, s.Extend(ExtendStep))
	assert.Equal(t, StateIdle, s.Status().State)
}

func TestScheduler_SkipNotifiesIdle(t *testing.T) {
	s := NewScheduler(time.Hour)
	var mu sync.Mutex
	var states []string
	s.OnChange(func(st Status) {
		mu.Lock()
		states = append(states, st.State)
		mu.Unlock()
	})

	s.Start(60)
	s.Skip()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{StateRunning, StateIdle}, states)
	assert.False(t, s.Active())
}

func TestScheduler_AutoExpiresInBackground(t *testing.T) {
	s := NewScheduler(2 * time.Millisecond)
	s.Start(3)
	require.Eventually(t, func() bool { return !s.Active() }, time.Second, 2*time.Millisecond)
	assert.Equal(t, StateIdle, s.Status().State)
}
