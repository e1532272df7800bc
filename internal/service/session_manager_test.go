package service

import (
	"context"
	"testing"

	"github.com/mansoorceksport/repflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(env *testEnv) *SessionManager {
	return NewSessionManager(env.definitions, env.store, env.history, env.sync, env.cfg)
}

func TestSessionManager_StartReturnsLiveController(t *testing.T) {
	env := newTestEnv()
	m := newTestManager(env)
	ctx := context.Background()
	defer func() { _ = m.Shutdown(ctx) }()

	first, err := m.Start(ctx, "alice", "push-day", ResumeAsk)
	require.NoError(t, err)
	second, err := m.Start(ctx, "alice", "push-day", ResumeAsk)
	require.NoError(t, err)
	assert.Same(t, first, second)

	other, err := m.Start(ctx, "bob", "push-day", ResumeAsk)
	require.NoError(t, err)
	assert.NotSame(t, first, other)
	assert.Equal(t, 2, m.Len())

	got, err := m.Get("alice", "push-day")
	require.NoError(t, err)
	assert.Same(t, first, got)

	_, err = m.Get("carol", "push-day")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionManager_StartErrorsAreNotRegistered(t *testing.T) {
	env := newTestEnv()
	m := newTestManager(env)
	ctx := context.Background()

	_, err := m.Start(ctx, "alice", "missing", ResumeAsk)
	var loadErr *domain.DefinitionLoadError
	assert.ErrorAs(t, err, &loadErr)
	assert.Zero(t, m.Len())
}

func TestSessionManager_CloseThenResume(t *testing.T) {
	env := newTestEnv()
	m := newTestManager(env)
	ctx := context.Background()
	defer func() { _ = m.Shutdown(ctx) }()

	c, err := m.Start(ctx, "alice", "push-day", ResumeAsk)
	require.NoError(t, err)
	logSet(t, c, 0, 0, 60, 10)
	sessionID := c.View().Session.ID

	require.NoError(t, m.Close(ctx, "alice", "push-day"))
	assert.ErrorIs(t, m.Close(ctx, "alice", "push-day"), domain.ErrSessionNotFound)

	// snapshots are scoped per user
	_, err = m.Start(ctx, "bob", "push-day", ResumeAsk)
	require.NoError(t, err)

	_, err = m.Start(ctx, "alice", "push-day", ResumeAsk)
	var resumeErr *domain.ResumeAvailableError
	require.ErrorAs(t, err, &resumeErr)
	assert.Equal(t, sessionID, resumeErr.Snapshot.Session.ID)

	resumed, err := m.Start(ctx, "alice", "push-day", ResumeContinue)
	require.NoError(t, err)
	assert.Equal(t, sessionID, resumed.View().Session.ID)
}

func TestSessionManager_SubmittedSessionIsReplaced(t *testing.T) {
	env := newTestEnv()
	m := newTestManager(env)
	ctx := context.Background()
	defer func() { _ = m.Shutdown(ctx) }()

	c, err := m.Start(ctx, "alice", "full-body", ResumeAsk)
	require.NoError(t, err)
	logSet(t, c, 0, 0, 100, 5)
	require.NoError(t, c.FinishEarly(ctx, true))
	_, err = c.Submit(ctx)
	require.NoError(t, err)

	next, err := m.Start(ctx, "alice", "full-body", ResumeAsk)
	require.NoError(t, err)
	assert.NotSame(t, c, next)
	assert.Equal(t, StateActive, next.State())
}

func TestSessionManager_StartHonoursChoiceForLiveController(t *testing.T) {
	ctx := context.Background()

	start := func(t *testing.T) (*testEnv, *SessionManager, *SessionController) {
		env := newTestEnv()
		m := newTestManager(env)
		t.Cleanup(func() { _ = m.Shutdown(ctx) })
		c, err := m.Start(ctx, "alice", "push-day", ResumeAsk)
		require.NoError(t, err)
		logSet(t, c, 0, 0, 60, 10)
		return env, m, c
	}

	t.Run("ask reports live progress", func(t *testing.T) {
		_, m, live := start(t)

		_, err := m.Start(ctx, "alice", "push-day", ResumeAsk)
		var resumeErr *domain.ResumeAvailableError
		require.ErrorAs(t, err, &resumeErr)
		assert.Equal(t, live.View().Session.ID, resumeErr.Snapshot.Session.ID)
		done, _ := resumeErr.Snapshot.Session.SetCounts()
		assert.Equal(t, 1, done)

		// still running, untouched
		got, err := m.Get("alice", "push-day")
		require.NoError(t, err)
		assert.Same(t, live, got)
		assert.Equal(t, StateActive, live.State())
	})

	t.Run("continue returns the live controller", func(t *testing.T) {
		_, m, live := start(t)

		got, err := m.Start(ctx, "alice", "push-day", ResumeContinue)
		require.NoError(t, err)
		assert.Same(t, live, got)
		done, _ := got.View().Session.SetCounts()
		assert.Equal(t, 1, done)
	})

	t.Run("fresh discards the live session", func(t *testing.T) {
		env, m, live := start(t)
		oldID := live.View().Session.ID

		fresh, err := m.Start(ctx, "alice", "push-day", ResumeStartFresh)
		require.NoError(t, err)
		assert.NotSame(t, live, fresh)
		assert.NotEqual(t, oldID, fresh.View().Session.ID)
		done, _ := fresh.View().Session.SetCounts()
		assert.Zero(t, done)

		assert.ErrorIs(t, live.UpdateField(ctx, 0, 1, "weight", 70), domain.ErrSessionClosed)

		snap, err := env.store.ForUser("alice").Load(ctx, "push-day")
		require.NoError(t, err)
		assert.Nil(t, snap, "the discarded session is no longer resumable")

		got, err := m.Get("alice", "push-day")
		require.NoError(t, err)
		assert.Same(t, fresh, got)
	})

	t.Run("ask offers a completed session awaiting submission", func(t *testing.T) {
		env := newTestEnv()
		m := newTestManager(env)
		t.Cleanup(func() { _ = m.Shutdown(ctx) })
		c, err := m.Start(ctx, "alice", "full-body", ResumeAsk)
		require.NoError(t, err)
		logSet(t, c, 0, 0, 100, 5)
		require.NoError(t, c.FinishEarly(ctx, true))

		_, err = m.Start(ctx, "alice", "full-body", ResumeAsk)
		var resumeErr *domain.ResumeAvailableError
		require.ErrorAs(t, err, &resumeErr)
		assert.True(t, resumeErr.Snapshot.PendingSubmit())
	})
}
