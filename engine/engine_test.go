package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/actormesh/actor"
	"github.com/hupe1980/actormesh/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockLifecycle stands in for any agent the engine manages.
type MockLifecycle struct {
	mock.Mock
	id   uuid.UUID
	name string
}

func NewMockLifecycle(name string) *MockLifecycle {
	return &MockLifecycle{id: uuid.New(), name: name}
}

func (m *MockLifecycle) ID() uuid.UUID { return m.id }

func (m *MockLifecycle) Name() string { return m.name }

func (m *MockLifecycle) Terminate(ctx context.Context) core.ExitStatus {
	args := m.Called(ctx)
	return args.Get(0).(core.ExitStatus)
}

func (m *MockLifecycle) Abort() { m.Called() }

func noop[M any](context.Context, M) error { return nil }

func TestEngine_RegisterAndLookup(t *testing.T) {
	eng := New()
	a := actor.Spawn(uuid.Nil, "a", noop[string])
	b := actor.Spawn(uuid.Nil, "b", noop[int])
	defer eng.AbortAll()

	require.NoError(t, eng.Register(a))
	require.NoError(t, eng.Register(b))
	assert.ErrorIs(t, eng.Register(a), ErrDuplicateAgent)
	assert.Equal(t, 2, eng.Len())

	got, ok := eng.Lookup(b.ID())
	require.True(t, ok)
	assert.Equal(t, "b", got.Name())

	got, ok = eng.LookupName("a")
	require.True(t, ok)
	assert.Equal(t, a.ID(), got.ID())

	_, ok = eng.LookupName("missing")
	assert.False(t, ok)

	agents := eng.Agents()
	require.Len(t, agents, 2)
	assert.Equal(t, a.ID(), agents[0].ID())
}

func TestEngine_ShutdownTerminatesEveryAgent(t *testing.T) {
	var (
		mu      sync.Mutex
		stopped []string
	)
	eng := New(func(o *Options) {
		o.OnStop = func(a core.Lifecycle, _ core.ExitStatus) {
			mu.Lock()
			stopped = append(stopped, a.Name())
			mu.Unlock()
		}
	})

	boom := errors.New("boom")
	ok := actor.Spawn(uuid.Nil, "ok", noop[string])
	failing := actor.Spawn(uuid.Nil, "failing", func(context.Context, string) error { return boom })

	require.NoError(t, eng.Register(ok))
	require.NoError(t, eng.Register(failing))
	require.NoError(t, ok.Send("x"))
	require.NoError(t, failing.Send("x"))

	statuses := eng.Shutdown(context.Background())
	require.Len(t, statuses, 2)
	assert.True(t, statuses[ok.ID()].Clean())
	assert.ErrorIs(t, statuses[failing.ID()].Err, boom)

	assert.Equal(t, 0, eng.Len())
	assert.ElementsMatch(t, []string{"ok", "failing"}, stopped)
	assert.ErrorIs(t, ok.Send("late"), actor.ErrAgentStopped)
}

func TestEngine_ShutdownOverlapsGracePeriods(t *testing.T) {
	t.Setenv(actor.GracePeriodEnvVar, "1")

	eng := New()
	for i := 0; i < 3; i++ {
		a := actor.Spawn(uuid.Nil, "slow", func(ctx context.Context, _ int) error {
			<-ctx.Done()
			return ctx.Err()
		})
		require.NoError(t, a.Send(i))
		require.NoError(t, eng.Register(a))
	}

	start := time.Now()
	statuses := eng.Shutdown(context.Background())
	assert.Less(t, time.Since(start), 2500*time.Millisecond)

	for _, s := range statuses {
		assert.True(t, s.Forced)
	}
}

func TestEngine_TerminateOne(t *testing.T) {
	eng := New()
	a := actor.Spawn(uuid.Nil, "a", noop[string])
	require.NoError(t, eng.Register(a))

	status, err := eng.Terminate(context.Background(), a.ID())
	require.NoError(t, err)
	assert.True(t, status.Clean())
	assert.Equal(t, 0, eng.Len())

	_, err = eng.Terminate(context.Background(), a.ID())
	assert.ErrorIs(t, err, ErrUnknownAgent)
}

func TestEngine_AbortAllAndDeregister(t *testing.T) {
	eng := New()
	a := actor.Spawn(uuid.Nil, "a", noop[string])
	kept := actor.Spawn(uuid.Nil, "kept", noop[string])
	defer kept.Abort()

	require.NoError(t, eng.Register(a))
	require.NoError(t, eng.Register(kept))

	got, ok := eng.Deregister(kept.ID())
	require.True(t, ok)
	assert.Equal(t, kept.ID(), got.ID())
	_, ok = eng.Deregister(kept.ID())
	assert.False(t, ok)

	eng.AbortAll()
	assert.Equal(t, 0, eng.Len())

	select {
	case <-a.Done():
	case <-time.After(time.Second):
		t.Fatal("aborted agent did not stop")
	}
	assert.NoError(t, kept.Send("still running"))
}

func TestEngine_ReportsStatusFromAnyLifecycle(t *testing.T) {
	eng := New()
	dirty := NewMockLifecycle("dirty")
	dirty.On("Terminate", mock.Anything).Return(core.ExitStatus{Forced: true, Dropped: 2}).Once()
	aborted := NewMockLifecycle("aborted")
	aborted.On("Abort").Return().Once()

	require.NoError(t, eng.Register(dirty))
	statuses := eng.Shutdown(context.Background())
	assert.Equal(t, core.ExitStatus{Forced: true, Dropped: 2}, statuses[dirty.ID()])

	require.NoError(t, eng.Register(aborted))
	eng.AbortAll()

	dirty.AssertExpectations(t)
	aborted.AssertExpectations(t)
	aborted.AssertNotCalled(t, "Terminate", mock.Anything)
}
