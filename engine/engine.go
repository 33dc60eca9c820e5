package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/hupe1980/actormesh/core"
	"github.com/hupe1980/actormesh/logging"
)

var (
	// ErrDuplicateAgent is returned when an agent id is registered twice.
	ErrDuplicateAgent = errors.New("agent already registered")

	// ErrUnknownAgent is returned when no agent is registered under an id.
	ErrUnknownAgent = errors.New("unknown agent")
)

// StopHook observes an agent that the engine terminated.
type StopHook func(a core.Lifecycle, status core.ExitStatus)

// Options configures an Engine instance using the functional options pattern.
type Options struct {
	// Logger provides structured logging for shutdown outcomes.
	// Defaults to NoOp logger if nil to ensure no logging dependencies.
	Logger logging.Logger

	// OnStop, when set, is called once per agent terminated by the engine,
	// from the goroutine that terminated it.
	OnStop StopHook
}

// Engine owns the lifecycle of a set of running agents.
//
// Concurrency Model:
//   - Thread-safe registration and lookup via RWMutex
//   - Per-agent goroutines during Shutdown so grace periods overlap
//     instead of adding up
type Engine struct {
	logger logging.Logger
	onStop StopHook

	// Agent registry - protected by mutex for thread-safe access
	agents map[uuid.UUID]core.Lifecycle
	order  []uuid.UUID
	mu     sync.RWMutex
}

// New creates a new Engine with sensible defaults and optional configuration.
//
// Examples:
//
//	// Minimal setup with all defaults
//	eng := New()
//
//	// Log every forced or failed shutdown
//	eng := New(func(o *Options) {
//	    o.Logger = logging.NewSlogLogger(logging.LogLevelInfo, "text", os.Stderr)
//	})
func New(optFns ...func(o *Options)) *Engine {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Engine{
		logger: logging.OrNoOp(opts.Logger),
		onStop: opts.OnStop,
		agents: make(map[uuid.UUID]core.Lifecycle),
	}
}

// Register adds a running agent to the registry. The engine becomes
// responsible for stopping it on Shutdown or AbortAll.
func (e *Engine) Register(a core.Lifecycle) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.agents[a.ID()]; ok {
		return fmt.Errorf("register %q (%s): %w", a.Name(), a.ID(), ErrDuplicateAgent)
	}
	e.agents[a.ID()] = a
	e.order = append(e.order, a.ID())

	e.logger.Debug("agent registered", "agent_id", a.ID().String(), "agent_name", a.Name())
	return nil
}

// Lookup retrieves a registered agent by id.
func (e *Engine) Lookup(id uuid.UUID) (core.Lifecycle, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	a, ok := e.agents[id]
	return a, ok
}

// LookupName retrieves the earliest registered agent with the given name.
func (e *Engine) LookupName(name string) (core.Lifecycle, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, id := range e.order {
		if a := e.agents[id]; a.Name() == name {
			return a, true
		}
	}
	return nil, false
}

// Agents returns the registered agents in registration order.
func (e *Engine) Agents() []core.Lifecycle {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]core.Lifecycle, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.agents[id])
	}
	return out
}

// Len returns the number of registered agents.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.agents)
}

// Deregister removes an agent without stopping it; the caller takes the
// lifecycle responsibility back.
func (e *Engine) Deregister(id uuid.UUID) (core.Lifecycle, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.removeLocked(id)
}

// Terminate gracefully stops one registered agent and removes it.
func (e *Engine) Terminate(ctx context.Context, id uuid.UUID) (core.ExitStatus, error) {
	e.mu.Lock()
	a, ok := e.removeLocked(id)
	e.mu.Unlock()

	if !ok {
		return core.ExitStatus{}, fmt.Errorf("terminate %s: %w", id, ErrUnknownAgent)
	}
	return e.terminate(ctx, a), nil
}

// Shutdown terminates every registered agent concurrently and empties the
// registry. It returns one status per agent id.
func (e *Engine) Shutdown(ctx context.Context) map[uuid.UUID]core.ExitStatus {
	agents := e.detach()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		statuses = make(map[uuid.UUID]core.ExitStatus, len(agents))
	)
	for _, a := range agents {
		wg.Add(1)
		go func(a core.Lifecycle) {
			defer wg.Done()
			status := e.terminate(ctx, a)

			mu.Lock()
			statuses[a.ID()] = status
			mu.Unlock()
		}(a)
	}
	wg.Wait()

	e.logger.Info("engine shut down", "agents", len(agents))
	return statuses
}

// AbortAll aborts every registered agent without waiting and empties the registry.
func (e *Engine) AbortAll() {
	for _, a := range e.detach() {
		a.Abort()
		e.logger.Debug("agent aborted", "agent_id", a.ID().String(), "agent_name", a.Name())
	}
}

func (e *Engine) terminate(ctx context.Context, a core.Lifecycle) core.ExitStatus {
	status := a.Terminate(ctx)

	args := []any{"agent_id", a.ID().String(), "agent_name", a.Name(), "forced", status.Forced, "dropped", status.Dropped}
	switch {
	case status.Err != nil:
		e.logger.Error("agent stopped with handler error", append(args, "error", status.Err)...)
	case !status.Clean():
		e.logger.Warn("agent stopped before draining its mailbox", args...)
	default:
		e.logger.Debug("agent terminated", args...)
	}

	if e.onStop != nil {
		e.onStop(a, status)
	}
	return status
}

func (e *Engine) detach() []core.Lifecycle {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]core.Lifecycle, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.agents[id])
	}
	e.agents = make(map[uuid.UUID]core.Lifecycle)
	e.order = nil
	return out
}

// removeLocked deletes id from the registry; caller must hold the write lock.
func (e *Engine) removeLocked(id uuid.UUID) (core.Lifecycle, bool) {
	a, ok := e.agents[id]
	if !ok {
		return nil, false
	}
	delete(e.agents, id)
	for i, oid := range e.order {
		if oid == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	return a, true
}
