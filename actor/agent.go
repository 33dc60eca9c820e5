package actor

import (
	"context"
	"errors"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/actormesh/core"
	"github.com/hupe1980/actormesh/logging"
)

// Handler processes one message. ctx is cancelled when the agent is aborted
// or forcibly terminated; handlers doing blocking work must honor it.
type Handler[M any] func(ctx context.Context, msg M) error

// SelfHandler is the reply-capable handler shape: self delivers into the
// handling agent's own mailbox, so it can be embedded in replies.
type SelfHandler[M any] func(ctx context.Context, self Sender[M], msg M) error

// Options configures an agent at spawn time.
type Options struct {
	// Logger receives lifecycle and handler failure entries. Defaults to a NoOpLogger.
	Logger logging.Logger

	// Context is the parent of the worker context. Cancelling it aborts the
	// agent. Defaults to context.Background().
	Context context.Context
}

// Agent is a running actor accepting messages of type M.
//
// The worker goroutine is the only code that dequeues from the mailbox or
// invokes the handler. Terminate and Abort are one-shot: whichever runs
// first decides the shutdown protocol and later calls only observe it.
type Agent[M any] struct {
	id     uuid.UUID
	name   string
	logger logging.Logger

	mailbox *mailbox[M]
	cancel  context.CancelFunc
	done    chan struct{}

	// exit is written by the worker before done is closed.
	exit core.ExitStatus

	shutdown sync.Once
}

var _ core.Actor[any] = (*Agent[any])(nil)

// Spawn starts an agent with the given handler and returns immediately.
// A uuid.Nil id is replaced by a generated one; an empty name means the
// agent is unnamed.
func Spawn[M any](id uuid.UUID, name string, handler Handler[M], optFns ...func(o *Options)) *Agent[M] {
	if handler == nil {
		panic("actor: nil handler")
	}
	return SpawnWithSelf(id, name, func(ctx context.Context, _ Sender[M], msg M) error {
		return handler(ctx, msg)
	}, optFns...)
}

// SpawnWithSelf is Spawn for handlers that need a Sender to their own mailbox.
func SpawnWithSelf[M any](id uuid.UUID, name string, handler SelfHandler[M], optFns ...func(o *Options)) *Agent[M] {
	if handler == nil {
		panic("actor: nil handler")
	}

	opts := Options{
		Logger:  logging.NoOpLogger{},
		Context: context.Background(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}

	id = core.IDOrNew(id)
	ctx, cancel := context.WithCancel(opts.Context)

	a := &Agent[M]{
		id:      id,
		name:    name,
		logger:  logging.With(logging.OrNoOp(opts.Logger), "agent_id", id.String(), "agent_name", name),
		mailbox: newMailbox[M](),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	go a.run(ctx, handler)
	return a
}

// ID returns the agent's identifier.
func (a *Agent[M]) ID() uuid.UUID { return a.id }

// Name returns the agent's display name ("" when unnamed).
func (a *Agent[M]) Name() string { return a.name }

// Sender returns a new handle to the agent's mailbox.
func (a *Agent[M]) Sender() Sender[M] { return Sender[M]{mb: a.mailbox} }

// Send enqueues msg into the agent's mailbox.
func (a *Agent[M]) Send(msg M) error { return a.Sender().Send(msg) }

// Pending returns the number of queued, not yet dequeued messages.
func (a *Agent[M]) Pending() int { return a.mailbox.len() }

// Done is closed once the worker goroutine has returned.
func (a *Agent[M]) Done() <-chan struct{} { return a.done }

// Wait blocks until the worker has returned or ctx is done.
func (a *Agent[M]) Wait(ctx context.Context) (core.ExitStatus, error) {
	select {
	case <-a.done:
		return a.exit, nil
	case <-ctx.Done():
		return core.ExitStatus{}, ctx.Err()
	}
}

// CancelWait is how long Terminate keeps waiting after it cancels a worker
// whose grace period ran out. Handlers that honor ctx return within it and
// report their own status; a handler still running afterwards is abandoned.
const CancelWait = 100 * time.Millisecond

// Terminate stops the agent gracefully:
//
//  1. the mailbox is closed, so every further Send fails
//  2. the worker gets up to GracePeriod() to drain the queued messages
//  3. if the grace period or ctx elapses first, the worker is cancelled and
//     whatever is still queued is dropped
//
// Terminate blocks for at most GracePeriod() plus CancelWait. A handler that
// ignores cancellation is not waited for: Terminate then reports Forced with
// the drops known at that point, and Done stays open until the handler
// returns.
func (a *Agent[M]) Terminate(ctx context.Context) core.ExitStatus {
	a.shutdown.Do(func() {
		a.mailbox.close()

		grace := GracePeriod()
		timer := time.NewTimer(grace)
		defer timer.Stop()

		select {
		case <-a.done:
		case <-timer.C:
			a.logger.Warn("grace period elapsed; cancelling agent", "grace_period", grace, "pending", a.mailbox.len())
			a.cancel()
		case <-ctx.Done():
			a.logger.Warn("terminate context done; cancelling agent", "error", ctx.Err())
			a.cancel()
		}
	})

	select {
	case <-a.done:
		a.logger.Debug("agent stopped (terminated)", "status", a.exit.String())
		return a.exit
	default:
	}

	waitCtx, cancel := context.WithTimeout(ctx, CancelWait)
	defer cancel()

	status, err := a.Wait(waitCtx)
	if err != nil {
		a.logger.Warn("handler ignored cancellation; abandoning it", "cancel_wait", CancelWait)
		return core.ExitStatus{Forced: true, Dropped: a.mailbox.stop()}
	}

	a.logger.Debug("agent stopped (terminated)", "status", status.String())
	return status
}

// Abort cancels the worker immediately without draining. Queued messages are
// discarded and Send fails from now on; a handler that is already running may
// or may not complete. Abort does not wait; use Done or Wait to observe the
// worker returning.
func (a *Agent[M]) Abort() {
	a.shutdown.Do(func() {
		a.mailbox.stop()
		a.cancel()
		a.logger.Debug("agent stopped (aborted)")
	})
}

func (a *Agent[M]) run(ctx context.Context, handler SelfHandler[M]) {
	defer close(a.done)
	defer a.cancel()

	a.logger.Debug("agent starting")

	self := a.Sender()
	var err error
	for {
		msg, ok := a.mailbox.receive(ctx)
		if !ok {
			break
		}

		a.logger.Debug("agent received message", "message", msg)

		if err = a.invoke(ctx, handler, self, msg); err != nil {
			break
		}
	}

	// A handler returning the cancellation cause is not a handler failure.
	if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		err = nil
	}
	if err != nil {
		a.logger.Error("agent handler failed", "error", err)
	}

	a.exit = core.ExitStatus{
		Forced:  ctx.Err() != nil,
		Dropped: a.mailbox.stop(),
		Err:     err,
	}

	a.logger.Debug("agent stopping", "dropped", a.exit.Dropped)
}

func (a *Agent[M]) invoke(ctx context.Context, handler SelfHandler[M], self Sender[M], msg M) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return handler(ctx, self, msg)
}
