package core

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Lifecycle is the part of the actor contract that does not depend on the
// message type. The engine manages heterogeneous agents through it.
//
// Implementations must:
//   - Return a stable ID and Name for their whole lifetime
//   - Make Terminate and Abort one-shot; later calls return the first outcome
//   - Never block in Abort
type Lifecycle interface {
	ID() uuid.UUID
	Name() string
	Terminate(ctx context.Context) ExitStatus
	Abort()
}

// Actor is the full capability set of an agent accepting messages of type M.
type Actor[M any] interface {
	Lifecycle
	Send(msg M) error
}

// ExitStatus describes how an agent's worker stopped.
type ExitStatus struct {
	// Forced is set when the worker had to be cancelled, either because the
	// grace period elapsed during Terminate or because the agent was aborted.
	Forced bool
	// Dropped counts queued messages that were never handed to the handler.
	Dropped int
	// Err is the handler error (or recovered panic) that ended the worker.
	Err error
}

// Clean reports whether the worker drained its mailbox and exited without error.
func (s ExitStatus) Clean() bool {
	return !s.Forced && s.Dropped == 0 && s.Err == nil
}

// String renders the status for logs.
func (s ExitStatus) String() string {
	if s.Err != nil {
		return fmt.Sprintf("forced=%t dropped=%d err=%v", s.Forced, s.Dropped, s.Err)
	}
	return fmt.Sprintf("forced=%t dropped=%d", s.Forced, s.Dropped)
}
