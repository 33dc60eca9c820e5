package actor

import (
	"errors"
	"fmt"
)

var (
	// ErrAgentStopped is matched (errors.Is) by every delivery error.
	ErrAgentStopped = errors.New("agent stopped")

	// ErrAlreadyRegistered is returned when a Directory already holds an id.
	ErrAlreadyRegistered = errors.New("agent already registered")

	// ErrNotFound is returned when a Directory has no entry for an id.
	ErrNotFound = errors.New("agent not found")
)

// SendError is returned when a message cannot be delivered because the
// target mailbox no longer accepts messages. Message holds the undelivered
// message so the caller keeps ownership of it.
type SendError[M any] struct {
	Message M
}

// Error implements error.
func (e *SendError[M]) Error() string {
	return fmt.Sprintf("unable to send message to terminated agent: %v", e.Message)
}

// Unwrap allows errors.Is(err, ErrAgentStopped).
func (e *SendError[M]) Unwrap() error { return ErrAgentStopped }

// PanicError is the handler error produced when a handler panics.
type PanicError struct {
	Value any
	Stack []byte
}

// Error implements error.
func (e *PanicError) Error() string {
	return fmt.Sprintf("agent handler panicked: %v", e.Value)
}
