package testutil

import (
	"context"
	"sync"
	"testing"
	"time"
)

// Recorder is a handler that records every message it handles, in order.
// Example:
//
//	rec := testutil.NewRecorder[string]()
//	a := actor.Spawn(uuid.Nil, "rec", rec.Handle)
//	_ = a.Send("hi")
//	got := rec.Next(t, time.Second)
type Recorder[M any] struct {
	mu   sync.Mutex
	msgs []M
	ch   chan M
}

// NewRecorder creates an empty recorder.
func NewRecorder[M any]() *Recorder[M] {
	return &Recorder[M]{ch: make(chan M, 4096)}
}

// Handle implements actor.Handler.
func (r *Recorder[M]) Handle(_ context.Context, msg M) error {
	r.Record(msg)
	return nil
}

// Record stores msg and makes it available to Next.
func (r *Recorder[M]) Record(msg M) {
	r.mu.Lock()
	r.msgs = append(r.msgs, msg)
	r.mu.Unlock()

	select {
	case r.ch <- msg:
	default:
	}
}

// Messages returns a copy of all recorded messages.
func (r *Recorder[M]) Messages() []M {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]M, len(r.msgs))
	copy(out, r.msgs)
	return out
}

// Len returns the number of recorded messages.
func (r *Recorder[M]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.msgs)
}

// Next waits for the next recorded message, failing the test after timeout.
func (r *Recorder[M]) Next(t testing.TB, timeout time.Duration) M {
	t.Helper()
	select {
	case msg := <-r.ch:
		return msg
	case <-time.After(timeout):
		t.Fatalf("no message recorded within %s", timeout)
		var zero M
		return zero
	}
}

// ExpectNone fails the test if a message is recorded within wait.
func (r *Recorder[M]) ExpectNone(t testing.TB, wait time.Duration) {
	t.Helper()
	select {
	case msg := <-r.ch:
		t.Fatalf("unexpected message recorded: %v", msg)
	case <-time.After(wait):
	}
}
