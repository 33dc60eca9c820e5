package actor

// Sender enqueues messages into one agent's mailbox. It is a small value:
// copying it yields another handle to the same mailbox, and copies may be
// used concurrently from any goroutine. A Sender never keeps its agent
// alive; once the agent stops, every Send fails with a *SendError.
//
// The zero Sender is not connected to any mailbox and always fails.
type Sender[M any] struct {
	mb *mailbox[M]
}

// Send enqueues msg without blocking. There is no acknowledgement that the
// handler has run.
func (s Sender[M]) Send(msg M) error {
	if s.mb == nil || !s.mb.push(msg) {
		return &SendError[M]{Message: msg}
	}
	return nil
}

// Closed reports whether the mailbox has stopped accepting messages.
func (s Sender[M]) Closed() bool {
	return s.mb == nil || !s.mb.accepting()
}

// SameMailbox reports whether both handles deliver into the same mailbox.
func (s Sender[M]) SameMailbox(other Sender[M]) bool {
	return s.mb != nil && s.mb == other.mb
}
