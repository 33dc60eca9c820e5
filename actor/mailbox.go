package actor

import (
	"context"
	"sync"
)

type mailboxState int

const (
	mailboxOpen    mailboxState = iota
	mailboxClosed               // rejects sends; the consumer drains what is queued
	mailboxStopped              // consumer gone; queue discarded
)

// mailbox is an unbounded FIFO with many producers and exactly one consumer.
// Producers never block. The consumer is woken through a one-slot notify
// channel, so a pending wake-up is never lost and never accumulates.
type mailbox[M any] struct {
	mu      sync.Mutex
	queue   []M
	state   mailboxState
	dropped int
	notify  chan struct{}
}

func newMailbox[M any]() *mailbox[M] {
	return &mailbox[M]{notify: make(chan struct{}, 1)}
}

// push appends msg and reports whether it was accepted.
func (mb *mailbox[M]) push(msg M) bool {
	mb.mu.Lock()
	if mb.state != mailboxOpen {
		mb.mu.Unlock()
		return false
	}
	mb.queue = append(mb.queue, msg)
	mb.mu.Unlock()

	mb.wake()
	return true
}

// receive blocks until a message is available, the mailbox is closed and
// empty, or ctx is done. Only the owning worker may call it.
func (mb *mailbox[M]) receive(ctx context.Context) (M, bool) {
	var zero M
	for {
		if ctx.Err() != nil {
			return zero, false
		}

		mb.mu.Lock()
		if len(mb.queue) > 0 {
			msg := mb.queue[0]
			mb.queue[0] = zero
			mb.queue = mb.queue[1:]
			if len(mb.queue) == 0 {
				mb.queue = nil
			}
			mb.mu.Unlock()
			return msg, true
		}
		finished := mb.state != mailboxOpen
		mb.mu.Unlock()

		if finished {
			return zero, false
		}

		select {
		case <-ctx.Done():
			return zero, false
		case <-mb.notify:
		}
	}
}

// close stops accepting new messages while keeping the queue for draining.
func (mb *mailbox[M]) close() {
	mb.mu.Lock()
	if mb.state == mailboxOpen {
		mb.state = mailboxClosed
	}
	mb.mu.Unlock()

	mb.wake()
}

// stop rejects all further sends, discards the queue and returns the total
// number of messages discarded so far.
func (mb *mailbox[M]) stop() int {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	mb.state = mailboxStopped
	mb.dropped += len(mb.queue)
	mb.queue = nil
	return mb.dropped
}

func (mb *mailbox[M]) len() int {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	return len(mb.queue)
}

func (mb *mailbox[M]) accepting() bool {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	return mb.state == mailboxOpen
}

func (mb *mailbox[M]) wake() {
	select {
	case mb.notify <- struct{}{}:
	default:
	}
}
