package agent

import (
	"errors"
	"fmt"
)

// ErrModelCallLimit is wrapped by the error returned once an Assistant has
// used up its model call budget.
var ErrModelCallLimit = errors.New("model call limit exceeded")

// callLimiter counts model calls against an optional budget. It is owned by
// the assistant's worker goroutine, so it needs no locking.
type callLimiter struct {
	max   int
	count int
}

// newCallLimiter creates a limiter; max <= 0 means unlimited.
func newCallLimiter(max int) *callLimiter {
	return &callLimiter{max: max}
}

// take records one call and fails when the budget is exhausted.
func (l *callLimiter) take() error {
	if l.max > 0 && l.count >= l.max {
		return fmt.Errorf("%w: %d", ErrModelCallLimit, l.max)
	}
	l.count++
	return nil
}

// remaining returns how many calls are left, or -1 when unlimited.
func (l *callLimiter) remaining() int {
	if l.max <= 0 {
		return -1
	}
	return l.max - l.count
}
