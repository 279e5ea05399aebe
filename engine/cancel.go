package engine

import "sync/atomic"

// CancelFlag is the cooperative cancellation signal described in §5:
// workers poll it between chunks rather than being preempted mid-chunk.
// The zero value is ready to use and never cancelled.
type CancelFlag struct {
	flag atomic.Bool
}

// Cancel requests that any read/write using this flag stop as soon as the
// in-flight chunks finish.
func (c *CancelFlag) Cancel() { c.flag.Store(true) }

// Cancelled reports whether Cancel has been called.
func (c *CancelFlag) Cancelled() bool {
	if c == nil {
		return false
	}

	return c.flag.Load()
}
