package dispatch

import "sync/atomic"

// Clock is a monotonic logical clock for event ordering.
//
// Every event is stamped with a strictly increasing seq number at
// submission. Seq numbers make the FIFO ordering guarantee observable in
// logs, journals, and traces without relying on wall-clock timestamps.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations);
// producers on multiple goroutines stamp events concurrently.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and increments the clock.
// Calls are linearizable - each call returns a unique, increasing value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
