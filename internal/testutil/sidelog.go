package testutil

import "sync"

// SideEffectLog is a thread-safe append-only log used to observe the order
// in which dispatched targets actually executed.
type SideEffectLog struct {
	mu      sync.Mutex
	entries []string
}

// NewSideEffectLog creates an empty log.
func NewSideEffectLog() *SideEffectLog {
	return &SideEffectLog{}
}

// Append records one entry.
func (l *SideEffectLog) Append(entry string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
}

// Entries returns a copy of the recorded entries in append order.
func (l *SideEffectLog) Entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of recorded entries.
func (l *SideEffectLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
