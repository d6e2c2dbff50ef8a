package dispatch

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// ResultStore is a thread-safe mapping from event id to Outcome with
// blocking, consume-once retrieval.
//
// Entry lifecycle: PutPending at submission (before the event is visible to
// the worker), SetOutcome exactly once by the worker, removal by the first
// successful Get. An id nobody ever consumes leaks its entry; that is the
// caller's responsibility, bounded optionally by the loop's result TTL.
//
// Synchronization is one shared mutex plus a condition broadcast on every
// completion. Broadcasting wakes all waiters, which is the simplest correct
// design for a single worker and an unpredictable number of waiters;
// per-id signaling would be an optimization, not a correctness fix.
type ResultStore struct {
	mu       sync.Mutex
	cond     *sync.Cond
	outcomes map[uuid.UUID]*resultEntry
}

type resultEntry struct {
	outcome Outcome
	created time.Time
}

// NewResultStore creates an empty result store.
func NewResultStore() *ResultStore {
	s := &ResultStore{
		outcomes: make(map[uuid.UUID]*resultEntry),
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// PutPending registers a Pending outcome for a newly submitted id.
// Called by the submitter before the event is enqueued, so Get never
// observes a missing id for an id that was actually submitted.
func (s *ResultStore) PutPending(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.outcomes[id] = &resultEntry{
		outcome: Outcome{Status: StatusPending},
		created: time.Now(),
	}
}

// SetOutcome publishes the terminal outcome for an id and wakes all
// waiters. Called exactly once per id, by the worker. Setting an outcome
// for an id that was already consumed (Get with timeout, then completion)
// re-creates the entry so the producer can still collect it later.
func (s *ResultStore) SetOutcome(id uuid.UUID, outcome Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.outcomes[id]
	if !ok {
		e = &resultEntry{created: time.Now()}
		s.outcomes[id] = e
	}
	e.outcome = outcome
	s.cond.Broadcast()
}

// Get blocks until the outcome for id leaves Pending, then atomically
// removes and returns it (consume-once). A second Get for the same id
// fails with ErrUnknownEvent, as does a Get for an id never submitted.
//
// A timeout > 0 bounds the wait; on expiry Get returns ErrTimeout and the
// entry stays in the store, because the underlying execution still runs to
// completion. timeout <= 0 waits indefinitely.
func (s *ResultStore) Get(id uuid.UUID, timeout time.Duration) (Outcome, error) {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)

		// sync.Cond has no timed wait; a one-shot broadcast at the deadline
		// wakes this waiter (and harmlessly, the others) to re-check.
		timer := time.AfterFunc(timeout, s.cond.Broadcast)
		defer timer.Stop()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		e, ok := s.outcomes[id]
		if !ok {
			return Outcome{}, ErrUnknownEvent
		}
		if e.outcome.Status != StatusPending {
			delete(s.outcomes, id)
			return e.outcome, nil
		}
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			return Outcome{}, ErrTimeout
		}
		s.cond.Wait()
	}
}

// Discard removes an entry without consuming its outcome. Returns false if
// the id is unknown. Callers that stop waiting on an id should discard it
// to avoid unbounded growth of the store.
func (s *ResultStore) Discard(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.outcomes[id]; !ok {
		return false
	}
	delete(s.outcomes, id)
	return true
}

// Len returns the number of live entries (pending and unconsumed).
// Useful for monitoring and testing.
func (s *ResultStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.outcomes)
}

// evictOlderThan removes non-pending entries created before the cutoff and
// returns how many were evicted. Pending entries are never evicted: their
// events are still queued or executing and the worker will publish to them.
func (s *ResultStore) evictOlderThan(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, e := range s.outcomes {
		if e.outcome.Status == StatusPending {
			continue
		}
		if e.created.Before(cutoff) {
			delete(s.outcomes, id)
			evicted++
		}
	}
	return evicted
}
