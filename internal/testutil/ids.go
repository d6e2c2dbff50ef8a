// Package testutil provides deterministic helpers for tests.
package testutil

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// SequentialIDGenerator produces deterministic event ids 1, 2, 3, ...
// rendered into the low bytes of a fixed UUID prefix. Satisfies the
// dispatch loop's IDGenerator interface.
//
// Thread-safety: safe for concurrent use (atomic counter).
type SequentialIDGenerator struct {
	n atomic.Int64
}

// NewSequentialIDGenerator creates a generator starting at id 1.
func NewSequentialIDGenerator() *SequentialIDGenerator {
	return &SequentialIDGenerator{}
}

// New returns the next sequential id.
func (g *SequentialIDGenerator) New() uuid.UUID {
	return SequentialID(g.n.Add(1))
}

// SequentialID renders n as a deterministic UUID. Decimal digits are valid
// hex, so the rendered string always parses.
func SequentialID(n int64) uuid.UUID {
	return uuid.MustParse(fmt.Sprintf("00000000-0000-7000-8000-%012d", n))
}
