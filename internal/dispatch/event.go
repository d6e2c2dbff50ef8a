package dispatch

import (
	"time"

	"github.com/google/uuid"

	"github.com/watershed117/eventloop/internal/registry"
)

// EventType distinguishes between queue item kinds.
type EventType int

const (
	// EventTypeCall represents a work item: a target plus arguments.
	EventTypeCall EventType = iota + 1
	// EventTypeStop is the control signal that terminates the loop. It
	// carries no id and produces no outcome.
	EventTypeStop
)

// Event is the unit of queued work. Immutable once enqueued.
//
// The target is polymorphic: Call is set for a direct callable, otherwise
// Method names a callable resolved against the registry at execution time.
type Event struct {
	Type EventType

	// ID is the unique identifier assigned at submission, and the key for
	// result lookup. Unset for stop events.
	ID uuid.UUID

	// Method is the symbolic target name. Empty when Call is set.
	Method string

	// Call is the direct callable target, already bound. Nil for symbolic
	// dispatch.
	Call *registry.Callable

	// Args holds the positional argument values, in order.
	Args []any

	// Kwargs holds the keyword argument values by parameter name.
	Kwargs map[string]any

	// Seq is the logical submission order stamp.
	Seq int64

	// SubmittedAt records the wall-clock submission time.
	SubmittedAt time.Time
}

// TargetName returns the name used for logging and failure reporting:
// the symbolic method name, or the direct callable's registered name.
func (e Event) TargetName() string {
	if e.Call != nil {
		return e.Call.Name()
	}
	return e.Method
}
