package dispatch

// Status is the lifecycle state of an event's Outcome.
//
// An Outcome is created Pending the instant the event is accepted, so a Get
// for a submitted id never races with absence. It transitions exactly once
// to Completed or Failed and never regresses.
type Status int

const (
	StatusPending Status = iota + 1
	StatusCompleted
	StatusFailed
)

// String returns the lower-case status name used in logs and journals.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of processing one event.
//
// Exactly one of Value and Err is meaningful: Value when Completed, Err
// when Failed. Err carries the failure kind distinguishing an unresolved
// method, rejected arguments, and an execution failure.
type Outcome struct {
	Status Status
	Value  any
	Err    *Error
}

// completed builds a terminal success outcome.
func completed(value any) Outcome {
	return Outcome{Status: StatusCompleted, Value: value}
}

// failed builds a terminal failure outcome.
func failed(err *Error) Outcome {
	return Outcome{Status: StatusFailed, Err: err}
}
