package harness

import "fmt"

// Result holds the outcome of running one scenario.
type Result struct {
	// Name is the scenario name.
	Name string

	// Trace lists one event per step, in submission (seq) order, with the
	// observed outcome.
	Trace []TraceEvent

	// Errors lists expectation failures. Empty means the scenario passed.
	Errors []string
}

// TraceEvent is one submitted event and its observed outcome.
type TraceEvent struct {
	Seq     int64
	Method  string
	Args    []any
	Kwargs  map[string]any
	Status  string
	Value   any
	Failure string
	Message string
}

// NewResult creates an empty result for a scenario.
func NewResult(name string) *Result {
	return &Result{Name: name}
}

// Passed reports whether all expectations held.
func (r *Result) Passed() bool {
	return len(r.Errors) == 0
}

// AddError records an expectation failure.
func (r *Result) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}
