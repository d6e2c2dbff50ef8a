package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/watershed117/eventloop/internal/dispatch"
	"github.com/watershed117/eventloop/internal/registry"
	"github.com/watershed117/eventloop/internal/testutil"
)

// defaultStepTimeout bounds each outcome wait when the scenario does not
// set one. Generous enough for scenarios that exercise sleeping targets.
const defaultStepTimeout = 10 * time.Second

// Run executes a scenario against a fresh dispatch loop and returns the
// result with the observed trace and any expectation failures.
//
// Each scenario runs in its own loop with sequential event ids, so traces
// are deterministic and suitable for golden comparison. All steps are
// submitted before the first outcome is retrieved; FIFO execution order is
// therefore part of what the expectations observe.
func Run(scenario *Scenario, reg *registry.Registry) (*Result, error) {
	loop := dispatch.New(reg,
		dispatch.WithIDGenerator(testutil.NewSequentialIDGenerator()),
		dispatch.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))), // Suppress logs in tests
	)

	runDone := make(chan error, 1)
	go func() {
		runDone <- loop.Run(context.Background())
	}()

	timeout := defaultStepTimeout
	if scenario.TimeoutSeconds > 0 {
		timeout = time.Duration(scenario.TimeoutSeconds) * time.Second
	}

	result := NewResult(scenario.Name)

	// Submit everything up front so the queue observes arrival order.
	ids := make([]uuid.UUID, len(scenario.Steps))
	for i, step := range scenario.Steps {
		id, err := loop.Submit(step.Method, step.Args, step.Kwargs)
		if err != nil {
			loop.SubmitStop()
			<-runDone
			return nil, fmt.Errorf("step %d: submit %s: %w", i, step.Method, err)
		}
		ids[i] = id
	}

	for i, step := range scenario.Steps {
		outcome, err := loop.Get(ids[i], timeout)
		if err != nil {
			loop.SubmitStop()
			<-runDone
			return nil, fmt.Errorf("step %d: get outcome for %s: %w", i, step.Method, err)
		}

		ev := TraceEvent{
			Seq:    int64(i + 1),
			Method: step.Method,
			Args:   step.Args,
			Kwargs: step.Kwargs,
			Status: outcome.Status.String(),
			Value:  outcome.Value,
		}
		if outcome.Err != nil {
			ev.Failure = string(outcome.Err.Kind)
			ev.Message = outcome.Err.Message
		}
		result.Trace = append(result.Trace, ev)

		evaluateExpect(result, i, step, outcome)
	}

	loop.SubmitStop()
	if err := <-runDone; err != nil {
		return nil, fmt.Errorf("loop run: %w", err)
	}

	return result, nil
}

// evaluateExpect checks one step's outcome against its expect clause.
func evaluateExpect(result *Result, index int, step Step, outcome dispatch.Outcome) {
	if step.Expect == nil {
		if outcome.Status != dispatch.StatusCompleted {
			result.AddError("step %d (%s): expected completion, got %s: %s",
				index, step.Method, outcome.Status, outcome.Err.Message)
		}
		return
	}

	e := step.Expect
	if outcome.Status.String() != e.Status {
		result.AddError("step %d (%s): expected status %q, got %q",
			index, step.Method, e.Status, outcome.Status)
		return
	}

	switch e.Status {
	case ExpectCompleted:
		if e.Value != nil && !valuesEqual(e.Value, outcome.Value) {
			result.AddError("step %d (%s): expected value %v, got %v",
				index, step.Method, e.Value, outcome.Value)
		}
	case ExpectFailed:
		if e.Failure != "" && string(outcome.Err.Kind) != e.Failure {
			result.AddError("step %d (%s): expected failure kind %q, got %q",
				index, step.Method, e.Failure, outcome.Err.Kind)
		}
		if e.MessageContains != "" && !strings.Contains(outcome.Err.Message, e.MessageContains) {
			result.AddError("step %d (%s): failure message %q does not contain %q",
				index, step.Method, outcome.Err.Message, e.MessageContains)
		}
	}
}

// valuesEqual compares an expected value (YAML-parsed) against an observed
// outcome value. Integer widths are normalized so a YAML int matches a Go
// int64 result and vice versa.
func valuesEqual(expected, actual any) bool {
	return reflect.DeepEqual(normalizeValue(expected), normalizeValue(actual))
}

// normalizeValue maps integer types to int64, whole floats to int64, and
// recurses into slices and maps.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case int:
		return int64(val)
	case int8:
		return int64(val)
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case int64:
		return val
	case uint:
		return int64(val)
	case uint8:
		return int64(val)
	case uint16:
		return int64(val)
	case uint32:
		return int64(val)
	case uint64:
		return int64(val)
	case float64:
		if val == float64(int64(val)) {
			return int64(val)
		}
		return val
	case float32:
		return normalizeValue(float64(val))
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = normalizeValue(elem)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = normalizeValue(elem)
		}
		return out
	default:
		return v
	}
}
