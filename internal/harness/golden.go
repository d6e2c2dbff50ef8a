package harness

import (
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/watershed117/eventloop/internal/registry"
)

// TraceSnapshot captures the complete trace for a scenario execution.
// Serialized with canonical JSON for deterministic comparison.
type TraceSnapshot struct {
	ScenarioName string
	Trace        []TraceEvent
}

// toCanonicalMap converts the snapshot to plain maps for the canonical
// encoder. Empty and nil fields are omitted rather than serialized as null.
func (s *TraceSnapshot) toCanonicalMap() (map[string]any, error) {
	traceList := make([]any, len(s.Trace))
	for i, event := range s.Trace {
		eventMap := map[string]any{
			"seq":    event.Seq,
			"method": event.Method,
			"status": event.Status,
		}
		if len(event.Args) > 0 {
			args, err := canonicalValue(event.Args)
			if err != nil {
				return nil, fmt.Errorf("trace[%d] args: %w", i, err)
			}
			eventMap["args"] = args
		}
		if len(event.Kwargs) > 0 {
			kwargs, err := canonicalValue(event.Kwargs)
			if err != nil {
				return nil, fmt.Errorf("trace[%d] kwargs: %w", i, err)
			}
			eventMap["kwargs"] = kwargs
		}
		if event.Value != nil {
			value, err := canonicalValue(event.Value)
			if err != nil {
				return nil, fmt.Errorf("trace[%d] value: %w", i, err)
			}
			eventMap["value"] = value
		}
		if event.Failure != "" {
			eventMap["failure"] = event.Failure
		}
		if event.Message != "" {
			eventMap["message"] = event.Message
		}
		traceList[i] = eventMap
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"trace":         traceList,
	}, nil
}

// canonicalValue maps a trace value onto the canonical encoder's input
// types. Integer widths collapse to int64; anything else must already be a
// supported type.
func canonicalValue(v any) (any, error) {
	switch normalized := normalizeValue(v).(type) {
	case string, bool, int64, []any, map[string]any:
		return normalized, nil
	default:
		return nil, fmt.Errorf("unsupported trace value type %T", v)
	}
}

// RunWithGolden executes a scenario and compares the trace against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Expectation failures recorded in the result fail the test as well, so a
// scenario can combine inline expects with golden comparison.
func RunWithGolden(t *testing.T, scenario *Scenario, reg *registry.Registry) error {
	t.Helper()

	result, err := Run(scenario, reg)
	if err != nil {
		return err
	}
	for _, msg := range result.Errors {
		t.Error(msg)
	}

	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares a result's trace against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := TraceSnapshot{
		ScenarioName: scenarioName,
		Trace:        result.Trace,
	}

	canonicalMap, err := snapshot.toCanonicalMap()
	if err != nil {
		return err
	}
	traceJSON, err := marshalCanonical(canonicalMap)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)

	return nil
}
