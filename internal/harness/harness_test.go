package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_CompletedSteps(t *testing.T) {
	scenario := &Scenario{
		Name:        "arith",
		Description: "Positional and keyword addition",
		Steps: []Step{
			{Method: "add", Args: []any{1, 2}, Expect: &Expect{Status: ExpectCompleted, Value: 3}},
			{Method: "add", Kwargs: map[string]any{"arg1": 3, "arg2": 4}, Expect: &Expect{Status: ExpectCompleted, Value: 7}},
			{Method: "ping", Expect: &Expect{Status: ExpectCompleted, Value: "pong"}},
		},
	}

	result, err := Run(scenario, DemoRegistry())
	require.NoError(t, err)
	assert.True(t, result.Passed(), "errors: %v", result.Errors)
	require.Len(t, result.Trace, 3)
	assert.Equal(t, int64(1), result.Trace[0].Seq)
	assert.Equal(t, "completed", result.Trace[0].Status)
}

func TestRun_DefaultApplied(t *testing.T) {
	scenario := &Scenario{
		Name:        "greeting",
		Description: "Default and overridden greeting",
		Steps: []Step{
			{Method: "greet", Args: []any{"world"}, Expect: &Expect{Status: ExpectCompleted, Value: "hello, world"}},
			{Method: "greet", Args: []any{"gopher"}, Kwargs: map[string]any{"greeting": "hi"},
				Expect: &Expect{Status: ExpectCompleted, Value: "hi, gopher"}},
		},
	}

	result, err := Run(scenario, DemoRegistry())
	require.NoError(t, err)
	assert.True(t, result.Passed(), "errors: %v", result.Errors)
}

func TestRun_FailureExpectations(t *testing.T) {
	scenario := &Scenario{
		Name:        "failures",
		Description: "Each failure kind",
		Steps: []Step{
			{Method: "add", Args: []any{1},
				Expect: &Expect{Status: ExpectFailed, Failure: "INVALID_ARGUMENTS", MessageContains: "arg2"}},
			{Method: "no_such_method",
				Expect: &Expect{Status: ExpectFailed, Failure: "METHOD_NOT_FOUND"}},
			{Method: "fail", Args: []any{"deliberate"},
				Expect: &Expect{Status: ExpectFailed, Failure: "EXECUTION_ERROR", MessageContains: "deliberate"}},
		},
	}

	result, err := Run(scenario, DemoRegistry())
	require.NoError(t, err)
	assert.True(t, result.Passed(), "errors: %v", result.Errors)
}

func TestRun_ExpectationMismatchRecorded(t *testing.T) {
	scenario := &Scenario{
		Name:        "mismatch",
		Description: "Wrong expected value",
		Steps: []Step{
			{Method: "add", Args: []any{1, 2}, Expect: &Expect{Status: ExpectCompleted, Value: 99}},
		},
	}

	result, err := Run(scenario, DemoRegistry())
	require.NoError(t, err, "expectation mismatches are recorded, not returned")
	assert.False(t, result.Passed())
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "expected value 99")
}

func TestRun_NoExpectRequiresCompletion(t *testing.T) {
	scenario := &Scenario{
		Name:        "noexpect",
		Description: "Steps without expectations must complete",
		Steps: []Step{
			{Method: "ping"},
			{Method: "no_such_method"},
		},
	}

	result, err := Run(scenario, DemoRegistry())
	require.NoError(t, err)
	assert.False(t, result.Passed())
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "expected completion")
}

func TestRun_TraceCarriesFailureDetails(t *testing.T) {
	scenario := &Scenario{
		Name:        "details",
		Description: "Trace includes failure kind and message",
		Steps: []Step{
			{Method: "missing", Expect: &Expect{Status: ExpectFailed, Failure: "METHOD_NOT_FOUND"}},
		},
	}

	result, err := Run(scenario, DemoRegistry())
	require.NoError(t, err)
	require.Len(t, result.Trace, 1)
	assert.Equal(t, "METHOD_NOT_FOUND", result.Trace[0].Failure)
	assert.Contains(t, result.Trace[0].Message, "missing")
}

func TestRun_YAMLIntegersMatchGoResults(t *testing.T) {
	// YAML parses small numbers as int; the demo add returns int. Mixed
	// widths from other sources must still compare equal.
	scenario := &Scenario{
		Name:        "widths",
		Description: "Integer width normalization",
		Steps: []Step{
			{Method: "add", Args: []any{2, 3}, Expect: &Expect{Status: ExpectCompleted, Value: float64(5)}},
		},
	}

	result, err := Run(scenario, DemoRegistry())
	require.NoError(t, err)
	assert.True(t, result.Passed(), "errors: %v", result.Errors)
}

func TestNormalizeValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"int", 5, int64(5)},
		{"int32", int32(5), int64(5)},
		{"uint", uint(5), int64(5)},
		{"whole float", float64(5), int64(5)},
		{"fractional float", 5.5, 5.5},
		{"string", "x", "x"},
		{"slice", []any{1, float64(2)}, []any{int64(1), int64(2)}},
		{"map", map[string]any{"a": 1}, map[string]any{"a": int64(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeValue(tt.in))
		})
	}
}
