package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGolden_BasicDispatch(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "basic_dispatch.yaml"))
	require.NoError(t, err)

	require.NoError(t, RunWithGolden(t, scenario, DemoRegistry()))
}

func TestGolden_FailureKinds(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "failure_kinds.yaml"))
	require.NoError(t, err)

	require.NoError(t, RunWithGolden(t, scenario, DemoRegistry()))
}

func TestTraceSnapshot_OmitsEmptyFields(t *testing.T) {
	snapshot := TraceSnapshot{
		ScenarioName: "omit",
		Trace: []TraceEvent{
			{Seq: 1, Method: "ping", Status: "completed"},
		},
	}

	m, err := snapshot.toCanonicalMap()
	require.NoError(t, err)

	trace := m["trace"].([]any)
	event := trace[0].(map[string]any)
	require.NotContains(t, event, "args")
	require.NotContains(t, event, "kwargs")
	require.NotContains(t, event, "value")
	require.NotContains(t, event, "failure")
	require.NotContains(t, event, "message")
}

func TestTraceSnapshot_RejectsUnsupportedValue(t *testing.T) {
	snapshot := TraceSnapshot{
		ScenarioName: "bad",
		Trace: []TraceEvent{
			{Seq: 1, Method: "weird", Status: "completed", Value: make(chan int)},
		},
	}

	_, err := snapshot.toCanonicalMap()
	require.Error(t, err)
}
