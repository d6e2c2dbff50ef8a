package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario: a sequence of submissions
// with expected outcomes, run against a single dispatch loop.
type Scenario struct {
	// Name uniquely identifies this scenario (also the golden file name).
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Steps lists the submissions in order. Outcomes are retrieved in the
	// same order, so expectations observe FIFO execution.
	Steps []Step `yaml:"steps"`

	// TimeoutSeconds bounds each outcome wait. 0 means the default (10s).
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty"`
}

// Step is one submission: a method name with positional and keyword
// arguments, and an optional expectation on the outcome.
type Step struct {
	// Method is the symbolic target name resolved against the registry.
	Method string `yaml:"method"`

	// Args contains positional argument values, in order.
	Args []any `yaml:"args,omitempty"`

	// Kwargs contains keyword argument values by parameter name.
	Kwargs map[string]any `yaml:"kwargs,omitempty"`

	// Expect specifies the expected outcome.
	// If nil, the step is only required to complete (any value).
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect specifies expected outcome fields. Zero-valued fields are not
// checked, except Status which is always required when Expect is present.
type Expect struct {
	// Status is "completed" or "failed".
	Status string `yaml:"status"`

	// Value is the expected result value (checked when present).
	Value any `yaml:"value,omitempty"`

	// Failure is the expected failure kind, e.g. "INVALID_ARGUMENTS".
	Failure string `yaml:"failure,omitempty"`

	// MessageContains requires the failure message to contain a substring,
	// typically the offending parameter name.
	MessageContains string `yaml:"message_contains,omitempty"`
}

// Expected outcome status values.
const (
	ExpectCompleted = "completed"
	ExpectFailed    = "failed"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "step:" vs "steps:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if s.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must be non-negative")
	}

	for i, step := range s.Steps {
		if step.Method == "" {
			return fmt.Errorf("steps[%d]: method is required", i)
		}
		if step.Expect != nil {
			if err := validateExpect(i, step.Expect); err != nil {
				return err
			}
		}
	}

	return nil
}

// validateExpect validates a single expect clause.
func validateExpect(index int, e *Expect) error {
	switch e.Status {
	case ExpectCompleted:
		if e.Failure != "" || e.MessageContains != "" {
			return fmt.Errorf("steps[%d].expect: failure fields require status %q", index, ExpectFailed)
		}
	case ExpectFailed:
		if e.Value != nil {
			return fmt.Errorf("steps[%d].expect: value requires status %q", index, ExpectCompleted)
		}
	case "":
		return fmt.Errorf("steps[%d].expect: status is required", index)
	default:
		return fmt.Errorf("steps[%d].expect: unknown status %q", index, e.Status)
	}
	return nil
}
