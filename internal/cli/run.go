package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/watershed117/eventloop/internal/harness"
)

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run a dispatch scenario against the demo registry",
		Long: `Run a dispatch scenario against the demo registry.

The scenario's steps are submitted to a fresh dispatch loop in order;
outcomes are retrieved and checked against the scenario's expectations.

Example:
  eventloop run scenarios/basic.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

// runResult is the JSON payload for scenario runs.
type runResult struct {
	Scenario string          `json:"scenario"`
	Passed   bool            `json:"passed"`
	Steps    []runStepResult `json:"steps"`
	Errors   []string        `json:"errors,omitempty"`
}

type runStepResult struct {
	Seq     int64  `json:"seq"`
	Method  string `json:"method"`
	Status  string `json:"status"`
	Value   any    `json:"value,omitempty"`
	Failure string `json:"failure,omitempty"`
	Message string `json:"message,omitempty"`
}

func runScenario(opts *RootOptions, path string, cmd *cobra.Command) error {
	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "load scenario", err)
	}

	result, err := harness.Run(scenario, harness.DemoRegistry())
	if err != nil {
		return WrapExitError(ExitCommandError, "run scenario", err)
	}

	out := runResult{
		Scenario: result.Name,
		Passed:   result.Passed(),
		Errors:   result.Errors,
	}
	for _, ev := range result.Trace {
		out.Steps = append(out.Steps, runStepResult{
			Seq:     ev.Seq,
			Method:  ev.Method,
			Status:  ev.Status,
			Value:   ev.Value,
			Failure: ev.Failure,
			Message: ev.Message,
		})
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if opts.Format == "json" {
		if err := formatter.Success(out); err != nil {
			return err
		}
	} else {
		printRunText(formatter, out)
	}

	if !result.Passed() {
		return NewExitError(ExitFailure, fmt.Sprintf("scenario %s failed (%d errors)", result.Name, len(result.Errors)))
	}
	return nil
}

func printRunText(f *OutputFormatter, out runResult) {
	fmt.Fprintf(f.Writer, "Scenario: %s\n", out.Scenario)
	for _, step := range out.Steps {
		switch step.Status {
		case "completed":
			if step.Value != nil {
				fmt.Fprintf(f.Writer, "  [%d] %s -> completed: %v\n", step.Seq, step.Method, step.Value)
			} else {
				fmt.Fprintf(f.Writer, "  [%d] %s -> completed\n", step.Seq, step.Method)
			}
		default:
			fmt.Fprintf(f.Writer, "  [%d] %s -> %s [%s]: %s\n", step.Seq, step.Method, step.Status, step.Failure, step.Message)
		}
	}
	if out.Passed {
		fmt.Fprintln(f.Writer, "PASS")
	} else {
		for _, msg := range out.Errors {
			fmt.Fprintf(f.Writer, "  expectation failed: %s\n", msg)
		}
		fmt.Fprintln(f.Writer, "FAIL")
	}
}
