package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/watershed117/eventloop/internal/dispatch"
	"github.com/watershed117/eventloop/internal/harness"
	"github.com/watershed117/eventloop/internal/journal"
)

// DemoOptions holds flags for the demo command.
type DemoOptions struct {
	JournalPath string
	ResultTTL   time.Duration
}

// NewDemoCommand creates the demo command.
func NewDemoCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DemoOptions{}

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Submit a fixed sequence of calls to the demo registry",
		Long: `Submit a fixed sequence of calls to the demo registry and print
each outcome as it resolves. Demonstrates successful calls, argument
validation failures, unknown methods, and execution errors.

With --journal, every event is also recorded to a SQLite journal that
can be inspected afterwards with 'eventloop journal'.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.JournalPath, "journal", "", "record events to a SQLite journal at this path")
	cmd.Flags().DurationVar(&opts.ResultTTL, "result-ttl", 0, "evict unconsumed results older than this duration (0 disables)")

	return cmd
}

// demoStep is one call in the fixed demo sequence.
type demoStep struct {
	method string
	args   []any
	kwargs map[string]any
}

func demoSequence() []demoStep {
	return []demoStep{
		{method: "add", args: []any{1, 2}},
		{method: "add", kwargs: map[string]any{"arg1": 3, "arg2": 4}},
		{method: "greet", args: []any{"world"}},
		{method: "greet", args: []any{"gopher"}, kwargs: map[string]any{"greeting": "hi"}},
		{method: "ping"},
		{method: "sleep", args: []any{50}},
		{method: "add", args: []any{1}},
		{method: "add", args: []any{"a", "b"}},
		{method: "no_such_method"},
		{method: "fail", args: []any{"deliberate failure"}},
	}
}

func runDemo(rootOpts *RootOptions, opts *DemoOptions, cmd *cobra.Command) error {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if rootOpts.Verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	loopOpts := []dispatch.Option{dispatch.WithLogger(logger)}
	if opts.ResultTTL > 0 {
		loopOpts = append(loopOpts, dispatch.WithResultTTL(opts.ResultTTL))
	}

	if opts.JournalPath != "" {
		j, err := journal.Open(opts.JournalPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "open journal", err)
		}
		defer j.Close()
		loopOpts = append(loopOpts, dispatch.WithRecorder(j))
	}

	loop := dispatch.New(harness.DemoRegistry(), loopOpts...)

	runDone := make(chan error, 1)
	go func() {
		runDone <- loop.Run(context.Background())
	}()

	formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}

	steps := demoSequence()
	for i, step := range steps {
		id, err := loop.Submit(step.method, step.args, step.kwargs)
		if err != nil {
			loop.SubmitStop()
			<-runDone
			return WrapExitError(ExitCommandError, fmt.Sprintf("submit %s", step.method), err)
		}

		outcome, err := loop.Get(id, 5*time.Second)
		if err != nil {
			loop.SubmitStop()
			<-runDone
			return WrapExitError(ExitCommandError, fmt.Sprintf("get outcome for %s", step.method), err)
		}

		printDemoOutcome(formatter, i+1, step, outcome)
	}

	loop.SubmitStop()
	if err := <-runDone; err != nil {
		return WrapExitError(ExitCommandError, "loop run", err)
	}

	return nil
}

func printDemoOutcome(f *OutputFormatter, seq int, step demoStep, outcome dispatch.Outcome) {
	if f.Format == "json" {
		payload := map[string]any{
			"seq":    seq,
			"method": step.method,
			"status": outcome.Status.String(),
		}
		if outcome.Value != nil {
			payload["value"] = outcome.Value
		}
		if outcome.Err != nil {
			payload["failure"] = string(outcome.Err.Kind)
			payload["message"] = outcome.Err.Message
		}
		f.Success(payload)
		return
	}

	if outcome.Err != nil {
		fmt.Fprintf(f.Writer, "[%d] %s -> failed [%s]: %s\n", seq, step.method, outcome.Err.Kind, outcome.Err.Message)
		return
	}
	if outcome.Value != nil {
		fmt.Fprintf(f.Writer, "[%d] %s -> %v\n", seq, step.method, outcome.Value)
		return
	}
	fmt.Fprintf(f.Writer, "[%d] %s -> ok\n", seq, step.method)
}
