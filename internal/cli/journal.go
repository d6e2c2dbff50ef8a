package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/watershed117/eventloop/internal/journal"
)

// JournalOptions holds flags for the journal command.
type JournalOptions struct {
	Limit int
}

// NewJournalCommand creates the journal command.
func NewJournalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &JournalOptions{}

	cmd := &cobra.Command{
		Use:   "journal <path>",
		Short: "Inspect a recorded event journal",
		Long: `Inspect a SQLite event journal written by 'eventloop demo --journal'.

Entries are listed in submission order with their final status.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listJournal(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum entries to show (0 = all)")

	return cmd
}

// journalEntry is the JSON payload for one listed entry.
type journalEntry struct {
	ID          string `json:"id"`
	Seq         int64  `json:"seq"`
	Method      string `json:"method"`
	Status      string `json:"status"`
	FailureKind string `json:"failure_kind,omitempty"`
	Message     string `json:"message,omitempty"`
	Value       string `json:"value,omitempty"`
	SubmittedAt string `json:"submitted_at"`
	FinishedAt  string `json:"finished_at,omitempty"`
}

func listJournal(rootOpts *RootOptions, opts *JournalOptions, path string, cmd *cobra.Command) error {
	j, err := journal.Open(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "open journal", err)
	}
	defer j.Close()

	entries, err := j.List(cmd.Context(), opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "list journal", err)
	}

	formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
	if rootOpts.Format == "json" {
		out := make([]journalEntry, 0, len(entries))
		for _, e := range entries {
			je := journalEntry{
				ID:          e.ID,
				Seq:         e.Seq,
				Method:      e.Method,
				Status:      e.Status,
				FailureKind: e.FailureKind,
				Message:     e.Message,
				Value:       e.Value,
				SubmittedAt: e.SubmittedAt.Format("2006-01-02T15:04:05.000Z07:00"),
			}
			if !e.FinishedAt.IsZero() {
				je.FinishedAt = e.FinishedAt.Format("2006-01-02T15:04:05.000Z07:00")
			}
			out = append(out, je)
		}
		return formatter.Success(out)
	}

	if len(entries) == 0 {
		fmt.Fprintln(formatter.Writer, "journal is empty")
		return nil
	}
	for _, e := range entries {
		switch e.Status {
		case "completed":
			fmt.Fprintf(formatter.Writer, "[%d] %s %s completed", e.Seq, e.ID, e.Method)
			if e.Value != "" {
				fmt.Fprintf(formatter.Writer, " value=%s", e.Value)
			}
			fmt.Fprintln(formatter.Writer)
		case "failed":
			fmt.Fprintf(formatter.Writer, "[%d] %s %s failed [%s]: %s\n", e.Seq, e.ID, e.Method, e.FailureKind, e.Message)
		default:
			fmt.Fprintf(formatter.Writer, "[%d] %s %s %s\n", e.Seq, e.ID, e.Method, e.Status)
		}
	}
	return nil
}
