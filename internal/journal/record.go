package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/watershed117/eventloop/internal/dispatch"
)

// Journal implements dispatch.Recorder.
var _ dispatch.Recorder = (*Journal)(nil)

// RecordSubmitted inserts a pending row for a newly accepted event.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - event ids are unique,
// so a duplicate insert can only be a re-record of the same submission.
func (j *Journal) RecordSubmitted(ctx context.Context, rec dispatch.SubmittedRecord) error {
	argsJSON, err := marshalValue(rec.Args, "[]")
	if err != nil {
		return fmt.Errorf("record submitted: %w", err)
	}
	kwargsJSON, err := marshalValue(rec.Kwargs, "{}")
	if err != nil {
		return fmt.Errorf("record submitted: %w", err)
	}

	_, err = j.db.ExecContext(ctx, `
		INSERT INTO events
		(id, seq, method, args, kwargs, status, submitted_at)
		VALUES (?, ?, ?, ?, ?, 'pending', ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID.String(),
		rec.Seq,
		rec.Method,
		argsJSON,
		kwargsJSON,
		rec.SubmittedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record submitted: %w", err)
	}

	return nil
}

// RecordOutcome updates an event's row with its terminal outcome.
// The status transition is one-way: a row already marked completed or
// failed is never overwritten (the worker publishes exactly once, so a
// second call can only be a duplicate).
func (j *Journal) RecordOutcome(ctx context.Context, rec dispatch.OutcomeRecord) error {
	valueJSON, err := marshalValue(rec.Value, "null")
	if err != nil {
		return fmt.Errorf("record outcome: %w", err)
	}

	_, err = j.db.ExecContext(ctx, `
		UPDATE events
		SET status = ?, failure_kind = ?, message = ?, value = ?, finished_at = ?
		WHERE id = ? AND status = 'pending'
	`,
		rec.Status.String(),
		nullable(string(rec.FailureKind)),
		nullable(rec.Message),
		valueJSON,
		rec.FinishedAt.UTC().Format(time.RFC3339Nano),
		rec.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("record outcome: %w", err)
	}

	return nil
}

// marshalValue renders an argument or result value as JSON. Values the
// encoder cannot handle (channels, funcs) fail here and surface as a
// logged journal warning on the loop, never as a task failure.
func marshalValue(v any, empty string) (string, error) {
	if v == nil {
		return empty, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal value: %w", err)
	}
	return string(data), nil
}

// nullable maps empty strings to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
