package dispatch

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SubmittedRecord is the journal view of an accepted event.
type SubmittedRecord struct {
	ID          uuid.UUID
	Seq         int64
	Method      string
	Args        []any
	Kwargs      map[string]any
	SubmittedAt time.Time
}

// OutcomeRecord is the journal view of an event's terminal outcome.
// FailureKind and Message are empty for completed events.
type OutcomeRecord struct {
	ID          uuid.UUID
	Status      Status
	Value       any
	FailureKind FailureKind
	Message     string
	FinishedAt  time.Time
}

// Recorder receives submission and outcome records for auditing.
//
// The loop treats recording as best-effort observation: a Recorder error is
// logged and processing continues. Recorders must be safe for calls from
// both producer goroutines (RecordSubmitted) and the worker (RecordOutcome).
type Recorder interface {
	RecordSubmitted(ctx context.Context, rec SubmittedRecord) error
	RecordOutcome(ctx context.Context, rec OutcomeRecord) error
}
