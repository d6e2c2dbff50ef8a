package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a requested event id has no journal row.
var ErrNotFound = errors.New("journal: event not found")

// Entry is one journal row. Args, Kwargs, and Value hold the JSON exactly
// as stored; FailureKind and Message are empty unless the event failed,
// and FinishedAt is zero while the event is still pending.
type Entry struct {
	ID          string
	Seq         int64
	Method      string
	Args        string
	Kwargs      string
	Status      string
	FailureKind string
	Message     string
	Value       string
	SubmittedAt time.Time
	FinishedAt  time.Time
}

const entryColumns = `id, seq, method, args, kwargs, status,
	failure_kind, message, value, submitted_at, finished_at`

// ReadEntry fetches the journal row for one event id.
func (j *Journal) ReadEntry(ctx context.Context, id string) (Entry, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT `+entryColumns+`
		FROM events
		WHERE id = ?
	`, id)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("read entry %s: %w", id, err)
	}
	return e, nil
}

// List returns journal rows in submission (seq) order.
// limit <= 0 returns all rows.
func (j *Journal) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM events
		ORDER BY seq`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("list entries: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	return entries, nil
}

// scanner abstracts sql.Row and sql.Rows for scanEntry.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (Entry, error) {
	var (
		e           Entry
		failureKind sql.NullString
		message     sql.NullString
		value       sql.NullString
		submittedAt string
		finishedAt  sql.NullString
	)

	err := s.Scan(&e.ID, &e.Seq, &e.Method, &e.Args, &e.Kwargs, &e.Status,
		&failureKind, &message, &value, &submittedAt, &finishedAt)
	if err != nil {
		return Entry{}, err
	}

	e.FailureKind = failureKind.String
	e.Message = message.String
	e.Value = value.String

	e.SubmittedAt, err = time.Parse(time.RFC3339Nano, submittedAt)
	if err != nil {
		return Entry{}, fmt.Errorf("parse submitted_at: %w", err)
	}
	if finishedAt.Valid {
		e.FinishedAt, err = time.Parse(time.RFC3339Nano, finishedAt.String)
		if err != nil {
			return Entry{}, fmt.Errorf("parse finished_at: %w", err)
		}
	}

	return e, nil
}
