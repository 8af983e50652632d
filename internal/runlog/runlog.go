// Package runlog records evaluation outcomes in a SQLite database so runs
// can be audited after the fact: which keys were evaluated, what each
// outcome was, and which run aborted early.
//
// The log is an optional collaborator of the evaluation engine; snapshot
// baselines never live here.
package runlog

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Log is an open evaluation log bound to one run.
type Log struct {
	db    *sql.DB
	runID string
}

// RunSummary describes one recorded run.
type RunSummary struct {
	ID          string `json:"id"`
	StartedAt   string `json:"started_at"`
	Evaluations int    `json:"evaluations"`
	Failed      int    `json:"failed"`
}

// Evaluation is one recorded evaluation outcome.
type Evaluation struct {
	Module    string `json:"module"`
	Key       string `json:"key"`
	Outcome   string `json:"outcome"`
	Digest    string `json:"digest"`
	CreatedAt string `json:"created_at"`
}

// Open creates or opens the log database at path, applies pragmas and the
// schema, and registers a fresh run row. Idempotent over the schema.
func Open(path string) (*Log, error) {
	l, err := open(path)
	if err != nil {
		return nil, err
	}
	l.runID = uuid.NewString()
	_, err = l.db.Exec(
		"INSERT INTO runs (id, started_at) VALUES (?, ?)",
		l.runID, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		l.db.Close()
		return nil, fmt.Errorf("register run: %w", err)
	}
	return l, nil
}

// OpenForQuery opens the log database without registering a run, for
// read-only inspection. Record must not be called on the returned log.
func OpenForQuery(path string) (*Log, error) {
	return open(path)
}

func open(path string) (*Log, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open run log: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect run log: %w", err)
	}

	// SQLite allows one writer at a time; a single connection avoids
	// SQLITE_BUSY errors from the pool.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply run log schema: %w", err)
	}
	return &Log{db: db}, nil
}

// RunID returns the identifier of the run this log is bound to.
func (l *Log) RunID() string { return l.runID }

// Record appends one evaluation outcome to the current run.
func (l *Log) Record(ctx context.Context, module, key, outcome, digest string, at time.Time) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO evaluations (run_id, module, key, outcome, digest, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, l.runID, module, key, outcome, digest, at.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("record evaluation: %w", err)
	}
	return nil
}

// Runs lists the most recent runs with per-run evaluation counts, newest
// first.
func (l *Log) Runs(ctx context.Context, limit int) ([]RunSummary, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT r.id, r.started_at,
		       COUNT(e.id),
		       COALESCE(SUM(CASE WHEN e.outcome = 'failed' THEN 1 ELSE 0 END), 0)
		FROM runs r
		LEFT JOIN evaluations e ON e.run_id = r.id
		GROUP BY r.id
		ORDER BY r.started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var s RunSummary
		if err := rows.Scan(&s.ID, &s.StartedAt, &s.Evaluations, &s.Failed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Evaluations lists the outcomes recorded for a run in insertion order.
func (l *Log) Evaluations(ctx context.Context, runID string) ([]Evaluation, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT module, key, outcome, digest, created_at
		FROM evaluations
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	defer rows.Close()

	var out []Evaluation
	for rows.Next() {
		var e Evaluation
		if err := rows.Scan(&e.Module, &e.Key, &e.Outcome, &e.Digest, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan evaluation: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close releases the underlying database.
func (l *Log) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}
