package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by Get for an unknown run ID
var ErrNotFound = errors.New("run not found")

// Run is one recorded broadcast
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Query      string
	// State is the final dispatcher state, "done" or "aborted"
	State string
	// Endpoints is the number of endpoints the query was addressed to
	Endpoints int
	Failed    int
	Error     string
	// Results is only populated by Get
	Results []Result
}

// Result is the recorded outcome of one endpoint
type Result struct {
	Endpoint string
	Status   int
	Duration time.Duration
	Body     string
	Error    string
}

// Store persists runs in SQLite
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A :memory: database exists per connection
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	PRAGMA foreign_keys = ON;
	PRAGMA busy_timeout = 5000;

	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		query TEXT NOT NULL,
		state TEXT NOT NULL,
		endpoints INTEGER NOT NULL,
		failed INTEGER NOT NULL DEFAULT 0,
		error TEXT
	);

	CREATE TABLE IF NOT EXISTS results (
		run_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		endpoint TEXT NOT NULL,
		status INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		body TEXT,
		error TEXT,
		PRIMARY KEY (run_id, position),
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Record stores run and its results in one transaction and returns the run ID.
// A new UUID is assigned when run.ID is empty.
func (s *Store) Record(ctx context.Context, run *Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, finished_at, query, state, endpoints, failed, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.StartedAt.UnixNano(), run.FinishedAt.UnixNano(), run.Query, run.State,
		run.Endpoints, run.Failed, stringToNull(run.Error))
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	for i, r := range run.Results {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO results (run_id, position, endpoint, status, duration_ms, body, error)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, run.ID, i, r.Endpoint, r.Status, r.Duration.Milliseconds(), stringToNull(r.Body), stringToNull(r.Error))
		if err != nil {
			return "", fmt.Errorf("failed to insert result %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	return run.ID, nil
}

// List returns the most recent runs first, without their results
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, query, state, endpoints, failed, error
		FROM runs
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Get returns one run with its results in endpoint order
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, started_at, finished_at, query, state, endpoints, failed, error
		FROM runs WHERE id = ?
	`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT endpoint, status, duration_ms, body, error
		FROM results WHERE run_id = ?
		ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			r          Result
			durationMS int64
			body, msg  sql.NullString
		)
		if err := rows.Scan(&r.Endpoint, &r.Status, &durationMS, &body, &msg); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		r.Body = nullToString(body)
		r.Error = nullToString(msg)
		run.Results = append(run.Results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &run, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		run               Run
		started, finished int64
		msg               sql.NullString
	)
	err := sc.Scan(&run.ID, &started, &finished, &run.Query, &run.State, &run.Endpoints, &run.Failed, &msg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("failed to scan run: %w", err)
	}
	run.StartedAt = time.Unix(0, started)
	run.FinishedAt = time.Unix(0, finished)
	run.Error = nullToString(msg)
	return run, nil
}

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// stringToNull stores "" as NULL
func stringToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
