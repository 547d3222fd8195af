package runrecord

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLStore implements Store with SQLite.
type SQLStore struct {
	db *sql.DB
}

var _ Store = (*SQLStore)(nil)

// Open opens or creates the run database at path, creating the parent
// directory if needed, and brings the schema to the current version.
func Open(path string) (*SQLStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create run db dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	s := &SQLStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) migrate() error {
	var tableCount int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableCount)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableCount == 0 {
		if _, err := s.db.Exec(schema); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_version(version) VALUES(?)", schemaVersion); err != nil {
			return fmt.Errorf("set schema version: %w", err)
		}
		return nil
	}

	var v int
	if err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&v); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if v != schemaVersion {
		return fmt.Errorf("unknown schema version %d", v)
	}
	return nil
}

func (s *SQLStore) Close() error { return s.db.Close() }

func (s *SQLStore) SaveRun(ctx context.Context, run *Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, graph_id, spec_hash, scenario, started_at, finished_at, outcome, failed_step, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			finished_at = excluded.finished_at,
			outcome     = excluded.outcome,
			failed_step = excluded.failed_step,
			error       = excluded.error`,
		run.ID, run.GraphID, run.SpecHash, run.Scenario,
		run.StartedAt.UTC().Format(time.RFC3339), run.FinishedAt.UTC().Format(time.RFC3339),
		string(run.Outcome), run.FailedStep, run.Error,
	)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

func (s *SQLStore) AppendResolution(ctx context.Context, res *Resolution) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO resolutions (run_id, step_text, strategy, confidence, selector, error)
		VALUES (?, ?, ?, ?, ?, ?)`,
		res.RunID, res.StepText, res.Strategy, res.Confidence, res.Selector, res.Error,
	)
	if err != nil {
		return fmt.Errorf("append resolution: %w", err)
	}
	return nil
}

func (s *SQLStore) Run(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, graph_id, spec_hash, scenario, started_at, finished_at, outcome, failed_step, error
		FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load run: %w", err)
	}
	return run, nil
}

// ListRuns returns runs newest first, optionally filtered by graph id.
func (s *SQLStore) ListRuns(ctx context.Context, graphID string) ([]Run, error) {
	query := `
		SELECT id, graph_id, spec_hash, scenario, started_at, finished_at, outcome, failed_step, error
		FROM runs`
	args := []any{}
	if graphID != "" {
		query += " WHERE graph_id = ?"
		args = append(args, graphID)
	}
	query += " ORDER BY started_at DESC, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

func (s *SQLStore) Resolutions(ctx context.Context, runID string) ([]Resolution, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, step_text, strategy, confidence, selector, error
		FROM resolutions WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("list resolutions: %w", err)
	}
	defer rows.Close()

	var out []Resolution
	for rows.Next() {
		var r Resolution
		if err := rows.Scan(&r.RunID, &r.StepText, &r.Strategy, &r.Confidence, &r.Selector, &r.Error); err != nil {
			return nil, fmt.Errorf("scan resolution: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var startedAt, finished, outcome string
	if err := row.Scan(&run.ID, &run.GraphID, &run.SpecHash, &run.Scenario,
		&startedAt, &finished, &outcome, &run.FailedStep, &run.Error); err != nil {
		return nil, err
	}
	run.Outcome = Outcome(outcome)
	var err error
	if run.StartedAt, err = time.Parse(time.RFC3339, startedAt); err != nil {
		return nil, fmt.Errorf("parse started_at: %w", err)
	}
	if run.FinishedAt, err = time.Parse(time.RFC3339, finished); err != nil {
		return nil, fmt.Errorf("parse finished_at: %w", err)
	}
	return &run, nil
}
