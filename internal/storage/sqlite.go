//go:build sqlite

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/outbreaklab/epidemic-core/pkg/models"

	_ "modernc.org/sqlite"
)

// SQLiteStore archives runs in a sqlite database. Run metadata lives in
// queryable columns; experiment results are stored as a JSON payload.
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func newSQLiteStore(path string) (Store, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	return NewSQLiteStore(path), nil
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run models.StoredRun) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	results, err := json.Marshal(run.Results)
	if err != nil {
		return fmt.Errorf("encode results for run %s: %w", run.ID, err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, name, status, scenario_yaml, error, created_at_unix_ms, ended_at_unix_ms, results)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			status = excluded.status,
			scenario_yaml = excluded.scenario_yaml,
			error = excluded.error,
			created_at_unix_ms = excluded.created_at_unix_ms,
			ended_at_unix_ms = excluded.ended_at_unix_ms,
			results = excluded.results
	`, run.ID, run.Name, string(run.Status), run.ScenarioYAML, run.Error, run.CreatedAtUnixMs, run.EndedAtUnixMs, results)
	return err
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (models.StoredRun, error) {
	db, err := s.getDB()
	if err != nil {
		return models.StoredRun{}, err
	}

	row := db.QueryRowContext(ctx, `
		SELECT id, name, status, scenario_yaml, error, created_at_unix_ms, ended_at_unix_ms, results
		FROM runs WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.StoredRun{}, ErrRunNotFound
		}
		return models.StoredRun{}, err
	}
	return run, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]models.StoredRun, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, status, scenario_yaml, error, created_at_unix_ms, ended_at_unix_ms, results
		FROM runs ORDER BY created_at_unix_ms DESC, id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.StoredRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (models.StoredRun, error) {
	var run models.StoredRun
	var status string
	var results []byte
	err := row.Scan(&run.ID, &run.Name, &status, &run.ScenarioYAML, &run.Error,
		&run.CreatedAtUnixMs, &run.EndedAtUnixMs, &results)
	if err != nil {
		return models.StoredRun{}, err
	}
	run.Status = models.RunStatus(status)
	if len(results) > 0 {
		if err := json.Unmarshal(results, &run.Results); err != nil {
			return models.StoredRun{}, fmt.Errorf("decode results for run %s: %w", run.ID, err)
		}
	}
	return run, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			scenario_yaml TEXT NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			created_at_unix_ms INTEGER NOT NULL,
			ended_at_unix_ms INTEGER NOT NULL,
			results BLOB
		);
	`)
	return err
}
