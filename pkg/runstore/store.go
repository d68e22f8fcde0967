// Package runstore persists completed optimization runs to SQLite so that
// convergence histories and the best parameters found against billed
// backends survive the process.
package runstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/quantalab/qevo-go/pkg/core"
	"github.com/quantalab/qevo-go/pkg/errors"
)

// RunRecord is one persisted optimization run.
type RunRecord struct {
	ID          string
	Backend     string
	Target      core.Pattern
	BestFitness float64
	BestParams  core.ParameterVector
	History     []float64
	Generations int
	Evaluations int
	TotalShots  int
	CreatedAt   time.Time
}

// Store is a SQLite-backed archive of optimization runs.
type Store struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string

	initialized sync.Once
}

// New opens (or creates) the run store at the given path. Use ":memory:"
// for an ephemeral store.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.Unknown, "failed to open run store"),
			errors.Fields{"path": path},
		)
	}

	store := &Store{
		db:   db,
		path: path,
	}
	if err := store.ensureInitialized(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Store) ensureInitialized() error {
	var initErr error
	s.initialized.Do(func() {
		// Enable WAL mode for better concurrency
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			initErr = errors.Wrap(err, errors.Unknown, "failed to enable WAL mode")
			return
		}

		query := `
        CREATE TABLE IF NOT EXISTS runs (
            id TEXT PRIMARY KEY,
            backend TEXT NOT NULL,
            target INTEGER NOT NULL,
            best_fitness REAL NOT NULL,
            best_params TEXT NOT NULL,
            history TEXT NOT NULL,
            generations INTEGER NOT NULL,
            evaluations INTEGER NOT NULL,
            total_shots INTEGER NOT NULL,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP
        );

        CREATE INDEX IF NOT EXISTS idx_runs_target
        ON runs(target, best_fitness);
        `

		if _, err := s.db.Exec(query); err != nil {
			initErr = errors.WithFields(
				errors.Wrap(err, errors.Unknown, "failed to initialize run store"),
				errors.Fields{"query": query},
			)
			return
		}
	})
	return initErr
}

// Save persists one run. A missing ID is filled in; the assigned ID is
// written back to the record.
func (s *Store) Save(ctx context.Context, record *RunRecord) error {
	if err := errors.CheckContext(ctx, "run store save"); err != nil {
		return err
	}
	if record.ID == "" {
		record.ID = uuid.New().String()
	}

	params, err := json.Marshal(record.BestParams)
	if err != nil {
		return errors.Wrap(err, errors.InvalidInput, "failed to marshal parameters")
	}
	history, err := json.Marshal(record.History)
	if err != nil {
		return errors.Wrap(err, errors.InvalidInput, "failed to marshal history")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
    INSERT INTO runs (id, backend, target, best_fitness, best_params, history, generations, evaluations, total_shots)
    VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err = s.db.ExecContext(ctx, query,
		record.ID,
		record.Backend,
		int64(record.Target),
		record.BestFitness,
		string(params),
		string(history),
		record.Generations,
		record.Evaluations,
		record.TotalShots,
	)
	if err != nil {
		return errors.WithFields(
			errors.Wrap(err, errors.Unknown, "failed to save run"),
			errors.Fields{"id": record.ID},
		)
	}
	return nil
}

// Get retrieves one run by ID.
func (s *Store) Get(ctx context.Context, id string) (*RunRecord, error) {
	if err := errors.CheckContext(ctx, "run store get"); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
    SELECT id, backend, target, best_fitness, best_params, history, generations, evaluations, total_shots, created_at
    FROM runs WHERE id = ?
    `
	record, err := scanRun(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.WithFields(
			errors.New(errors.ResourceNotFound, "run not found"),
			errors.Fields{"id": id},
		)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.Unknown, "failed to retrieve run")
	}
	return record, nil
}

// List returns the most recent runs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]*RunRecord, error) {
	if err := errors.CheckContext(ctx, "run store list"); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
    SELECT id, backend, target, best_fitness, best_params, history, generations, evaluations, total_shots, created_at
    FROM runs ORDER BY created_at DESC, id DESC LIMIT ?
    `
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, errors.Wrap(err, errors.Unknown, "failed to list runs")
	}
	defer rows.Close()

	var records []*RunRecord
	for rows.Next() {
		record, err := scanRun(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.Unknown, "failed to scan run")
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Best returns the highest-fitness run recorded against the given target,
// or a ResourceNotFound error when none exists.
func (s *Store) Best(ctx context.Context, target core.Pattern) (*RunRecord, error) {
	if err := errors.CheckContext(ctx, "run store best"); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
    SELECT id, backend, target, best_fitness, best_params, history, generations, evaluations, total_shots, created_at
    FROM runs WHERE target = ? ORDER BY best_fitness DESC LIMIT 1
    `
	record, err := scanRun(s.db.QueryRowContext(ctx, query, int64(target)))
	if err == sql.ErrNoRows {
		return nil, errors.WithFields(
			errors.New(errors.ResourceNotFound, "no runs for target"),
			errors.Fields{"target": int(target)},
		)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.Unknown, "failed to retrieve best run")
	}
	return record, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*RunRecord, error) {
	var record RunRecord
	var target int64
	var params, history string

	err := row.Scan(
		&record.ID,
		&record.Backend,
		&target,
		&record.BestFitness,
		&params,
		&history,
		&record.Generations,
		&record.Evaluations,
		&record.TotalShots,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Target = core.Pattern(target)
	if err := json.Unmarshal([]byte(params), &record.BestParams); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(history), &record.History); err != nil {
		return nil, err
	}
	return &record, nil
}
