package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"mcpt-lab/internal/domain"
	"mcpt-lab/internal/storage"
)

// RunStore implements storage.RunStore using SQLite.
type RunStore struct {
	db *DB
}

// NewRunStore creates a new RunStore.
func NewRunStore(db *DB) *RunStore {
	return &RunStore{db: db}
}

// Compile-time interface check.
var _ storage.RunStore = (*RunStore)(nil)

const runColumns = `run_id, dataset, lookback, replications, seed, prices,
	p_value, total_trend, original_return, original_trend_component, original_nlong,
	rise_threshold, drop_threshold, mean_training_bias, unbiased_return, skill, created_at`

// Insert adds a finished run. Returns ErrDuplicateRun if run_id exists.
func (s *RunStore) Insert(ctx context.Context, r *domain.RunRecord) error {
	if r == nil || r.RunID == "" {
		return storage.ErrInvalidInput
	}

	query := `INSERT INTO runs (` + runColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		r.RunID, r.Dataset, r.Lookback, r.Replications, r.Seed, r.Prices,
		r.PValue, r.TotalTrend, r.OriginalReturn, r.OriginalTrendComponent, r.OriginalLongCount,
		r.OriginalRiseThreshold, r.OriginalDropThreshold, r.MeanTrainingBias, r.UnbiasedReturn, r.Skill,
		r.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrDuplicateRun
		}
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
func (s *RunStore) GetByID(ctx context.Context, runID string) (*domain.RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE run_id = ?`

	r, err := scanRun(s.db.QueryRowContext(ctx, query, runID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get run by id: %w", err)
	}
	return r, nil
}

// GetByDataset retrieves all runs for a dataset, ordered by created_at ASC,
// run_id ASC.
func (s *RunStore) GetByDataset(ctx context.Context, dataset string) ([]*domain.RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM runs
		WHERE dataset = ? ORDER BY created_at ASC, run_id ASC`

	rows, err := s.db.QueryContext(ctx, query, dataset)
	if err != nil {
		return nil, fmt.Errorf("get runs by dataset: %w", err)
	}
	defer rows.Close()

	return collectRuns(rows)
}

// GetAll retrieves every archived run, ordered by created_at ASC, run_id ASC.
func (s *RunStore) GetAll(ctx context.Context) ([]*domain.RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at ASC, run_id ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all runs: %w", err)
	}
	defer rows.Close()

	return collectRuns(rows)
}

// rowScanner abstracts *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*domain.RunRecord, error) {
	var r domain.RunRecord
	err := row.Scan(
		&r.RunID, &r.Dataset, &r.Lookback, &r.Replications, &r.Seed, &r.Prices,
		&r.PValue, &r.TotalTrend, &r.OriginalReturn, &r.OriginalTrendComponent, &r.OriginalLongCount,
		&r.OriginalRiseThreshold, &r.OriginalDropThreshold, &r.MeanTrainingBias, &r.UnbiasedReturn, &r.Skill,
		&r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func collectRuns(rows *sql.Rows) ([]*domain.RunRecord, error) {
	var result []*domain.RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return result, nil
}

// isUniqueViolation checks for a primary key conflict. The modernc driver
// reports constraint failures as plain error strings.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
