package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"mcpt-lab/internal/domain"
	"mcpt-lab/internal/storage"
)

// RunStore implements storage.RunStore using PostgreSQL.
type RunStore struct {
	pool *Pool
}

// NewRunStore creates a new RunStore.
func NewRunStore(pool *Pool) *RunStore {
	return &RunStore{pool: pool}
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

	query := `
		INSERT INTO runs (` + runColumns + `)
		VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17
		)
	`

	_, err := s.pool.Exec(ctx, query,
		r.RunID, r.Dataset, r.Lookback, r.Replications, r.Seed, r.Prices,
		r.PValue, r.TotalTrend, r.OriginalReturn, r.OriginalTrendComponent, r.OriginalLongCount,
		r.OriginalRiseThreshold, r.OriginalDropThreshold, r.MeanTrainingBias, r.UnbiasedReturn, r.Skill,
		r.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateRun
		}
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
func (s *RunStore) GetByID(ctx context.Context, runID string) (*domain.RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE run_id = $1`

	rows, err := s.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("get run by id: %w", err)
	}

	r, err := pgx.CollectOneRow(rows, scanRun)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	return r, nil
}

// GetByDataset retrieves all runs for a dataset, ordered by created_at ASC,
// run_id ASC.
func (s *RunStore) GetByDataset(ctx context.Context, dataset string) ([]*domain.RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM runs
		WHERE dataset = $1 ORDER BY created_at ASC, run_id ASC`

	rows, err := s.pool.Query(ctx, query, dataset)
	if err != nil {
		return nil, fmt.Errorf("get runs by dataset: %w", err)
	}

	runs, err := pgx.CollectRows(rows, scanRun)
	if err != nil {
		return nil, fmt.Errorf("collect runs: %w", err)
	}
	return runs, nil
}

// GetAll retrieves every archived run, ordered by created_at ASC, run_id ASC.
func (s *RunStore) GetAll(ctx context.Context) ([]*domain.RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at ASC, run_id ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all runs: %w", err)
	}

	runs, err := pgx.CollectRows(rows, scanRun)
	if err != nil {
		return nil, fmt.Errorf("collect runs: %w", err)
	}
	return runs, nil
}

func scanRun(row pgx.CollectableRow) (*domain.RunRecord, error) {
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
