package clickhouse

import (
	"context"
	"fmt"

	"mcpt-lab/internal/domain"
	"mcpt-lab/internal/storage"
)

// RunStore implements storage.RunStore using ClickHouse.
type RunStore struct {
	conn *Conn
}

// NewRunStore creates a new RunStore.
func NewRunStore(conn *Conn) *RunStore {
	return &RunStore{conn: conn}
}

// Compile-time interface check.
var _ storage.RunStore = (*RunStore)(nil)

const runColumns = `run_id, dataset, lookback, replications, seed, prices,
	p_value, total_trend, original_return, original_trend_component, original_nlong,
	rise_threshold, drop_threshold, mean_training_bias, unbiased_return, skill, created_at`

// Insert adds a finished run. Returns ErrDuplicateRun if run_id exists.
// MergeTree does not enforce uniqueness at insert time, so existence is
// checked explicitly first.
func (s *RunStore) Insert(ctx context.Context, r *domain.RunRecord) error {
	if r == nil || r.RunID == "" {
		return storage.ErrInvalidInput
	}

	exists, err := s.exists(ctx, r.RunID)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateRun
	}

	query := `
		INSERT INTO runs (` + runColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	err = s.conn.Exec(ctx, query,
		r.RunID, r.Dataset, int32(r.Lookback), int32(r.Replications), int64(r.Seed), int32(r.Prices),
		r.PValue, r.TotalTrend, r.OriginalReturn, r.OriginalTrendComponent, int32(r.OriginalLongCount),
		r.OriginalRiseThreshold, r.OriginalDropThreshold, r.MeanTrainingBias, r.UnbiasedReturn, r.Skill,
		r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
func (s *RunStore) GetByID(ctx context.Context, runID string) (*domain.RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE run_id = ? LIMIT 1`

	rows, err := s.conn.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("get run by id: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, storage.ErrNotFound
	}
	return scanRun(rows)
}

// GetByDataset retrieves all runs for a dataset, ordered by created_at ASC,
// run_id ASC.
func (s *RunStore) GetByDataset(ctx context.Context, dataset string) ([]*domain.RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM runs
		WHERE dataset = ? ORDER BY created_at ASC, run_id ASC`

	rows, err := s.conn.Query(ctx, query, dataset)
	if err != nil {
		return nil, fmt.Errorf("get runs by dataset: %w", err)
	}
	defer rows.Close()

	return collectRuns(rows)
}

// GetAll retrieves every archived run, ordered by created_at ASC, run_id ASC.
func (s *RunStore) GetAll(ctx context.Context) ([]*domain.RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at ASC, run_id ASC`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all runs: %w", err)
	}
	defer rows.Close()

	return collectRuns(rows)
}

func (s *RunStore) exists(ctx context.Context, runID string) (bool, error) {
	var count uint64
	row := s.conn.QueryRow(ctx, `SELECT count() FROM runs WHERE run_id = ?`, runID)
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// rowScanner abstracts driver.Row and driver.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*domain.RunRecord, error) {
	var r domain.RunRecord
	var lookback, replications, prices, nlong int32
	var seed int64
	err := row.Scan(
		&r.RunID, &r.Dataset, &lookback, &replications, &seed, &prices,
		&r.PValue, &r.TotalTrend, &r.OriginalReturn, &r.OriginalTrendComponent, &nlong,
		&r.OriginalRiseThreshold, &r.OriginalDropThreshold, &r.MeanTrainingBias, &r.UnbiasedReturn, &r.Skill,
		&r.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}
	r.Lookback = int(lookback)
	r.Replications = int(replications)
	r.Seed = int(seed)
	r.Prices = int(prices)
	r.OriginalLongCount = int(nlong)
	return &r, nil
}

func collectRuns(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]*domain.RunRecord, error) {
	var result []*domain.RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return result, nil
}
