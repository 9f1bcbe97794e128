// Package storage defines the run archive contract and its errors.
// Backends live in subpackages: memory, sqlite, postgres, clickhouse.
package storage

import (
	"context"

	"mcpt-lab/internal/domain"
)

// RunStore provides access to the archive of finished permutation-test
// runs. Only final aggregates are archived; per-replication data never
// leaves the driver.
type RunStore interface {
	// Insert adds a finished run. Returns ErrDuplicateRun if run_id exists.
	Insert(ctx context.Context, r *domain.RunRecord) error

	// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, runID string) (*domain.RunRecord, error)

	// GetByDataset retrieves all runs for a dataset, ordered by
	// created_at ASC, run_id ASC.
	GetByDataset(ctx context.Context, dataset string) ([]*domain.RunRecord, error)

	// GetAll retrieves every archived run, ordered by created_at ASC,
	// run_id ASC.
	GetAll(ctx context.Context) ([]*domain.RunRecord, error)
}
