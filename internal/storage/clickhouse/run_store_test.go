package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"mcpt-lab/internal/domain"
	"mcpt-lab/internal/storage"
)

func testRun(id, dataset string, createdAt int64) *domain.RunRecord {
	return &domain.RunRecord{
		RunID:                  id,
		Dataset:                dataset,
		Lookback:               100,
		Replications:           1000,
		Seed:                   123456789,
		Prices:                 2500,
		PValue:                 0.042,
		TotalTrend:             0.815,
		OriginalReturn:         1.234,
		OriginalTrendComponent: 0.456,
		OriginalLongCount:      1400,
		OriginalRiseThreshold:  0.025,
		OriginalDropThreshold:  0.0015,
		MeanTrainingBias:       0.321,
		UnbiasedReturn:         0.913,
		Skill:                  0.457,
		CreatedAt:              createdAt,
	}
}

func TestRunStore_InsertAndGetByID(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewRunStore(conn)
	ctx := context.Background()

	run := testRun("run-1", "oex.txt", 1000)
	require.NoError(t, store.Insert(ctx, run))

	got, err := store.GetByID(ctx, "run-1")
	require.NoError(t, err)
	require.Equal(t, run, got)
}

func TestRunStore_InsertDuplicate(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewRunStore(conn)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testRun("run-1", "oex.txt", 1000)))

	err := store.Insert(ctx, testRun("run-1", "other.txt", 2000))
	require.ErrorIs(t, err, storage.ErrDuplicateRun)
}

func TestRunStore_InsertInvalidInput(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewRunStore(conn)
	ctx := context.Background()

	require.ErrorIs(t, store.Insert(ctx, nil), storage.ErrInvalidInput)
	require.ErrorIs(t, store.Insert(ctx, &domain.RunRecord{}), storage.ErrInvalidInput)
}

func TestRunStore_GetByIDNotFound(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewRunStore(conn)

	_, err := store.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRunStore_GetByDatasetOrdering(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewRunStore(conn)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testRun("b", "oex.txt", 2000)))
	require.NoError(t, store.Insert(ctx, testRun("a", "oex.txt", 2000)))
	require.NoError(t, store.Insert(ctx, testRun("c", "oex.txt", 1000)))
	require.NoError(t, store.Insert(ctx, testRun("d", "spx.txt", 500)))

	runs, err := store.GetByDataset(ctx, "oex.txt")
	require.NoError(t, err)
	require.Len(t, runs, 3)

	// created_at ASC, run_id ASC
	require.Equal(t, "c", runs[0].RunID)
	require.Equal(t, "a", runs[1].RunID)
	require.Equal(t, "b", runs[2].RunID)
}

func TestRunStore_GetAll(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewRunStore(conn)
	ctx := context.Background()

	runs, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Empty(t, runs)

	require.NoError(t, store.Insert(ctx, testRun("r1", "oex.txt", 1000)))
	require.NoError(t, store.Insert(ctx, testRun("r2", "spx.txt", 500)))

	runs, err = store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, "r2", runs[0].RunID)
}
