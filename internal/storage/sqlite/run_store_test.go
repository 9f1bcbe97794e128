package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"mcpt-lab/internal/domain"
	"mcpt-lab/internal/storage"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sampleRun(id, dataset string, createdAt int64) *domain.RunRecord {
	return &domain.RunRecord{
		RunID:                  id,
		Dataset:                dataset,
		Lookback:               100,
		Replications:           1000,
		Seed:                   123456789,
		Prices:                 2500,
		PValue:                 0.042,
		TotalTrend:             0.8812,
		OriginalReturn:         0.55,
		OriginalTrendComponent: 0.21,
		OriginalLongCount:      73,
		OriginalRiseThreshold:  0.025,
		OriginalDropThreshold:  0.0015,
		MeanTrainingBias:       0.13,
		UnbiasedReturn:         0.42,
		Skill:                  0.21,
		CreatedAt:              createdAt,
	}
}

func TestRunStoreRoundTrip(t *testing.T) {
	store := NewRunStore(setupTestDB(t))
	ctx := context.Background()

	want := sampleRun("r1", "oex.txt", 1000)
	if err := store.Insert(ctx, want); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByID(ctx, "r1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if *got != *want {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestRunStoreDuplicate(t *testing.T) {
	store := NewRunStore(setupTestDB(t))
	ctx := context.Background()

	if err := store.Insert(ctx, sampleRun("r1", "oex.txt", 1000)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	err := store.Insert(ctx, sampleRun("r1", "other.txt", 2000))
	if !errors.Is(err, storage.ErrDuplicateRun) {
		t.Errorf("expected ErrDuplicateRun, got %v", err)
	}
}

func TestRunStoreNotFound(t *testing.T) {
	store := NewRunStore(setupTestDB(t))

	_, err := store.GetByID(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRunStoreInvalidInput(t *testing.T) {
	store := NewRunStore(setupTestDB(t))
	ctx := context.Background()

	if err := store.Insert(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for nil, got %v", err)
	}
	if err := store.Insert(ctx, &domain.RunRecord{}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty ID, got %v", err)
	}
}

func TestRunStoreGetByDatasetOrdered(t *testing.T) {
	store := NewRunStore(setupTestDB(t))
	ctx := context.Background()

	for _, r := range []*domain.RunRecord{
		sampleRun("b", "oex.txt", 2000),
		sampleRun("a", "oex.txt", 2000),
		sampleRun("c", "oex.txt", 1000),
		sampleRun("d", "spx.txt", 500),
	} {
		if err := store.Insert(ctx, r); err != nil {
			t.Fatalf("Insert %s failed: %v", r.RunID, err)
		}
	}

	runs, err := store.GetByDataset(ctx, "oex.txt")
	if err != nil {
		t.Fatalf("GetByDataset failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	wantOrder := []string{"c", "a", "b"}
	for i, want := range wantOrder {
		if runs[i].RunID != want {
			t.Errorf("position %d: got %s, want %s", i, runs[i].RunID, want)
		}
	}
}

func TestRunStoreGetAll(t *testing.T) {
	store := NewRunStore(setupTestDB(t))
	ctx := context.Background()

	_ = store.Insert(ctx, sampleRun("r1", "oex.txt", 1000))
	_ = store.Insert(ctx, sampleRun("r2", "spx.txt", 500))

	runs, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].RunID != "r2" || runs[1].RunID != "r1" {
		t.Errorf("unexpected order: %s, %s", runs[0].RunID, runs[1].RunID)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	store := NewRunStore(db)
	if err := store.Insert(context.Background(), sampleRun("r1", "oex.txt", 1000)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	_ = db.Close()

	// Reopening must keep existing data and not fail on CREATE TABLE.
	db2, err := Open(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer db2.Close()

	got, err := NewRunStore(db2).GetByID(context.Background(), "r1")
	if err != nil {
		t.Fatalf("GetByID after reopen failed: %v", err)
	}
	if got.Dataset != "oex.txt" {
		t.Errorf("unexpected record after reopen: %+v", got)
	}
}
