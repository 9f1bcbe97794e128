// Package sqlite implements the run archive on a local SQLite file, the
// default backend for a single-machine CLI: no server, one file, safe to
// commit alongside experiment notes.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite handle for dependency injection.
type DB struct {
	*sql.DB
}

// Open opens (or creates) the SQLite database at path and applies the
// schema.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so a report command can read while a run is writing.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &DB{DB: db}, nil
}

func migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id                   TEXT PRIMARY KEY,
			dataset                  TEXT NOT NULL,
			lookback                 INTEGER NOT NULL,
			replications             INTEGER NOT NULL,
			seed                     INTEGER NOT NULL,
			prices                   INTEGER NOT NULL,
			p_value                  REAL NOT NULL,
			total_trend              REAL NOT NULL,
			original_return          REAL NOT NULL,
			original_trend_component REAL NOT NULL,
			original_nlong           INTEGER NOT NULL,
			rise_threshold           REAL NOT NULL,
			drop_threshold           REAL NOT NULL,
			mean_training_bias       REAL NOT NULL,
			unbiased_return          REAL NOT NULL,
			skill                    REAL NOT NULL,
			created_at               INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_dataset ON runs(dataset)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database handle.
func (d *DB) Close() error {
	return d.DB.Close()
}
