package storage

import "errors"

// Archive errors. Finished runs are append-only: a run is identified by its
// deterministic ID, so re-running the same experiment is a duplicate, not
// an update.
var (
	// ErrNotFound is returned when a requested run does not exist.
	ErrNotFound = errors.New("run not found")

	// ErrDuplicateRun is returned when inserting a run whose ID already
	// exists in the archive.
	ErrDuplicateRun = errors.New("duplicate run: archive is append-only")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
