package domain

// RunRecord is the archived outcome of one complete permutation-test run.
// Only final aggregates are stored; per-replication data is transient.
type RunRecord struct {
	RunID   string // deterministic hash, see idhash.ComputeRunID
	Dataset string // market data file the run was scored on

	// Inputs
	Lookback     int
	Replications int
	Seed         int
	Prices       int // bars read from the dataset

	// Outcome
	PValue                 float64
	TotalTrend             float64
	OriginalReturn         float64
	OriginalTrendComponent float64
	OriginalLongCount      int
	OriginalRiseThreshold  float64
	OriginalDropThreshold  float64
	MeanTrainingBias       float64
	UnbiasedReturn         float64
	Skill                  float64

	// Metadata
	CreatedAt int64 // Unix timestamp in milliseconds
}
