// Package mcpt orchestrates the Monte Carlo permutation test: replication 0
// scores the real price path, every later replication scores a freshly
// permuted path, and the spread between them yields the p-value and the
// bias-corrected skill and return estimates.
package mcpt

import (
	"errors"

	"mcpt-lab/internal/domain"
	"mcpt-lab/internal/optimizer"
	"mcpt-lab/internal/permute"
)

// Driver errors. All validation happens here, before any replication runs;
// the optimizer and permutation engine have no failure modes of their own.
var (
	// ErrInvalidLookback is returned when lookback is less than 1.
	ErrInvalidLookback = errors.New("lookback must be at least 1")

	// ErrInsufficientData is returned when the series does not extend at
	// least 10 bars past the lookback window.
	ErrInsufficientData = errors.New("number of prices must be at least 10 greater than lookback")

	// ErrTooFewReplications is returned for nreps < 2. A single replication
	// leaves the mean training bias undefined (division by nreps-1).
	ErrTooFewReplications = errors.New("replication count must be at least 2")
)

// Replication records the outcome of one optimizer pass.
type Replication struct {
	Index          int
	Result         optimizer.Result
	TrendComponent float64 // LongCount * per-bar trend of the unpermuted series
	TrainingBias   float64 // Result.TotalReturn - TrendComponent
}

// Summary holds the finalized run statistics.
type Summary struct {
	Prices       int
	Replications int
	Lookback     int

	// PValue is the one-sided probability, under the null hypothesis that
	// the rule has no edge beyond trend exposure, of a real-data result at
	// least this good arising from chance.
	PValue float64

	TotalTrend             float64 // open[n-1] - open[lookback+1], unpermuted
	OriginalReturn         float64
	OriginalRiseThreshold  float64
	OriginalDropThreshold  float64
	OriginalLongCount      int
	OriginalTrendComponent float64
	MeanTrainingBias       float64
	UnbiasedReturn         float64 // OriginalReturn - MeanTrainingBias
	Skill                  float64 // UnbiasedReturn - OriginalTrendComponent
}

// Driver owns the price buffers for the lifetime of one run and executes
// the replications strictly in order. The permutation engine mutates the
// shared buffers in place between replications; there is no snapshot or
// restore, and none is needed because each permutation of the same change
// multisets is independently uniform.
type Driver struct {
	series        *domain.PriceSeries
	lookback      int
	nreps         int
	engine        *permute.Engine
	onReplication func(Replication)
}

// Options configures a Driver.
type Options struct {
	Series   *domain.PriceSeries
	Lookback int
	Reps     int
	Source   permute.UniformSource

	// OnReplication, when set, is invoked once per replication as the run
	// progresses, in replication order. Used to stream report lines.
	OnReplication func(Replication)
}

// NewDriver validates the inputs and prepares a run. The change set is
// decomposed here, before any permutation can touch the buffers.
func NewDriver(opts Options) (*Driver, error) {
	if opts.Lookback < 1 {
		return nil, ErrInvalidLookback
	}
	if opts.Series.Len()-opts.Lookback < 10 {
		return nil, ErrInsufficientData
	}
	if opts.Reps < 2 {
		return nil, ErrTooFewReplications
	}

	return &Driver{
		series:        opts.Series,
		lookback:      opts.Lookback,
		nreps:         opts.Reps,
		engine:        permute.NewEngine(opts.Source, opts.Series, opts.Lookback),
		onReplication: opts.OnReplication,
	}, nil
}

// Run executes every replication and finalizes the statistics. The run is
// all-or-nothing: inputs were validated up front and no replication can
// fail, so Run always completes once started.
func (d *Driver) Run() *Summary {
	s := d.series
	n := s.Len()
	lookback := d.lookback

	// Per-bar drift of the unpermuted series across the scored range. The
	// permutation invariants keep this meaningful for permuted paths too.
	totalTrend := s.Open[n-1] - s.Open[lookback+1]
	trendPerBar := totalTrend / float64(n-lookback-2)

	var (
		original               float64
		originalTrendComponent float64
		originalLongCount      int
		originalRise           float64
		originalDrop           float64
		matchCount             int
		cumulativeBias         float64
	)

	for rep := 0; rep < d.nreps; rep++ {
		if rep > 0 {
			// Scoring is next-open-to-open, so keep the terminal
			// open-to-open span intact across the shuffle.
			d.engine.Permute(true)
		}

		res := optimizer.Optimize(s.Open, s.Close, lookback)
		trendComponent := float64(res.LongCount) * trendPerBar

		r := Replication{
			Index:          rep,
			Result:         res,
			TrendComponent: trendComponent,
			TrainingBias:   res.TotalReturn - trendComponent,
		}

		if rep == 0 {
			original = res.TotalReturn
			originalTrendComponent = trendComponent
			originalLongCount = res.LongCount
			originalRise = res.RiseThreshold
			originalDrop = res.DropThreshold
			matchCount = 1 // the baseline matches itself
			cumulativeBias = 0
		} else {
			cumulativeBias += r.TrainingBias
			if res.TotalReturn >= original {
				matchCount++
			}
		}

		if d.onReplication != nil {
			d.onReplication(r)
		}
	}

	meanTrainingBias := cumulativeBias / float64(d.nreps-1)
	unbiasedReturn := original - meanTrainingBias

	return &Summary{
		Prices:                 n,
		Replications:           d.nreps,
		Lookback:               lookback,
		PValue:                 float64(matchCount) / float64(d.nreps),
		TotalTrend:             totalTrend,
		OriginalReturn:         original,
		OriginalRiseThreshold:  originalRise,
		OriginalDropThreshold:  originalDrop,
		OriginalLongCount:      originalLongCount,
		OriginalTrendComponent: originalTrendComponent,
		MeanTrainingBias:       meanTrainingBias,
		UnbiasedReturn:         unbiasedReturn,
		Skill:                  unbiasedReturn - originalTrendComponent,
	}
}
