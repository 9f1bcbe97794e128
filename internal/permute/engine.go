// Package permute produces randomized price paths that preserve the
// statistical texture of the original history: the anchor bar is fixed,
// each bar keeps its internal shape, and the multisets of overnight and
// intraday changes are exactly those of the real data.
package permute

import "mcpt-lab/internal/domain"

// UniformSource supplies uniform deviates in [0,1]. Satisfied by
// *rng.MWC256; tests inject degenerate sources to force known shuffles.
type UniformSource interface {
	Uniform() float64
}

// Engine shuffles the evaluation sub-range [first, n-1] of a shared price
// series in place. The relative changes are decomposed once from the
// original data at construction; every Permute call reshuffles the same
// change multisets, so successive calls each yield an independent uniform
// permutation rather than a compounding drift.
type Engine struct {
	src     UniformSource
	series  *domain.PriceSeries
	first   int // anchor index; this bar is never altered
	changes *domain.RelativeChangeSet
}

// NewEngine decomposes the sub-range [first, series.Len()-1] into relative
// changes and returns an engine ready to permute. The series must not be
// mutated by anyone else for the engine's lifetime.
func NewEngine(src UniformSource, series *domain.PriceSeries, first int) *Engine {
	nc := series.Len() - first
	changes := domain.NewRelativeChangeSet(nc)

	for i := first + 1; i < series.Len(); i++ {
		k := i - first - 1
		changes.OpenGap[k] = series.Open[i] - series.Close[i-1]
		changes.HighGap[k] = series.High[i] - series.Open[i]
		changes.LowGap[k] = series.Low[i] - series.Open[i]
		changes.CloseGap[k] = series.Close[i] - series.Open[i]
	}

	return &Engine{src: src, series: series, first: first, changes: changes}
}

// Changes exposes the relative change set for inspection in tests.
func (e *Engine) Changes() *domain.RelativeChangeSet {
	return e.changes
}

// Permute shuffles the relative changes and rebuilds the sub-range prices
// in place. The overnight gaps and the intraday high/low/close triples are
// shuffled independently of each other: they represent different market
// frictions (gap risk vs intraday range) and decoupling them is the point.
//
// When preserveOO is set, the first overnight gap and the last intraday
// triple stay put, which keeps the telescoped open-to-open change across
// the whole sub-range invariant. That is required when the scoring return
// is itself open-to-open.
func (e *Engine) Permute(preserveOO bool) {
	nc := e.series.Len() - e.first
	keep := 0
	if preserveOO {
		keep = 1
	}

	// Shuffle the close-to-open changes.
	og := e.changes.OpenGap
	i := nc - 1 - keep
	for i > 1 {
		j := int(e.src.Uniform() * float64(i))
		if j >= i { // Uniform can return exactly 1
			j = i - 1
		}
		i--
		og[i+keep], og[j+keep] = og[j+keep], og[i+keep]
	}

	// Shuffle the open-to-close changes, moving each bar's high, low and
	// close together so its internal shape survives. No offset here: the
	// reduced count leaves the LAST triple fixed instead of the first.
	hg, lg, cg := e.changes.HighGap, e.changes.LowGap, e.changes.CloseGap
	i = nc - 1 - keep
	for i > 1 {
		j := int(e.src.Uniform() * float64(i))
		if j >= i {
			j = i - 1
		}
		i--
		hg[i], hg[j] = hg[j], hg[i]
		lg[i], lg[j] = lg[j], lg[i]
		cg[i], cg[j] = cg[j], cg[i]
	}

	// Rebuild the absolute prices forward from the anchor. Each bar chains
	// off the previous bar's just-rebuilt close, so this is sequential.
	s := e.series
	for idx := e.first + 1; idx < s.Len(); idx++ {
		k := idx - e.first - 1
		s.Open[idx] = s.Close[idx-1] + og[k]
		s.High[idx] = s.Open[idx] + hg[k]
		s.Low[idx] = s.Open[idx] + lg[k]
		s.Close[idx] = s.Open[idx] + cg[k]
	}
}
