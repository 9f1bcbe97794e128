package optimizer

import (
	"math"
	"testing"

	"mcpt-lab/internal/rng"
)

// evaluateCell recomputes the total return and long count for one grid cell
// independently of Optimize, for cross-checking.
func evaluateCell(open, close []float64, lookback int, riseThresh, dropThresh float64) (float64, int) {
	total := 0.0
	nl := 0
	for i := lookback; i < len(close)-2; i++ {
		rise := close[i] - close[i-lookback]
		drop := close[i-1] - close[i]
		if rise >= riseThresh && drop >= dropThresh {
			total += open[i+2] - open[i+1]
			nl++
		}
	}
	return total, nl
}

// randomSeries builds a plausible random-walk log price series.
func randomSeries(n int, seed int) (open, close []float64) {
	g := rng.New(seed)
	open = make([]float64, n)
	close = make([]float64, n)
	price := math.Log(100.0)
	for i := 0; i < n; i++ {
		open[i] = price + 0.02*(g.Uniform()-0.5)
		close[i] = open[i] + 0.03*(g.Uniform()-0.5)
		price = close[i]
	}
	return open, close
}

func TestOptimizeMatchesBruteForce(t *testing.T) {
	const lookback = 5
	open, close := randomSeries(120, 7)

	got := Optimize(open, close, lookback)

	// Recompute the maximum over all 2500 cells independently.
	best := -1.e60
	for irise := 1; irise <= GridSteps; irise++ {
		for idrop := 1; idrop <= GridSteps; idrop++ {
			total, _ := evaluateCell(open, close, lookback,
				float64(irise)*RiseStep, float64(idrop)*DropStep)
			if total > best {
				best = total
			}
		}
	}

	if got.TotalReturn != best {
		t.Errorf("best total %v does not match brute-force maximum %v", got.TotalReturn, best)
	}

	// The reported thresholds must reproduce the reported total and count.
	total, nl := evaluateCell(open, close, lookback, got.RiseThreshold, got.DropThreshold)
	if total != got.TotalReturn {
		t.Errorf("winning pair re-evaluates to %v, reported %v", total, got.TotalReturn)
	}
	if nl != got.LongCount {
		t.Errorf("winning pair re-evaluates to %d longs, reported %d", nl, got.LongCount)
	}
}

func TestOptimizeFirstFoundWinsTies(t *testing.T) {
	// A flat series yields a total of 0.0 for every grid cell, so the very
	// first cell evaluated must be the winner.
	n := 40
	open := make([]float64, n)
	close := make([]float64, n)
	for i := range open {
		open[i] = math.Log(100.0)
		close[i] = math.Log(100.0)
	}

	got := Optimize(open, close, 3)

	if got.TotalReturn != 0.0 {
		t.Errorf("expected total 0.0, got %v", got.TotalReturn)
	}
	if got.RiseThreshold != RiseStep || got.DropThreshold != DropStep {
		t.Errorf("tie not won by first cell: rise=%v drop=%v", got.RiseThreshold, got.DropThreshold)
	}
}

func TestOptimizeNoSignals(t *testing.T) {
	// Four bars with lookback 1: the evaluation window [1, n-3] is a single
	// bar, and a monotonically falling close can never satisfy the rise
	// condition, so every cell totals zero with no longs.
	open := []float64{4.60, 4.59, 4.58, 4.57}
	close := []float64{4.60, 4.59, 4.58, 4.57}

	got := Optimize(open, close, 1)

	if got.TotalReturn != 0.0 {
		t.Errorf("expected total 0.0, got %v", got.TotalReturn)
	}
	if got.LongCount != 0 {
		t.Errorf("expected 0 longs, got %d", got.LongCount)
	}
}

func TestOptimizeCountsLongs(t *testing.T) {
	// Construct a series where the loosest thresholds fire on a known bar:
	// a strong rise into bar i followed by a sharp one-bar drop.
	open := []float64{0, 0.10, 0.20, 0.30, 0.40, 0.50, 0.60}
	close := []float64{0, 0.30, 0.25, 0.30, 0.40, 0.50, 0.60}

	// lookback 1, evaluation bars are i=1..4.
	// i=2: rise = close[2]-close[1] = -0.05 (no); i=1: rise = 0.30 and
	// drop = close[0]-close[1] = -0.30 (no). i=3: rise 0.05, drop -0.05.
	// Only thresholds can decide; cross-check against the brute evaluator.
	got := Optimize(open, close, 1)
	total, nl := evaluateCell(open, close, 1, got.RiseThreshold, got.DropThreshold)
	if total != got.TotalReturn || nl != got.LongCount {
		t.Errorf("reported (%v,%d) does not match re-evaluation (%v,%d)",
			got.TotalReturn, got.LongCount, total, nl)
	}
}
