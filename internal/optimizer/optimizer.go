// Package optimizer fits the mean-reversion rule thresholds to a price
// history by exhaustive grid search.
package optimizer

// Threshold grid. Rise is the long-term rise over the lookback window,
// drop is the previous session's pullback.
const (
	GridSteps = 50
	RiseStep  = 0.005
	DropStep  = 0.0005
)

// Result holds the best threshold pair found and its performance.
type Result struct {
	TotalReturn   float64 // cumulative log return under the best pair
	RiseThreshold float64 // winning long-term rise threshold
	DropThreshold float64 // winning short-term drop threshold
	LongCount     int     // bars that triggered a long entry under the best pair
}

// Optimize exhaustively evaluates the threshold grid against the given log
// prices and returns the best achievable cumulative return.
//
// The rule enters long at bar i when the close has risen at least
// riseThresh over the past lookback bars and dropped at least dropThresh
// since the previous close. The realized return is the conservative
// next-open-to-open return open[i+2]-open[i+1]: entry at the open following
// the signal, exit one session later, so there is no look-ahead.
//
// Ties never replace the incumbent; the first grid cell to reach the best
// total wins. The caller guarantees len(close)-lookback >= 10.
func Optimize(open, close []float64, lookback int) Result {
	ncases := len(close)

	var best Result
	best.TotalReturn = -1.e60

	for irise := 1; irise <= GridSteps; irise++ {
		riseThresh := float64(irise) * RiseStep
		for idrop := 1; idrop <= GridSteps; idrop++ {
			dropThresh := float64(idrop) * DropStep

			totalReturn := 0.0
			nl := 0

			for i := lookback; i < ncases-2; i++ {
				rise := close[i] - close[i-lookback]
				drop := close[i-1] - close[i]

				if rise >= riseThresh && drop >= dropThresh {
					totalReturn += open[i+2] - open[i+1]
					nl++
				}
			}

			if totalReturn > best.TotalReturn {
				best.TotalReturn = totalReturn
				best.RiseThreshold = riseThresh
				best.DropThreshold = dropThresh
				best.LongCount = nl
			}
		}
	}

	return best
}
