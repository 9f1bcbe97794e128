package domain

// RelativeChangeSet holds the bar-to-bar relative changes of an evaluation
// sub-range, decomposed once from the original prices. The four slices are
// parallel and have length one less than the sub-range: element i describes
// how bar i+1 relates to bar i within the sub-range.
//
// OpenGap is the overnight close-to-open change; HighGap, LowGap and
// CloseGap are intraday offsets from the bar's own open. Keeping the
// intraday triple together lets a shuffle move whole bar shapes while the
// overnight gaps are shuffled independently.
type RelativeChangeSet struct {
	OpenGap  []float64 // open[i+1] - close[i]
	HighGap  []float64 // high[i+1] - open[i+1]
	LowGap   []float64 // low[i+1] - open[i+1]
	CloseGap []float64 // close[i+1] - open[i+1]
}

// NewRelativeChangeSet allocates a change set for a sub-range of nc bars.
func NewRelativeChangeSet(nc int) *RelativeChangeSet {
	return &RelativeChangeSet{
		OpenGap:  make([]float64, nc-1),
		HighGap:  make([]float64, nc-1),
		LowGap:   make([]float64, nc-1),
		CloseGap: make([]float64, nc-1),
	}
}

// Len returns the number of change entries.
func (c *RelativeChangeSet) Len() int {
	return len(c.OpenGap)
}
