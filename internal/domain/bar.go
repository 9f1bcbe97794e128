package domain

// Bar represents one trading session in natural-log price space.
// Invariant: Low <= Open <= High and Low <= Close <= High.
type Bar struct {
	Date  int     // session date as YYYYMMDD
	Open  float64 // natural log of open price
	High  float64 // natural log of high price
	Low   float64 // natural log of low price
	Close float64 // natural log of close price
}

// PriceSeries holds a chronological OHLC price history as four parallel
// slices of log prices. The struct-of-arrays layout keeps the hot loops of
// the optimizer and permutation engine on contiguous memory.
type PriceSeries struct {
	Dates []int     // session dates as YYYYMMDD
	Open  []float64 // natural log of open prices
	High  []float64 // natural log of high prices
	Low   []float64 // natural log of low prices
	Close []float64 // natural log of close prices
}

// NewPriceSeries creates an empty series with capacity for n bars.
func NewPriceSeries(n int) *PriceSeries {
	return &PriceSeries{
		Dates: make([]int, 0, n),
		Open:  make([]float64, 0, n),
		High:  make([]float64, 0, n),
		Low:   make([]float64, 0, n),
		Close: make([]float64, 0, n),
	}
}

// Len returns the number of bars in the series.
func (s *PriceSeries) Len() int {
	return len(s.Close)
}

// Append adds one bar to the end of the series.
func (s *PriceSeries) Append(b Bar) {
	s.Dates = append(s.Dates, b.Date)
	s.Open = append(s.Open, b.Open)
	s.High = append(s.High, b.High)
	s.Low = append(s.Low, b.Low)
	s.Close = append(s.Close, b.Close)
}

// Bar returns the bar at index i.
func (s *PriceSeries) Bar(i int) Bar {
	return Bar{
		Date:  s.Dates[i],
		Open:  s.Open[i],
		High:  s.High[i],
		Low:   s.Low[i],
		Close: s.Close[i],
	}
}

// Clone returns a deep copy of the series. The permutation engine mutates
// prices in place, so callers that need the original must copy first.
func (s *PriceSeries) Clone() *PriceSeries {
	c := &PriceSeries{
		Dates: make([]int, len(s.Dates)),
		Open:  make([]float64, len(s.Open)),
		High:  make([]float64, len(s.High)),
		Low:   make([]float64, len(s.Low)),
		Close: make([]float64, len(s.Close)),
	}
	copy(c.Dates, s.Dates)
	copy(c.Open, s.Open)
	copy(c.High, s.High)
	copy(c.Low, s.Low)
	copy(c.Close, s.Close)
	return c
}
