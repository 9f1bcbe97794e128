// Package marketdata reads a market history file into a log-price series.
// Any malformed line is fatal: the run either starts with a fully valid
// series or not at all.
package marketdata

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"mcpt-lab/internal/domain"
)

// Parse errors. Callers match with errors.Is; the wrapped message carries
// the offending line number.
var (
	// ErrMalformedDate is returned when the date field is not exactly
	// eight ASCII digits.
	ErrMalformedDate = errors.New("malformed date field")

	// ErrMalformedPrice is returned when a price field is missing, not a
	// decimal number, or not positive.
	ErrMalformedPrice = errors.New("malformed price field")

	// ErrOHLCInvariant is returned when a bar violates
	// low <= open,close <= high.
	ErrOHLCInvariant = errors.New("open/high/low/close invariant violated")
)

// Load reads and parses the market history file at path.
func Load(path string) (*domain.PriceSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open market history file: %w", err)
	}
	defer f.Close()

	series, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return series, nil
}

// Parse reads bars from r, one per line: YYYYMMDD Open High Low Close,
// fields separated by spaces, tabs or commas. Prices are stored as their
// natural logarithms.
func Parse(r io.Reader) (*domain.PriceSeries, error) {
	series := domain.NewPriceSeries(0)

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			// The history ends at the first blank line.
			break
		}

		bar, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		series.Append(bar)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read line %d: %w", lineNo+1, err)
	}

	return series, nil
}

// isDelim reports whether c separates fields.
func isDelim(c rune) bool {
	return c == ' ' || c == '\t' || c == ','
}

func parseLine(line string) (domain.Bar, error) {
	fields := strings.FieldsFunc(line, isDelim)
	if len(fields) < 5 {
		return domain.Bar{}, fmt.Errorf("%w: expected date and four prices, got %d fields", ErrMalformedPrice, len(fields))
	}

	date, err := parseDate(fields[0])
	if err != nil {
		return domain.Bar{}, err
	}

	var prices [4]float64
	for i, name := range [4]string{"open", "high", "low", "close"} {
		v, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil || v <= 0 {
			return domain.Bar{}, fmt.Errorf("%w: %s %q", ErrMalformedPrice, name, fields[i+1])
		}
		prices[i] = math.Log(v)
	}

	bar := domain.Bar{
		Date:  date,
		Open:  prices[0],
		High:  prices[1],
		Low:   prices[2],
		Close: prices[3],
	}

	if bar.Low > bar.Open || bar.Low > bar.Close || bar.High < bar.Open || bar.High < bar.Close {
		return domain.Bar{}, ErrOHLCInvariant
	}

	return bar, nil
}

// parseDate validates the YYYYMMDD field: exactly eight ASCII digits.
func parseDate(s string) (int, error) {
	if len(s) != 8 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}
	date := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: %q", ErrMalformedDate, s)
		}
		date = date*10 + int(c-'0')
	}
	return date, nil
}
