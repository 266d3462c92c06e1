package marketdata

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
)

// ErrDataUnavailable means a price could not be resolved from the data source.
var ErrDataUnavailable = errors.New("market data unavailable")

// Point is one daily OHLCV bar.
type Point struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// Series is a date-ordered price history for one symbol.
type Series struct {
	Symbol string
	Points []Point
}

var columns = []string{"Open", "High", "Low", "Close", "Volume"}

func (s *Series) Columns() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(columns))
	copy(out, columns)
	return out
}

func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Points)
}

// LastPrice returns the most recent value of column, matched case-insensitively
// against Columns.
func (s *Series) LastPrice(column string) (float64, error) {
	if s.Len() == 0 {
		return 0, fmt.Errorf("%w: empty price series", ErrDataUnavailable)
	}
	last := s.Points[len(s.Points)-1]

	var v float64
	switch strings.ToLower(column) {
	case "open":
		v = last.Open
	case "high":
		v = last.High
	case "low":
		v = last.Low
	case "close":
		v = last.Close
	case "volume":
		v = float64(last.Volume)
	default:
		return 0, fmt.Errorf("%w: unknown column %q for %s", ErrDataUnavailable, column, s.Symbol)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%w: non-positive %s on %s for %s", ErrDataUnavailable, column, last.Date.Format("2006-01-02"), s.Symbol)
	}
	return v, nil
}

func (s *Series) Closes() []float64 {
	out := make([]float64, 0, s.Len())
	if s == nil {
		return out
	}
	for _, p := range s.Points {
		out = append(out, p.Close)
	}
	return out
}

// Tail returns the last n points.
func (s *Series) Tail(n int) []Point {
	if s == nil {
		return nil
	}
	if len(s.Points) <= n {
		return s.Points
	}
	return s.Points[len(s.Points)-n:]
}

type Summary struct {
	From   time.Time
	To     time.Time
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

// Summary describes the closing prices of the series.
func (s *Series) Summary() (Summary, error) {
	closes := stats.Float64Data(s.Closes())
	if len(closes) == 0 {
		return Summary{}, fmt.Errorf("%w: empty price series", ErrDataUnavailable)
	}

	min, err := closes.Min()
	if err != nil {
		return Summary{}, fmt.Errorf("failed to calculate min: %w", err)
	}
	max, err := closes.Max()
	if err != nil {
		return Summary{}, fmt.Errorf("failed to calculate max: %w", err)
	}
	mean, err := closes.Mean()
	if err != nil {
		return Summary{}, fmt.Errorf("failed to calculate mean: %w", err)
	}
	var sd float64
	if len(closes) > 1 {
		if sd, err = closes.StandardDeviationSample(); err != nil {
			return Summary{}, fmt.Errorf("failed to calculate the standard deviation: %w", err)
		}
	}

	return Summary{
		From:   s.Points[0].Date,
		To:     s.Points[len(s.Points)-1].Date,
		Count:  len(closes),
		Min:    min,
		Max:    max,
		Mean:   mean,
		StdDev: sd,
	}, nil
}
