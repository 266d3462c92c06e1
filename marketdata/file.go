package marketdata

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gocarina/gocsv"
)

type csvBar struct {
	Date   string  `csv:"Date"`
	Open   float64 `csv:"Open"`
	High   float64 `csv:"High"`
	Low    float64 `csv:"Low"`
	Close  float64 `csv:"Close"`
	Volume int64   `csv:"Volume"`
}

// FileSource serves a history from a local CSV file with a
// Date,Open,High,Low,Close,Volume header. The symbol argument is only used to
// label the series.
type FileSource struct {
	Path string
}

func (s *FileSource) History(ctx context.Context, symbol string) (*Series, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	defer f.Close()

	var bars []*csvBar
	if err := gocsv.UnmarshalFile(f, &bars); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrDataUnavailable, s.Path, err)
	}

	series := &Series{Symbol: symbol, Points: make([]Point, 0, len(bars))}
	for i, b := range bars {
		date, err := parseDate(b.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: %s row %d: %v", ErrDataUnavailable, s.Path, i+2, err)
		}
		series.Points = append(series.Points, Point{
			Date:   date,
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		})
	}
	sortPoints(series.Points)
	return series, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05-07:00"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}
