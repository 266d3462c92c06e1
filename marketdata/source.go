package marketdata

import (
	"context"
	"fmt"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/bcdannyboy/optpricer/tradier"
)

// Source resolves the price history of a ticker symbol.
type Source interface {
	History(ctx context.Context, symbol string) (*Series, error)
}

// SpotPrice resolves the latest close of symbol from src.
func SpotPrice(ctx context.Context, src Source, symbol string) (float64, error) {
	series, err := src.History(ctx, symbol)
	if err != nil {
		return 0, err
	}
	return series.LastPrice("Close")
}

// TradierSource reads daily bars from the Tradier history endpoint.
type TradierSource struct {
	Client   *tradier.Client
	Lookback time.Duration
	Now      func() time.Time
}

func NewTradierSource(client *tradier.Client, lookback time.Duration) *TradierSource {
	if lookback <= 0 {
		lookback = 365 * 24 * time.Hour
	}
	return &TradierSource{Client: client, Lookback: lookback, Now: time.Now}
}

func (s *TradierSource) History(ctx context.Context, symbol string) (*Series, error) {
	end := s.Now()
	start := end.Add(-s.Lookback)

	hist, err := s.Client.GetQuotes(ctx, symbol, start, end, "daily")
	if err != nil {
		return nil, fmt.Errorf("%w: fetching %s: %v", ErrDataUnavailable, symbol, err)
	}

	bars := hist.Bars()
	series := &Series{Symbol: symbol, Points: make([]Point, 0, len(bars))}
	for _, day := range bars {
		date, err := time.Parse("2006-01-02", day.Date)
		if err != nil {
			log.WithField("symbol", symbol).Warnf("skipping bar with bad date %q: %v", day.Date, err)
			continue
		}
		series.Points = append(series.Points, Point{
			Date:   date,
			Open:   day.Open,
			High:   day.High,
			Low:    day.Low,
			Close:  day.Close,
			Volume: day.Volume,
		})
	}
	sortPoints(series.Points)

	log.WithFields(log.Fields{"symbol": symbol, "bars": series.Len()}).Info("fetched price history")
	return series, nil
}

func sortPoints(points []Point) {
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
}
