package valuation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcdannyboy/optpricer/marketdata"
	"github.com/bcdannyboy/optpricer/models"
)

type fixedSource struct {
	series *marketdata.Series
	err    error
}

func (f fixedSource) History(ctx context.Context, symbol string) (*marketdata.Series, error) {
	return f.series, f.err
}

var today = time.Date(2024, 3, 1, 15, 30, 0, 0, time.UTC)

func testService(src marketdata.Source) *Service {
	s := NewService(src)
	s.Now = func() time.Time { return today }
	s.AvailableMemory = func() (uint64, error) { return 8 << 30, nil }
	return s
}

func referenceRequest() Request {
	return Request{
		Ticker:       "TEST",
		Spot:         100,
		Strike:       100,
		RatePercent:  5,
		SigmaPercent: 20,
		ExerciseDate: today.AddDate(0, 0, 365),
		Steps:        1000,
		Simulations:  20000,
		PathSteps:    4,
		Seed:         42,
	}
}

func TestParseModel(t *testing.T) {
	for in, want := range map[string]Model{
		"Black-Scholes Model":    BlackScholes,
		"bs":                     BlackScholes,
		"Binomial Tree Model":    BinomialTree,
		"binomial":               BinomialTree,
		"Monte Carlo Simulation": MonteCarlo,
		"mc":                     MonteCarlo,
		"monte-carlo":            MonteCarlo,
	} {
		got, err := ParseModel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseModel("heston")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestDaysToMaturity(t *testing.T) {
	days, err := DaysToMaturity(time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), today)
	require.NoError(t, err)
	assert.Equal(t, 30, days)

	days, err = DaysToMaturity(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), today)
	require.NoError(t, err)
	assert.Equal(t, 0, days)

	_, err = DaysToMaturity(time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC), today)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestResolveConvertsPercentages(t *testing.T) {
	in, err := testService(nil).Resolve(context.Background(), BlackScholes, referenceRequest())
	require.NoError(t, err)

	assert.Equal(t, 0.05, in.Rate)
	assert.Equal(t, 0.2, in.Sigma)
	assert.Equal(t, 365, in.DaysToMaturity)
	assert.Equal(t, 100.0, in.Spot)
}

func TestResolveFetchesSpot(t *testing.T) {
	src := fixedSource{series: &marketdata.Series{Symbol: "TEST", Points: []marketdata.Point{
		{Date: today.AddDate(0, 0, -2), Close: 98},
		{Date: today.AddDate(0, 0, -1), Close: 101.5},
	}}}
	req := referenceRequest()
	req.Spot = 0

	in, err := testService(src).Resolve(context.Background(), BlackScholes, req)
	require.NoError(t, err)
	assert.Equal(t, 101.5, in.Spot)
}

func TestResolveDataUnavailable(t *testing.T) {
	req := referenceRequest()
	req.Spot = 0

	_, err := testService(nil).Resolve(context.Background(), BlackScholes, req)
	assert.ErrorIs(t, err, marketdata.ErrDataUnavailable)

	_, err = testService(fixedSource{series: &marketdata.Series{}}).Price(context.Background(), BlackScholes, req)
	assert.ErrorIs(t, err, marketdata.ErrDataUnavailable)

	upstream := fixedSource{err: errors.New("network down")}
	_, err = testService(marketdata.NewCachedSource(upstream, time.Hour)).Price(context.Background(), MonteCarlo, req)
	assert.Error(t, err)
}

func TestResolveRejectsBadRequests(t *testing.T) {
	cases := map[string]func(r *Request){
		"zero strike":   func(r *Request) { r.Strike = 0 },
		"rate > 100":    func(r *Request) { r.RatePercent = 120 },
		"negative vol":  func(r *Request) { r.SigmaPercent = -1 },
		"past exercise": func(r *Request) { r.ExerciseDate = today.AddDate(0, 0, -3) },
		"no date":       func(r *Request) { r.ExerciseDate = time.Time{} },
		"no steps":      func(r *Request) { r.Steps = 0 },
		"no spot":       func(r *Request) { r.Spot, r.Ticker = 0, "" },
	}
	for name, mutate := range cases {
		req := referenceRequest()
		mutate(&req)
		_, err := testService(nil).Resolve(context.Background(), BinomialTree, req)
		assert.ErrorIs(t, err, ErrInvalidRequest, name)
	}
}

func TestPriceEachModel(t *testing.T) {
	svc := testService(nil)
	svc.KeepPaths = true

	for _, m := range AllModels {
		res, err := svc.Price(context.Background(), m, referenceRequest())
		require.NoError(t, err, m.String())
		assert.Equal(t, m, res.Model)

		tol := 0.01
		if m == MonteCarlo {
			tol = 4 * res.CallStdErr
			assert.Equal(t, uint64(42), res.Seed)
			require.NotNil(t, res.PathSet)
			rows, cols := res.PathSet.Dims()
			assert.Equal(t, 20000, rows)
			assert.Equal(t, 5, cols)
		}
		assert.InDelta(t, 10.4506, res.Call, tol, m.String())
	}
}

func TestPriceBlackScholesNeedsTime(t *testing.T) {
	req := referenceRequest()
	req.ExerciseDate = today

	_, err := testService(nil).Price(context.Background(), BlackScholes, req)
	assert.ErrorIs(t, err, models.ErrDomain)

	res, err := testService(nil).Price(context.Background(), BinomialTree, req)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Call)
}

func TestCompare(t *testing.T) {
	results, err := testService(nil).Compare(context.Background(), referenceRequest())
	require.NoError(t, err)
	require.Len(t, results, 3)

	for _, r := range results {
		assert.Equal(t, 100.0, r.Inputs.Spot)
		assert.InDelta(t, 5.5735, r.Put, 0.2, r.Model.String())
	}
}

func TestPathBudget(t *testing.T) {
	svc := testService(nil)
	svc.AvailableMemory = func() (uint64, error) { return 1 << 20, nil }

	req := referenceRequest()
	req.PathSteps = 0
	_, err := svc.Price(context.Background(), MonteCarlo, req)
	assert.ErrorIs(t, err, models.ErrDomain)

	svc.AvailableMemory = func() (uint64, error) { return 0, errors.New("unsupported") }
	req.Simulations = 10
	_, err = svc.Price(context.Background(), MonteCarlo, req)
	assert.NoError(t, err)
}

func TestConvergence(t *testing.T) {
	var seen []int
	ref, points, err := testService(nil).Convergence(context.Background(), BinomialTree, referenceRequest(), []int{50, 500, 5000}, func(p ConvergencePoint) {
		seen = append(seen, p.N)
	})
	require.NoError(t, err)
	assert.InDelta(t, 10.4506, ref.Call, 1e-3)
	assert.Equal(t, []int{50, 500, 5000}, seen)

	require.Len(t, points, 3)
	assert.Greater(t, points[0].CallError, points[1].CallError)
	assert.Greater(t, points[1].CallError, points[2].CallError)

	_, _, err = testService(nil).Convergence(context.Background(), BlackScholes, referenceRequest(), []int{1}, nil)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
