package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinomialTreeReferencePrice(t *testing.T) {
	bt, err := NewBinomialTree(100, 100, 0.05, 0.2, 365, 1000)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, bt.Parameters().TimeToMaturity, 1e-12)

	call, err := bt.PriceCall()
	require.NoError(t, err)
	assert.InDelta(t, refCall, call, 0.01)

	put, err := bt.PricePut()
	require.NoError(t, err)
	assert.InDelta(t, refPut, put, 0.01)
}

func TestBinomialTreeConvergesToBlackScholes(t *testing.T) {
	bs, err := NewBlackScholes(referenceParameters())
	require.NoError(t, err)
	want, _ := bs.PriceCall()

	prev := math.Inf(1)
	for _, steps := range []int{50, 500, 5000} {
		bt, err := NewBinomialTree(100, 100, 0.05, 0.2, 365, steps)
		require.NoError(t, err)

		got, _ := bt.PriceCall()
		diff := math.Abs(got - want)
		assert.Less(t, diff, prev, "steps=%d", steps)
		prev = diff
	}
}

func TestBinomialTreeZeroVolatility(t *testing.T) {
	bt, err := NewBinomialTree(110, 100, 0.05, 0, 365, 250)
	require.NoError(t, err)

	call, err := bt.PriceCall()
	require.NoError(t, err)
	assert.False(t, math.IsNaN(call))
	assert.InDelta(t, 10*math.Exp(-0.05), call, 1e-9)

	put, err := bt.PricePut()
	require.NoError(t, err)
	assert.Equal(t, 0.0, put)
}

func TestBinomialTreeZeroMaturity(t *testing.T) {
	bt, err := NewBinomialTree(90, 100, 0.05, 0.3, 0, 10)
	require.NoError(t, err)

	call, _ := bt.PriceCall()
	put, _ := bt.PricePut()
	assert.Equal(t, 0.0, call)
	assert.InDelta(t, 10.0, put, 1e-12)
}

func TestBinomialTreeSingleStep(t *testing.T) {
	bt, err := NewBinomialTree(100, 100, 0.05, 0.2, 365, 1)
	require.NoError(t, err)

	u := math.Exp(0.2)
	d := 1 / u
	p := (math.Exp(0.05) - d) / (u - d)
	want := math.Exp(-0.05) * p * (100*u - 100)

	got, _ := bt.PriceCall()
	assert.InDelta(t, want, got, 1e-9)
}

func TestBinomialTreeRejectsBadInput(t *testing.T) {
	_, err := NewBinomialTree(100, 100, 0.05, 0.2, 365, 0)
	assert.ErrorIs(t, err, ErrDomain)

	_, err = NewBinomialTree(100, 100, 0.05, -0.2, 365, 10)
	assert.ErrorIs(t, err, ErrDomain)

	_, err = NewBinomialTree(100, 100, 0.05, 0.2, -1, 10)
	assert.ErrorIs(t, err, ErrDomain)
}

func TestBinomialTreeRejectsVolatilityBelowDrift(t *testing.T) {
	for _, c := range []struct {
		sigma, rate float64
		steps       int
	}{
		{0.001, 0.20, 15000},
		{0.0005, 0.20, 15000},
		{1e-12, 0.05, 100},
	} {
		bt, err := NewBinomialTree(100, 100, c.rate, c.sigma, 365, c.steps)
		require.NoError(t, err)

		call, err := bt.PriceCall()
		assert.ErrorIs(t, err, ErrDomain)
		assert.False(t, math.IsNaN(call))

		_, err = bt.PricePut()
		assert.ErrorIs(t, err, ErrDomain)
	}

	// same rate with enough volatility keeps p inside [0, 1]
	bt, err := NewBinomialTree(100, 100, 0.20, 0.3, 365, 15000)
	require.NoError(t, err)
	call, err := bt.PriceCall()
	require.NoError(t, err)
	assert.False(t, math.IsNaN(call))
}
