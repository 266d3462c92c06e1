package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlackScholesReferencePrices(t *testing.T) {
	bs, err := NewBlackScholes(referenceParameters())
	require.NoError(t, err)

	call, err := bs.PriceCall()
	require.NoError(t, err)
	put, err := bs.PricePut()
	require.NoError(t, err)

	assert.InDelta(t, refCall, call, 1e-3)
	assert.InDelta(t, refPut, put, 1e-3)
}

func TestBlackScholesPutCallParity(t *testing.T) {
	for _, p := range []Parameters{
		{Spot: 100, Strike: 100, RiskFreeRate: 0.05, Volatility: 0.2, TimeToMaturity: 1},
		{Spot: 100, Strike: 100, RiskFreeRate: 0.03, Volatility: 0.25, TimeToMaturity: 45.0 / 365},
		{Spot: 250, Strike: 300, RiskFreeRate: 0.2, Volatility: 0.3, TimeToMaturity: 0.5},
		{Spot: 42, Strike: 35, RiskFreeRate: -0.01, Volatility: 0.9, TimeToMaturity: 3},
	} {
		bs, err := NewBlackScholes(p)
		require.NoError(t, err)

		call, _ := bs.PriceCall()
		put, _ := bs.PricePut()
		assert.InDelta(t, p.Spot-p.Strike*math.Exp(-p.RiskFreeRate*p.TimeToMaturity), call-put, 1e-9, "%+v", p)
	}
}

func TestBlackScholesRejectsDegenerateInputs(t *testing.T) {
	p := referenceParameters()
	p.Volatility = 0
	_, err := NewBlackScholes(p)
	assert.ErrorIs(t, err, ErrDomain)

	p = referenceParameters()
	p.TimeToMaturity = 0
	_, err = NewBlackScholes(p)
	assert.ErrorIs(t, err, ErrDomain)

	p = referenceParameters()
	p.Spot = 0
	_, err = NewBlackScholes(p)
	assert.ErrorIs(t, err, ErrDomain)
}
