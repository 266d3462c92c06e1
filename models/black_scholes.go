package models

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat/distuv"
)

// BlackScholes prices European options with the closed-form Black-Scholes formula.
// The underlying pays no dividend; rate and volatility are constant.
type BlackScholes struct {
	params Parameters
}

func NewBlackScholes(p Parameters) (*BlackScholes, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.TimeToMaturity <= 0 {
		return nil, fmt.Errorf("%w: black-scholes requires a positive time to maturity, got %v", ErrDomain, p.TimeToMaturity)
	}
	if p.Volatility <= 0 {
		return nil, fmt.Errorf("%w: black-scholes requires a positive volatility, got %v", ErrDomain, p.Volatility)
	}
	return &BlackScholes{params: p}, nil
}

func (b *BlackScholes) Parameters() Parameters {
	return b.params
}

func (b *BlackScholes) d1d2() (float64, float64) {
	S, K, r, sigma, T := b.params.Spot, b.params.Strike, b.params.RiskFreeRate, b.params.Volatility, b.params.TimeToMaturity
	d1 := (math.Log(S/K) + (r+0.5*sigma*sigma)*T) / (sigma * math.Sqrt(T))
	d2 := d1 - sigma*math.Sqrt(T)
	return d1, d2
}

func (b *BlackScholes) PriceCall() (float64, error) {
	d1, d2 := b.d1d2()
	S, K := b.params.Spot, b.params.Strike
	price := S*normCDF(d1) - K*discountFactor(b.params.RiskFreeRate, b.params.TimeToMaturity)*normCDF(d2)
	log.WithFields(log.Fields{"d1": d1, "d2": d2, "price": price}).Debug("black-scholes call")
	return price, nil
}

func (b *BlackScholes) PricePut() (float64, error) {
	d1, d2 := b.d1d2()
	S, K := b.params.Spot, b.params.Strike
	price := K*discountFactor(b.params.RiskFreeRate, b.params.TimeToMaturity)*normCDF(-d2) - S*normCDF(-d1)
	log.WithFields(log.Fields{"d1": d1, "d2": d2, "price": price}).Debug("black-scholes put")
	return price, nil
}

func normCDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}
