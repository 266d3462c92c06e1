package models

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
)

// BinomialTree prices European options on a recombining Cox-Ross-Rubinstein lattice.
//
// The price is computed in three stages: the terminal asset prices of the
// lattice, the option payoff at each terminal node, and backward induction of
// the discounted risk-neutral expectation down to the valuation date.
type BinomialTree struct {
	params Parameters
	steps  int
}

// NewBinomialTree builds a lattice engine. daysToMaturity is in calendar days
// and is converted to a year fraction here.
func NewBinomialTree(spot, strike, riskFreeRate, sigma, daysToMaturity float64, steps int) (*BinomialTree, error) {
	p := Parameters{
		Spot:           spot,
		Strike:         strike,
		RiskFreeRate:   riskFreeRate,
		Volatility:     sigma,
		TimeToMaturity: DaysToYears(daysToMaturity),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if steps < 1 {
		return nil, fmt.Errorf("%w: binomial tree needs at least one step, got %d", ErrDomain, steps)
	}
	return &BinomialTree{params: p, steps: steps}, nil
}

func (b *BinomialTree) Parameters() Parameters {
	return b.params
}

func (b *BinomialTree) Steps() int {
	return b.steps
}

func (b *BinomialTree) PriceCall() (float64, error) {
	return b.price(func(sT float64) float64 { return math.Max(0, sT-b.params.Strike) })
}

func (b *BinomialTree) PricePut() (float64, error) {
	return b.price(func(sT float64) float64 { return math.Max(0, b.params.Strike-sT) })
}

func (b *BinomialTree) price(payoff func(float64) float64) (float64, error) {
	n := b.steps
	r := b.params.RiskFreeRate
	deltaT := b.params.TimeToMaturity / float64(n)
	u := math.Exp(b.params.Volatility * math.Sqrt(deltaT))
	d := 1 / u
	disc := math.Exp(-r * deltaT)

	// u == d when sigma or T is zero; every node then carries the spot price
	// and the expectation is just the discounted payoff.
	if u == d {
		v := payoff(b.params.Spot) * math.Pow(disc, float64(n))
		log.WithFields(log.Fields{"steps": n, "price": v}).Debug("binomial tree degenerate lattice")
		return v, nil
	}

	a := math.Exp(r * deltaT)
	p := (a - d) / (u - d)
	if !(p >= 0 && p <= 1) {
		return 0, fmt.Errorf("%w: risk-neutral probability %v outside [0, 1]; volatility %v is too small for rate %v over %d steps",
			ErrDomain, p, b.params.Volatility, r, n)
	}
	q := 1 - p

	// S0 * u^j * d^(n-j) == S0 * u^(2j-n)
	V := make([]float64, n+1)
	for j := 0; j <= n; j++ {
		V[j] = payoff(b.params.Spot * math.Pow(u, float64(2*j-n)))
	}

	for i := n - 1; i >= 0; i-- {
		for j := 0; j <= i; j++ {
			V[j] = disc * (p*V[j+1] + q*V[j])
		}
	}

	log.WithFields(log.Fields{"steps": n, "u": u, "d": d, "p": p, "price": V[0]}).Debug("binomial tree")
	return V[0], nil
}
