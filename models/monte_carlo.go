package models

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// MonteCarlo estimates European option prices from simulated geometric
// Brownian motion paths under the risk-neutral measure.
type MonteCarlo struct {
	params      Parameters
	simulations int
	steps       int
	dt          float64
	rng         *rand.Rand

	paths *mat.Dense // simulations x (steps+1), nil until Simulate
}

type MonteCarloOption func(*MonteCarlo)

// WithSteps overrides the number of time steps per path.
func WithSteps(steps int) MonteCarloOption {
	return func(m *MonteCarlo) {
		m.steps = steps
	}
}

// NewMonteCarlo builds a simulation engine. daysToMaturity is in calendar days
// and is converted to a year fraction here; by default each path takes one
// step per day of the horizon.
func NewMonteCarlo(spot, strike, riskFreeRate, sigma, daysToMaturity float64, simulations int, rng *rand.Rand, opts ...MonteCarloOption) (*MonteCarlo, error) {
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
	if simulations < 1 {
		return nil, fmt.Errorf("%w: monte carlo needs at least one simulation, got %d", ErrDomain, simulations)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: monte carlo needs a random number generator", ErrDomain)
	}

	m := &MonteCarlo{
		params:      p,
		simulations: simulations,
		steps:       int(math.Max(1, math.Ceil(daysToMaturity))),
		rng:         rng,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.steps < 1 {
		return nil, fmt.Errorf("%w: monte carlo needs at least one time step, got %d", ErrDomain, m.steps)
	}
	m.dt = p.TimeToMaturity / float64(m.steps)

	return m, nil
}

func (m *MonteCarlo) Parameters() Parameters {
	return m.params
}

func (m *MonteCarlo) Simulations() int {
	return m.simulations
}

func (m *MonteCarlo) Steps() int {
	return m.steps
}

func (m *MonteCarlo) Simulated() bool {
	return m.paths != nil
}

// Simulate draws a fresh set of paths. Normals are drawn step by step across
// all paths, so a given seed always yields the same path set.
func (m *MonteCarlo) Simulate() {
	r, sigma := m.params.RiskFreeRate, m.params.Volatility
	drift := (r - 0.5*sigma*sigma) * m.dt
	diffusion := sigma * math.Sqrt(m.dt)

	paths := mat.NewDense(m.simulations, m.steps+1, nil)
	for i := 0; i < m.simulations; i++ {
		paths.Set(i, 0, m.params.Spot)
	}

	for t := 1; t <= m.steps; t++ {
		for i := 0; i < m.simulations; i++ {
			z := m.rng.NormFloat64()
			paths.Set(i, t, paths.At(i, t-1)*math.Exp(drift+diffusion*z))
		}
	}

	m.paths = paths
	log.WithFields(log.Fields{
		"simulations": m.simulations,
		"steps":       m.steps,
		"dt":          m.dt,
	}).Debug("monte carlo paths simulated")
}

// Paths returns a copy of the simulated path set.
func (m *MonteCarlo) Paths() (*mat.Dense, error) {
	if m.paths == nil {
		return nil, ErrPrematureQuery
	}
	return mat.DenseCopyOf(m.paths), nil
}

func (m *MonteCarlo) PriceCall() (float64, error) {
	payoffs, err := m.discountedPayoffs(Call)
	if err != nil {
		return 0, err
	}
	return stat.Mean(payoffs, nil), nil
}

func (m *MonteCarlo) PricePut() (float64, error) {
	payoffs, err := m.discountedPayoffs(Put)
	if err != nil {
		return 0, err
	}
	return stat.Mean(payoffs, nil), nil
}

// StandardError is the standard error of the price estimate for kind.
func (m *MonteCarlo) StandardError(kind OptionKind) (float64, error) {
	payoffs, err := m.discountedPayoffs(kind)
	if err != nil {
		return 0, err
	}
	if len(payoffs) < 2 {
		return 0, nil
	}
	_, std := stat.MeanStdDev(payoffs, nil)
	return std / math.Sqrt(float64(len(payoffs))), nil
}

func (m *MonteCarlo) discountedPayoffs(kind OptionKind) ([]float64, error) {
	if m.paths == nil {
		return nil, ErrPrematureQuery
	}

	var payoff func(float64) float64
	switch kind {
	case Call:
		payoff = func(sT float64) float64 { return math.Max(sT-m.params.Strike, 0) }
	case Put:
		payoff = func(sT float64) float64 { return math.Max(m.params.Strike-sT, 0) }
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidOptionKind, kind)
	}

	discount := discountFactor(m.params.RiskFreeRate, m.params.TimeToMaturity)
	terminal := mat.Col(nil, m.steps, m.paths)
	for i, sT := range terminal {
		terminal[i] = discount * payoff(sT)
	}
	return terminal, nil
}
