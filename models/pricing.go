package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrInvalidOptionKind is returned when a price is requested for anything other than a call or a put.
	ErrInvalidOptionKind = errors.New("invalid option kind")
	// ErrDomain is returned when an input violates a model precondition.
	ErrDomain = errors.New("parameter outside model domain")
	// ErrPrematureQuery is returned when a Monte Carlo price is requested before Simulate has run.
	ErrPrematureQuery = errors.New("prices requested before simulation")
)

const daysPerYear = 365.0

type OptionKind int

const (
	Call OptionKind = iota + 1
	Put
)

func (k OptionKind) String() string {
	switch k {
	case Call:
		return "Call"
	case Put:
		return "Put"
	default:
		return fmt.Sprintf("OptionKind(%d)", int(k))
	}
}

// ParseOptionKind accepts "call" or "put" in any case.
func ParseOptionKind(s string) (OptionKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call":
		return Call, nil
	case "put":
		return Put, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidOptionKind, s)
}

// PricingModel is implemented by every engine.
type PricingModel interface {
	PriceCall() (float64, error)
	PricePut() (float64, error)
}

// Price routes kind to the call or put routine of m.
func Price(m PricingModel, kind OptionKind) (float64, error) {
	switch kind {
	case Call:
		return m.PriceCall()
	case Put:
		return m.PricePut()
	default:
		return 0, fmt.Errorf("%w: %v", ErrInvalidOptionKind, kind)
	}
}

// Parameters are the market inputs shared by all engines.
type Parameters struct {
	Spot           float64 // Current price of the underlying
	Strike         float64 // Strike price
	RiskFreeRate   float64 // Annualized, decimal fraction
	Volatility     float64 // Annualized, decimal fraction
	TimeToMaturity float64 // Years
}

func (p Parameters) Validate() error {
	switch {
	case !(p.Spot > 0) || math.IsInf(p.Spot, 0):
		return fmt.Errorf("%w: spot price must be positive, got %v", ErrDomain, p.Spot)
	case !(p.Strike > 0) || math.IsInf(p.Strike, 0):
		return fmt.Errorf("%w: strike price must be positive, got %v", ErrDomain, p.Strike)
	case !(p.Volatility >= 0) || math.IsInf(p.Volatility, 0):
		return fmt.Errorf("%w: volatility must be finite and non-negative, got %v", ErrDomain, p.Volatility)
	case !(p.TimeToMaturity >= 0) || math.IsInf(p.TimeToMaturity, 0):
		return fmt.Errorf("%w: time to maturity must be finite and non-negative, got %v", ErrDomain, p.TimeToMaturity)
	case math.IsNaN(p.RiskFreeRate) || math.IsInf(p.RiskFreeRate, 0):
		return fmt.Errorf("%w: risk-free rate must be finite, got %v", ErrDomain, p.RiskFreeRate)
	}
	return nil
}

// DaysToYears converts calendar days to a year fraction.
func DaysToYears(days float64) float64 {
	return days / daysPerYear
}

func discountFactor(r, t float64) float64 {
	return math.Exp(-r * t)
}
