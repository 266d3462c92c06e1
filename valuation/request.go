package valuation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// ErrInvalidRequest is returned for user inputs that cannot be turned into
// model parameters.
var ErrInvalidRequest = errors.New("invalid pricing request")

const (
	MinRecommendedSteps = 5000
	MaxRecommendedSteps = 100000
)

type Model int

const (
	BlackScholes Model = iota + 1
	BinomialTree
	MonteCarlo
)

var AllModels = []Model{BinomialTree, MonteCarlo, BlackScholes}

func (m Model) String() string {
	switch m {
	case BlackScholes:
		return "Black-Scholes Model"
	case BinomialTree:
		return "Binomial Tree Model"
	case MonteCarlo:
		return "Monte Carlo Simulation"
	default:
		return fmt.Sprintf("Model(%d)", int(m))
	}
}

// ParseModel accepts the display names as well as short aliases such as
// "bs", "binomial" and "mc".
func ParseModel(s string) (Model, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "", "_", "", " ", "").Replace(key)
	switch key {
	case "bs", "blackscholes", "blackscholesmodel":
		return BlackScholes, nil
	case "binomial", "binomialtree", "binomialtreemodel", "crr":
		return BinomialTree, nil
	case "mc", "montecarlo", "montecarlosimulation":
		return MonteCarlo, nil
	}
	return 0, fmt.Errorf("%w: unknown pricing model %q", ErrInvalidRequest, s)
}

// Request carries inputs the way an analyst enters them: rates as
// percentages and maturity as an exercise date.
type Request struct {
	Ticker       string
	Spot         float64 // optional; when zero the spot is resolved from the data source
	Strike       float64
	RatePercent  float64
	SigmaPercent float64
	ExerciseDate time.Time
	Steps        int    // binomial lattice steps
	Simulations  int    // monte carlo paths
	PathSteps    int    // optional monte carlo steps per path; zero means one per day
	Seed         uint64 // zero picks a time-based seed
}

// Inputs are the normalised model inputs derived from a Request.
type Inputs struct {
	Ticker         string
	Spot           float64
	Strike         float64
	Rate           float64
	Sigma          float64
	DaysToMaturity int
}

func (r Request) validate(model Model) error {
	if r.Strike <= 0 {
		return fmt.Errorf("%w: strike price must be positive, got %v", ErrInvalidRequest, r.Strike)
	}
	if r.RatePercent < 0 || r.RatePercent > 100 {
		return fmt.Errorf("%w: risk-free rate must be within [0, 100]%%, got %v", ErrInvalidRequest, r.RatePercent)
	}
	if r.SigmaPercent < 0 || r.SigmaPercent > 100 {
		return fmt.Errorf("%w: volatility must be within [0, 100]%%, got %v", ErrInvalidRequest, r.SigmaPercent)
	}
	if r.ExerciseDate.IsZero() {
		return fmt.Errorf("%w: exercise date is required", ErrInvalidRequest)
	}
	if r.Spot < 0 {
		return fmt.Errorf("%w: spot price must be positive, got %v", ErrInvalidRequest, r.Spot)
	}
	if r.Spot == 0 && r.Ticker == "" {
		return fmt.Errorf("%w: either a ticker or a spot price is required", ErrInvalidRequest)
	}

	switch model {
	case BinomialTree:
		if r.Steps < 1 {
			return fmt.Errorf("%w: number of time steps must be positive, got %d", ErrInvalidRequest, r.Steps)
		}
		warnOutsideRange("steps", r.Steps)
	case MonteCarlo:
		if r.Simulations < 1 {
			return fmt.Errorf("%w: number of simulations must be positive, got %d", ErrInvalidRequest, r.Simulations)
		}
		if r.PathSteps < 0 {
			return fmt.Errorf("%w: path steps must not be negative, got %d", ErrInvalidRequest, r.PathSteps)
		}
		warnOutsideRange("simulations", r.Simulations)
	case BlackScholes:
	default:
		return fmt.Errorf("%w: unknown pricing model %v", ErrInvalidRequest, model)
	}
	return nil
}

func warnOutsideRange(name string, n int) {
	if n < MinRecommendedSteps || n > MaxRecommendedSteps {
		log.WithField(name, n).Warnf("%s outside the recommended range %d-%d", name, MinRecommendedSteps, MaxRecommendedSteps)
	}
}

// DaysToMaturity counts whole calendar days from today to the exercise date.
// An exercise date in the past is an error.
func DaysToMaturity(exercise, now time.Time) (int, error) {
	today := civilDate(now)
	exerciseDay := civilDate(exercise)
	days := int(exerciseDay.Sub(today).Hours() / 24)
	if days < 0 {
		return 0, fmt.Errorf("%w: exercise date %s is in the past", ErrInvalidRequest, exercise.Format("2006-01-02"))
	}
	return days, nil
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (m Model) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Model) UnmarshalText(b []byte) error {
	parsed, err := ParseModel(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
