package valuation

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/bcdannyboy/optpricer/marketdata"
	"github.com/bcdannyboy/optpricer/models"
)

// Result is the valuation of one model for one request.
type Result struct {
	Model      Model
	Inputs     Inputs
	Call       float64
	Put        float64
	CallStdErr float64 `json:",omitempty"`
	PutStdErr  float64 `json:",omitempty"`
	Seed       uint64  `json:",omitempty"`
	Steps      int     // lattice steps or steps per simulated path
	Paths      int     `json:",omitempty"`
	Elapsed    time.Duration

	// Simulated paths, only kept when the service is asked to.
	PathSet *mat.Dense `json:"-"`
}

// Service resolves spot prices and runs the pricing engines.
type Service struct {
	Source    marketdata.Source
	Now       func() time.Time
	KeepPaths bool

	// AvailableMemory reports bytes available for a monte carlo path buffer.
	AvailableMemory func() (uint64, error)
}

func NewService(src marketdata.Source) *Service {
	return &Service{
		Source:          src,
		Now:             time.Now,
		AvailableMemory: availableMemory,
	}
}

// Resolve validates req for model and converts it into model inputs,
// fetching the spot price when the request does not carry one.
func (s *Service) Resolve(ctx context.Context, model Model, req Request) (Inputs, error) {
	if err := req.validate(model); err != nil {
		return Inputs{}, err
	}

	days, err := DaysToMaturity(req.ExerciseDate, s.now())
	if err != nil {
		return Inputs{}, err
	}

	spot := req.Spot
	if spot == 0 {
		if s.Source == nil {
			return Inputs{}, fmt.Errorf("%w: no data source configured for %s", marketdata.ErrDataUnavailable, req.Ticker)
		}
		spot, err = marketdata.SpotPrice(ctx, s.Source, req.Ticker)
		if err != nil {
			return Inputs{}, err
		}
	}

	return Inputs{
		Ticker:         req.Ticker,
		Spot:           spot,
		Strike:         req.Strike,
		Rate:           req.RatePercent / 100,
		Sigma:          req.SigmaPercent / 100,
		DaysToMaturity: days,
	}, nil
}

// Price values req with a single model.
func (s *Service) Price(ctx context.Context, model Model, req Request) (*Result, error) {
	in, err := s.Resolve(ctx, model, req)
	if err != nil {
		return nil, err
	}
	return s.run(model, in, req)
}

// Compare values req with every model against one resolved spot price.
func (s *Service) Compare(ctx context.Context, req Request) ([]*Result, error) {
	for _, m := range AllModels {
		if err := req.validate(m); err != nil {
			return nil, err
		}
	}
	in, err := s.Resolve(ctx, BlackScholes, req)
	if err != nil {
		return nil, err
	}

	results := make([]*Result, 0, len(AllModels))
	for _, m := range AllModels {
		res, err := s.run(m, in, req)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", m, err)
		}
		results = append(results, res)
	}
	return results, nil
}

func (s *Service) run(model Model, in Inputs, req Request) (*Result, error) {
	began := time.Now()
	res := &Result{Model: model, Inputs: in}
	days := float64(in.DaysToMaturity)

	var engine models.PricingModel
	switch model {
	case BlackScholes:
		bs, err := models.NewBlackScholes(models.Parameters{
			Spot:           in.Spot,
			Strike:         in.Strike,
			RiskFreeRate:   in.Rate,
			Volatility:     in.Sigma,
			TimeToMaturity: models.DaysToYears(days),
		})
		if err != nil {
			return nil, err
		}
		engine = bs

	case BinomialTree:
		bt, err := models.NewBinomialTree(in.Spot, in.Strike, in.Rate, in.Sigma, days, req.Steps)
		if err != nil {
			return nil, err
		}
		res.Steps = bt.Steps()
		engine = bt

	case MonteCarlo:
		seed := req.Seed
		if seed == 0 {
			seed = uint64(s.now().UnixNano())
		}
		var opts []models.MonteCarloOption
		if req.PathSteps > 0 {
			opts = append(opts, models.WithSteps(req.PathSteps))
		}
		mc, err := models.NewMonteCarlo(in.Spot, in.Strike, in.Rate, in.Sigma, days, req.Simulations, rand.New(rand.NewSource(seed)), opts...)
		if err != nil {
			return nil, err
		}
		if err := s.checkPathBudget(mc.Simulations(), mc.Steps()); err != nil {
			return nil, err
		}
		mc.Simulate()

		if res.CallStdErr, err = mc.StandardError(models.Call); err != nil {
			return nil, err
		}
		if res.PutStdErr, err = mc.StandardError(models.Put); err != nil {
			return nil, err
		}
		if s.KeepPaths {
			if res.PathSet, err = mc.Paths(); err != nil {
				return nil, err
			}
		}
		res.Seed = seed
		res.Steps = mc.Steps()
		res.Paths = mc.Simulations()
		engine = mc

	default:
		return nil, fmt.Errorf("%w: unknown pricing model %v", ErrInvalidRequest, model)
	}

	var err error
	if res.Call, err = models.Price(engine, models.Call); err != nil {
		return nil, err
	}
	if res.Put, err = models.Price(engine, models.Put); err != nil {
		return nil, err
	}
	res.Elapsed = time.Since(began)

	log.WithFields(log.Fields{
		"model":   model.String(),
		"ticker":  in.Ticker,
		"spot":    in.Spot,
		"call":    res.Call,
		"put":     res.Put,
		"elapsed": res.Elapsed,
	}).Info("option priced")

	return res, nil
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
