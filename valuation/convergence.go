package valuation

import (
	"context"
	"fmt"
	"math"
	"time"
)

// ConvergencePoint is one run of a sweep, compared with Black-Scholes.
type ConvergencePoint struct {
	N         int
	Call      float64
	Put       float64
	CallError float64
	PutError  float64
	StdErr    float64 `json:",omitempty"`
	Elapsed   time.Duration
}

// Convergence prices req with model once per entry of counts and reports the
// distance to the closed-form price. counts are lattice steps for the
// binomial tree and path counts for monte carlo. progress, when non-nil, is
// called after each run.
func (s *Service) Convergence(ctx context.Context, model Model, req Request, counts []int, progress func(ConvergencePoint)) (*Result, []ConvergencePoint, error) {
	if model != BinomialTree && model != MonteCarlo {
		return nil, nil, fmt.Errorf("%w: convergence needs the binomial tree or monte carlo model, got %v", ErrInvalidRequest, model)
	}
	if len(counts) == 0 {
		return nil, nil, fmt.Errorf("%w: no step counts to sweep", ErrInvalidRequest)
	}

	in, err := s.Resolve(ctx, BlackScholes, req)
	if err != nil {
		return nil, nil, err
	}
	reference, err := s.run(BlackScholes, in, req)
	if err != nil {
		return nil, nil, err
	}

	points := make([]ConvergencePoint, 0, len(counts))
	for _, n := range counts {
		if err := ctx.Err(); err != nil {
			return reference, points, err
		}

		r := req
		if model == BinomialTree {
			r.Steps = n
		} else {
			r.Simulations = n
		}
		if err := r.validate(model); err != nil {
			return reference, points, err
		}

		res, err := s.run(model, in, r)
		if err != nil {
			return reference, points, fmt.Errorf("%s with %d: %w", model, n, err)
		}

		pt := ConvergencePoint{
			N:         n,
			Call:      res.Call,
			Put:       res.Put,
			CallError: math.Abs(res.Call - reference.Call),
			PutError:  math.Abs(res.Put - reference.Put),
			StdErr:    res.CallStdErr,
			Elapsed:   res.Elapsed,
		}
		points = append(points, pt)
		if progress != nil {
			progress(pt)
		}
	}
	return reference, points, nil
}
