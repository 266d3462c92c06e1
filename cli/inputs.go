package cli

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bcdannyboy/optpricer/marketdata"
	"github.com/bcdannyboy/optpricer/tradier"
	"github.com/bcdannyboy/optpricer/valuation"
)

// requestFlags are the pricing inputs shared by price, compare and
// convergence. Unset flags fall back to the config file.
type requestFlags struct {
	ticker      string
	spot        float64
	strike      float64
	rate        float64
	sigma       float64
	exercise    string
	days        int
	steps       int
	simulations int
	pathSteps   int
	seed        uint64
	dataFile    string
}

func (f *requestFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.ticker, "ticker", "t", "", "underlying ticker")
	fs.Float64Var(&f.spot, "spot", 0, "spot price, skips the market data lookup")
	fs.Float64VarP(&f.strike, "strike", "k", 0, "strike price")
	fs.Float64VarP(&f.rate, "rate", "r", 0, "risk-free rate in percent")
	fs.Float64VarP(&f.sigma, "sigma", "s", 0, "volatility in percent")
	fs.StringVarP(&f.exercise, "exercise", "e", "", "exercise date (YYYY-MM-DD)")
	fs.IntVar(&f.days, "days", 0, "days to maturity, alternative to --exercise")
	fs.IntVar(&f.steps, "steps", 0, "binomial tree steps")
	fs.IntVar(&f.simulations, "simulations", 0, "monte carlo paths")
	fs.IntVar(&f.pathSteps, "path-steps", 0, "monte carlo steps per path (default one per day)")
	fs.Uint64Var(&f.seed, "seed", 0, "monte carlo seed (0 picks one from the clock)")
	fs.StringVar(&f.dataFile, "data-file", "", "CSV price history to read instead of Tradier")
}

func (a *app) request(cmd *cobra.Command, f *requestFlags) (valuation.Request, error) {
	cfg := a.cfg
	req := valuation.Request{
		Ticker:       cfg.Ticker,
		Spot:         f.spot,
		Strike:       cfg.Strike,
		RatePercent:  cfg.RatePercent,
		SigmaPercent: cfg.SigmaPercent,
		Steps:        cfg.Steps,
		Simulations:  cfg.Simulations,
		PathSteps:    cfg.PathSteps,
		Seed:         cfg.Seed,
	}

	flags := cmd.Flags()
	if flags.Changed("ticker") {
		req.Ticker = f.ticker
	}
	if flags.Changed("strike") {
		req.Strike = f.strike
	}
	if flags.Changed("rate") {
		req.RatePercent = f.rate
	}
	if flags.Changed("sigma") {
		req.SigmaPercent = f.sigma
	}
	if flags.Changed("steps") {
		req.Steps = f.steps
	}
	if flags.Changed("simulations") {
		req.Simulations = f.simulations
	}
	if flags.Changed("path-steps") {
		req.PathSteps = f.pathSteps
	}
	if flags.Changed("seed") {
		req.Seed = f.seed
	}

	switch {
	case f.exercise != "" && flags.Changed("days"):
		return req, fmt.Errorf("%w: use either --exercise or --days", valuation.ErrInvalidRequest)
	case f.exercise != "":
		t, err := time.Parse("2006-01-02", f.exercise)
		if err != nil {
			return req, fmt.Errorf("%w: exercise date %q must be YYYY-MM-DD", valuation.ErrInvalidRequest, f.exercise)
		}
		req.ExerciseDate = t
	case flags.Changed("days"):
		if f.days < 0 {
			return req, fmt.Errorf("%w: days must not be negative, got %d", valuation.ErrInvalidRequest, f.days)
		}
		req.ExerciseDate = time.Now().AddDate(0, 0, f.days)
	default:
		return req, fmt.Errorf("%w: an exercise date is required (--exercise or --days)", valuation.ErrInvalidRequest)
	}
	return req, nil
}

// source picks the market data source: a CSV file when one is configured,
// otherwise Tradier when a key is available. Either is cached.
func (a *app) source(f *requestFlags) marketdata.Source {
	path := a.cfg.DataFile
	if f != nil && f.dataFile != "" {
		path = f.dataFile
	}

	var src marketdata.Source
	switch {
	case path != "":
		src = &marketdata.FileSource{Path: path}
	case a.secrets.TradierKey != "":
		client := tradier.NewClient(a.secrets.TradierKey, a.cfg.Tradier.BaseURL)
		src = marketdata.NewTradierSource(client, a.cfg.Lookback())
	default:
		log.Debug("no market data source configured, a spot price must be given")
		return nil
	}
	return marketdata.NewCachedSource(src, a.cfg.Data.CacheTTL)
}

// prepare builds the request and the service that will price it.
func (a *app) prepare(cmd *cobra.Command, f *requestFlags) (*valuation.Service, valuation.Request, error) {
	req, err := a.request(cmd, f)
	if err != nil {
		return nil, req, err
	}
	return a.service(f), req, nil
}

func (a *app) service(f *requestFlags) *valuation.Service {
	return valuation.NewService(a.source(f))
}
