package pricerslack

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/slack-go/slack"

	"github.com/bcdannyboy/optpricer/valuation"
)

// Defaults fill in the optional trailing arguments of /price.
type Defaults struct {
	Steps       int
	Simulations int
	PathSteps   int
	Seed        uint64
}

type PriceHandler struct {
	svc      *valuation.Service
	defaults Defaults
}

func NewPriceHandler(svc *valuation.Service, defaults Defaults) *PriceHandler {
	return &PriceHandler{svc: svc, defaults: defaults}
}

// PriceCommand is a parsed /price invocation. A zero Model means every model.
type PriceCommand struct {
	Model   valuation.Model
	Request valuation.Request
}

// ParsePriceCommand parses "<ticker> <model> <strike> <rate%> <volatility%>
// <YYYY-MM-DD> [steps|simulations]". The ticker may be a number, in which
// case it is used as the spot price.
func ParsePriceCommand(text string, defaults Defaults) (PriceCommand, error) {
	args := strings.Fields(text)
	if len(args) < 6 || len(args) > 7 {
		return PriceCommand{}, fmt.Errorf("%w: expected 6 or 7 arguments, got %d. Usage: %s", valuation.ErrInvalidRequest, len(args), priceUsage)
	}

	var cmd PriceCommand
	req := valuation.Request{
		Steps:       defaults.Steps,
		Simulations: defaults.Simulations,
		PathSteps:   defaults.PathSteps,
		Seed:        defaults.Seed,
	}

	if spot, err := strconv.ParseFloat(args[0], 64); err == nil {
		req.Spot = spot
	} else {
		req.Ticker = strings.ToUpper(args[0])
	}

	if !strings.EqualFold(args[1], "all") {
		m, err := valuation.ParseModel(args[1])
		if err != nil {
			return PriceCommand{}, err
		}
		cmd.Model = m
	}

	nums := make([]float64, 3)
	for i, name := range []string{"strike", "rate", "volatility"} {
		v, err := strconv.ParseFloat(strings.TrimSuffix(args[2+i], "%"), 64)
		if err != nil {
			return PriceCommand{}, fmt.Errorf("%w: %s %q is not a number", valuation.ErrInvalidRequest, name, args[2+i])
		}
		nums[i] = v
	}
	req.Strike, req.RatePercent, req.SigmaPercent = nums[0], nums[1], nums[2]

	exercise, err := time.Parse("2006-01-02", args[5])
	if err != nil {
		return PriceCommand{}, fmt.Errorf("%w: exercise date %q must be YYYY-MM-DD", valuation.ErrInvalidRequest, args[5])
	}
	req.ExerciseDate = exercise

	if len(args) == 7 {
		n, err := strconv.Atoi(args[6])
		if err != nil {
			return PriceCommand{}, fmt.Errorf("%w: step count %q is not an integer", valuation.ErrInvalidRequest, args[6])
		}
		switch cmd.Model {
		case valuation.BinomialTree:
			req.Steps = n
		case valuation.MonteCarlo:
			req.Simulations = n
		default:
			req.Steps, req.Simulations = n, n
		}
	}

	cmd.Request = req
	return cmd, nil
}

func (h *PriceHandler) HandleCommand(ctx context.Context, data slack.SlashCommand, client poster) error {
	cmd, err := ParsePriceCommand(data.Text, h.defaults)
	if err != nil {
		_, _, perr := client.PostMessage(data.ChannelID, slack.MsgOptionText(err.Error(), false))
		return perr
	}

	_, ts, err := client.PostMessage(data.ChannelID,
		slack.MsgOptionText(fmt.Sprintf("Pricing %s...", describe(cmd)), false))
	if err != nil {
		return err
	}

	go h.respond(ctx, cmd, data.ChannelID, ts, client)
	return nil
}

func (h *PriceHandler) respond(ctx context.Context, cmd PriceCommand, channelID, timestamp string, client poster) {
	var (
		results []*valuation.Result
		err     error
	)
	if cmd.Model == 0 {
		results, err = h.svc.Compare(ctx, cmd.Request)
	} else {
		var res *valuation.Result
		if res, err = h.svc.Price(ctx, cmd.Model, cmd.Request); err == nil {
			results = []*valuation.Result{res}
		}
	}

	text := FormatResults(results)
	if err != nil {
		log.WithError(err).WithField("channel", channelID).Warn("price command failed")
		text = fmt.Sprintf("Pricing failed: %s", err)
	}

	if _, _, err := client.PostMessage(channelID,
		slack.MsgOptionText(text, false),
		slack.MsgOptionTS(timestamp)); err != nil {
		log.WithError(err).Error("failed to post pricing result")
	}
}

func describe(cmd PriceCommand) string {
	name := "all models"
	if cmd.Model != 0 {
		name = cmd.Model.String()
	}
	subject := cmd.Request.Ticker
	if subject == "" {
		subject = fmt.Sprintf("spot %.2f", cmd.Request.Spot)
	}
	return fmt.Sprintf("%s with %s", subject, name)
}

// FormatResults renders results as a slack code block.
func FormatResults(results []*valuation.Result) string {
	if len(results) == 0 {
		return "No results."
	}
	in := results[0].Inputs
	var b strings.Builder
	fmt.Fprintf(&b, "*%s* spot %.2f, strike %.2f, rate %.2f%%, volatility %.2f%%, %d days\n```\n",
		displayTicker(in.Ticker), in.Spot, in.Strike, in.Rate*100, in.Sigma*100, in.DaysToMaturity)
	for _, r := range results {
		fmt.Fprintf(&b, "%-24s call %10.4f  put %10.4f", r.Model, r.Call, r.Put)
		if r.Model == valuation.MonteCarlo {
			fmt.Fprintf(&b, "  (se %.4f / %.4f, seed %d)", r.CallStdErr, r.PutStdErr, r.Seed)
		}
		b.WriteString("\n")
	}
	b.WriteString("```")
	return b.String()
}

func displayTicker(t string) string {
	if t == "" {
		return "Manual input"
	}
	return t
}
