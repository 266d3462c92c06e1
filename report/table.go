package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/bcdannyboy/optpricer/marketdata"
	"github.com/bcdannyboy/optpricer/valuation"
)

var printer = message.NewPrinter(language.English)

func money(v float64) string {
	return fmt.Sprintf("$%s", printer.Sprintf("%.4f", v))
}

// Table renders one row per model result.
func Table(w io.Writer, results []*valuation.Result) {
	if len(results) == 0 {
		return
	}
	in := results[0].Inputs
	fmt.Fprintf(w, "%s spot %s, strike %s, rate %.2f%%, volatility %.2f%%, %d days to maturity\n",
		displayTicker(in.Ticker), money(in.Spot), money(in.Strike), in.Rate*100, in.Sigma*100, in.DaysToMaturity)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Model", "Call", "Put", "Std Err", "Steps", "Paths", "Elapsed"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, r := range results {
		stdErr, steps, paths := "", "", ""
		if r.Model == valuation.MonteCarlo {
			stdErr = fmt.Sprintf("%.4f / %.4f", r.CallStdErr, r.PutStdErr)
			paths = printer.Sprintf("%d", r.Paths)
		}
		if r.Steps > 0 {
			steps = printer.Sprintf("%d", r.Steps)
		}
		table.Append([]string{r.Model.String(), money(r.Call), money(r.Put), stdErr, steps, paths, r.Elapsed.Round(time.Microsecond).String()})
	}
	table.Render()
}

// ConvergenceTable renders a step or path sweep against the closed-form price.
func ConvergenceTable(w io.Writer, model valuation.Model, reference *valuation.Result, points []valuation.ConvergencePoint) {
	fmt.Fprintf(w, "%s convergence to Black-Scholes (call %s, put %s)\n", model, money(reference.Call), money(reference.Put))

	n := "Steps"
	if model == valuation.MonteCarlo {
		n = "Paths"
	}
	header := []string{n, "Call", "Put", "Call Error", "Put Error"}
	if model == valuation.MonteCarlo {
		header = append(header, "Std Err")
	}
	header = append(header, "Elapsed")

	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, p := range points {
		row := []string{printer.Sprintf("%d", p.N), money(p.Call), money(p.Put), fmt.Sprintf("%.6f", p.CallError), fmt.Sprintf("%.6f", p.PutError)}
		if model == valuation.MonteCarlo {
			row = append(row, fmt.Sprintf("%.6f", p.StdErr))
		}
		row = append(row, p.Elapsed.Round(time.Microsecond).String())
		table.Append(row)
	}
	table.Render()
}

// HistoryTable renders the last n bars of a series followed by a summary of
// its closing prices.
func HistoryTable(w io.Writer, s *marketdata.Series, n int) error {
	sum, err := s.Summary()
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(append([]string{"Date"}, s.Columns()...))
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, p := range s.Tail(n) {
		table.Append([]string{
			p.Date.Format("2006-01-02"),
			printer.Sprintf("%.2f", p.Open),
			printer.Sprintf("%.2f", p.High),
			printer.Sprintf("%.2f", p.Low),
			printer.Sprintf("%.2f", p.Close),
			printer.Sprintf("%d", p.Volume),
		})
	}
	fmt.Fprintf(w, "%s price history\n", displayTicker(s.Symbol))
	table.Render()

	fmt.Fprintf(w, "%d closes from %s to %s: min %s, max %s, mean %s, std dev %.4f\n",
		sum.Count, sum.From.Format("2006-01-02"), sum.To.Format("2006-01-02"),
		money(sum.Min), money(sum.Max), money(sum.Mean), sum.StdDev)
	return nil
}

func displayTicker(t string) string {
	if t == "" {
		return "Manual input:"
	}
	return strings.ToUpper(t)
}

