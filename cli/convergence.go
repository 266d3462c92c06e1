package cli

import (
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v7"
	"github.com/vbauerster/mpb/v7/decor"

	"github.com/bcdannyboy/optpricer/report"
	"github.com/bcdannyboy/optpricer/valuation"
)

type convergenceReport struct {
	Model     valuation.Model
	Reference *valuation.Result
	Points    []valuation.ConvergencePoint
}

func newConvergenceCmd(a *app) *cobra.Command {
	var (
		f        requestFlags
		model    string
		counts   []int
		asJSON   bool
		progress bool
	)

	cmd := &cobra.Command{
		Use:   "convergence",
		Short: "Sweep binomial steps or monte carlo paths and compare each run with Black-Scholes",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := valuation.ParseModel(model)
			if err != nil {
				return err
			}
			svc, req, err := a.prepare(cmd, &f)
			if err != nil {
				return err
			}

			var (
				onPoint func(valuation.ConvergencePoint)
				p       *mpb.Progress
				bar     *mpb.Bar
			)
			if progress {
				p = mpb.New(mpb.WithWidth(64), mpb.WithOutput(cmd.ErrOrStderr()))
				bar = p.AddBar(int64(len(counts)),
					mpb.PrependDecorators(
						decor.Name(m.String()),
						decor.Percentage(decor.WCSyncSpace),
					),
					mpb.AppendDecorators(
						decor.CountersNoUnit("(%d / %d)", decor.WCSyncSpace),
					),
				)
				onPoint = func(valuation.ConvergencePoint) { bar.Increment() }
			}

			ref, points, err := svc.Convergence(cmd.Context(), m, req, counts, onPoint)
			if p != nil {
				// an incomplete bar would block Wait
				if err != nil {
					bar.Abort(false)
				}
				p.Wait()
			}
			if err != nil {
				return err
			}

			if asJSON {
				return report.JSON(cmd.OutOrStdout(), convergenceReport{Model: m, Reference: ref, Points: points})
			}
			report.ConvergenceTable(cmd.OutOrStdout(), m, ref, points)
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().StringVarP(&model, "model", "m", "binomial", "model to sweep: binomial or mc")
	cmd.Flags().IntSliceVar(&counts, "counts", []int{10, 50, 100, 500, 1000, 5000}, "step or path counts to sweep")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the sweep as JSON")
	cmd.Flags().BoolVar(&progress, "progress", true, "show a progress bar")
	return cmd
}
