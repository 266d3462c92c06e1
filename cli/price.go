package cli

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bcdannyboy/optpricer/models"
	"github.com/bcdannyboy/optpricer/report"
	"github.com/bcdannyboy/optpricer/valuation"
)

func newPriceCmd(a *app) *cobra.Command {
	var (
		f        requestFlags
		model    string
		asJSON   bool
		pathsCSV string
	)

	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price a European call and put with one model",
		Example: "  optpricer price --model binomial --ticker AAPL --strike 300 --rate 20 --sigma 30 --exercise 2025-01-17\n" +
			"  optpricer price --model mc --spot 100 --strike 100 --rate 5 --sigma 20 --days 365 --paths-csv paths.csv",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := valuation.ParseModel(model)
			if err != nil {
				return err
			}
			svc, req, err := a.prepare(cmd, &f)
			if err != nil {
				return err
			}
			svc.KeepPaths = pathsCSV != "" && m == valuation.MonteCarlo
			res, err := svc.Price(cmd.Context(), m, req)
			if err != nil {
				return err
			}

			if pathsCSV != "" {
				if err := writePaths(pathsCSV, res); err != nil {
					return err
				}
			}
			if asJSON {
				return report.JSON(cmd.OutOrStdout(), res)
			}
			report.Table(cmd.OutOrStdout(), []*valuation.Result{res})
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().StringVarP(&model, "model", "m", "bs", "pricing model: bs, binomial or mc")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().StringVar(&pathsCSV, "paths-csv", "", "write simulated monte carlo paths to this CSV file")
	return cmd
}

func writePaths(path string, res *valuation.Result) error {
	if res.PathSet == nil {
		return fmt.Errorf("--paths-csv needs the monte carlo model")
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer out.Close()

	years := models.DaysToYears(float64(res.Inputs.DaysToMaturity))
	if err := report.WritePathsCSV(out, res.PathSet, years); err != nil {
		return err
	}
	log.Infof("Exported %d paths to %s", res.Paths, path)
	return nil
}
