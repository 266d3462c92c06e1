package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bcdannyboy/optpricer/marketdata"
	"github.com/bcdannyboy/optpricer/report"
)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		ticker   string
		dataFile string
		rows     int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent daily bars and a summary of the closing prices",
		RunE: func(cmd *cobra.Command, args []string) error {
			if ticker == "" {
				ticker = a.cfg.Ticker
			}
			src := a.source(&requestFlags{dataFile: dataFile})
			if src == nil {
				return fmt.Errorf("%w: set TRADIER_KEY or --data-file", marketdata.ErrDataUnavailable)
			}
			series, err := src.History(cmd.Context(), ticker)
			if err != nil {
				return err
			}
			return report.HistoryTable(cmd.OutOrStdout(), series, rows)
		},
	}

	cmd.Flags().StringVarP(&ticker, "ticker", "t", "", "underlying ticker")
	cmd.Flags().StringVar(&dataFile, "data-file", "", "CSV price history to read instead of Tradier")
	cmd.Flags().IntVarP(&rows, "rows", "n", 10, "number of recent bars to show")
	return cmd
}
