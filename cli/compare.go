package cli

import (
	"github.com/spf13/cobra"

	"github.com/bcdannyboy/optpricer/report"
)

func newCompareCmd(a *app) *cobra.Command {
	var (
		f      requestFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Price with every model against the same spot price",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, req, err := a.prepare(cmd, &f)
			if err != nil {
				return err
			}
			results, err := svc.Compare(cmd.Context(), req)
			if err != nil {
				return err
			}
			if asJSON {
				return report.JSON(cmd.OutOrStdout(), results)
			}
			report.Table(cmd.OutOrStdout(), results)
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the results as JSON")
	return cmd
}
