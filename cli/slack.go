package cli

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	pricerslack "github.com/bcdannyboy/optpricer/slack"
)

func newSlackCmd(a *app) *cobra.Command {
	var (
		dataFile string
		debug    bool
	)

	cmd := &cobra.Command{
		Use:   "slack",
		Short: "Serve /price and /help slash commands over slack socket mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.secrets.SlackAppToken == "" || a.secrets.SlackBotToken == "" {
				return errors.New("SLACK_APP_TOKEN and SLACK_BOT_TOKEN must be set")
			}

			svc := a.service(&requestFlags{dataFile: dataFile})
			bot := pricerslack.NewSlackBot(a.secrets.SlackAppToken, a.secrets.SlackBotToken, svc, pricerslack.Defaults{
				Steps:       a.cfg.Steps,
				Simulations: a.cfg.Simulations,
				PathSteps:   a.cfg.PathSteps,
				Seed:        a.cfg.Seed,
			}, debug)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Info("starting slack bot")
			return bot.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&dataFile, "data-file", "", "CSV price history to read instead of Tradier")
	cmd.Flags().BoolVar(&debug, "debug", false, "log socket mode traffic")
	return cmd
}
