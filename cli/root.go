package cli

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bcdannyboy/optpricer/config"
)

type app struct {
	configPath string
	envFile    string
	logLevel   string

	cfg     *config.Config
	secrets config.Secrets
}

// NewRootCmd builds the optpricer command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "optpricer",
		Short:         "Price European options with Black-Scholes, a binomial tree and Monte Carlo simulation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML file with default pricing inputs")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", "", "dotenv file with TRADIER_KEY and slack tokens (default .env)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level, overrides the config file")

	root.AddCommand(
		newPriceCmd(a),
		newCompareCmd(a),
		newConvergenceCmd(a),
		newHistoryCmd(a),
		newSlackCmd(a),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg

	level := cfg.LogLevel
	if a.logLevel != "" {
		level = a.logLevel
	}
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return err
	}
	log.SetLevel(lvl)

	if a.envFile != "" {
		a.secrets = config.LoadSecrets(a.envFile)
	} else {
		a.secrets = config.LoadSecrets()
	}
	return nil
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}
