package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/bcdannyboy/optpricer/marketdata"
	"github.com/bcdannyboy/optpricer/tradier"
)

// Config is the on-disk configuration shape (YAML). It carries the default
// inputs used when a command leaves them out.
type Config struct {
	Ticker       string  `yaml:"ticker"`
	Strike       float64 `yaml:"strike"`
	RatePercent  float64 `yaml:"rate_percent"`
	SigmaPercent float64 `yaml:"sigma_percent"`
	Steps        int     `yaml:"steps"`
	Simulations  int     `yaml:"simulations"`
	PathSteps    int     `yaml:"path_steps"`
	Seed         uint64  `yaml:"seed"`

	DataFile string        `yaml:"data_file"`
	Data     DataConfig    `yaml:"data"`
	Tradier  TradierConfig `yaml:"tradier"`
	LogLevel string        `yaml:"log_level"`
}

type DataConfig struct {
	CacheTTL     time.Duration `yaml:"cache_ttl"`
	LookbackDays int           `yaml:"lookback_days"`
}

type TradierConfig struct {
	BaseURL string `yaml:"base_url"`
}

// Default mirrors the values the pricing forms start with.
func Default() *Config {
	return &Config{
		Ticker:       "AAPL",
		Strike:       300,
		RatePercent:  20,
		SigmaPercent: 30,
		Steps:        15000,
		Simulations:  15000,
		Data: DataConfig{
			CacheTTL:     marketdata.DefaultCacheTTL,
			LookbackDays: 365,
		},
		Tradier:  TradierConfig{BaseURL: tradier.DefaultBaseURL},
		LogLevel: "info",
	}
}

// Load reads path over the defaults and validates the result. An empty path
// yields the defaults.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads the config without validating it.
func LoadUnchecked(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Strike < 0 {
		return fmt.Errorf("strike must not be negative, got %v", c.Strike)
	}
	if c.RatePercent < 0 || c.RatePercent > 100 {
		return fmt.Errorf("rate_percent must be within [0, 100], got %v", c.RatePercent)
	}
	if c.SigmaPercent < 0 || c.SigmaPercent > 100 {
		return fmt.Errorf("sigma_percent must be within [0, 100], got %v", c.SigmaPercent)
	}
	if c.Steps < 1 {
		return fmt.Errorf("steps must be positive, got %d", c.Steps)
	}
	if c.Simulations < 1 {
		return fmt.Errorf("simulations must be positive, got %d", c.Simulations)
	}
	if c.PathSteps < 0 {
		return fmt.Errorf("path_steps must not be negative, got %d", c.PathSteps)
	}
	if c.Data.CacheTTL < 0 {
		return fmt.Errorf("data.cache_ttl must not be negative, got %s", c.Data.CacheTTL)
	}
	if c.Data.LookbackDays < 1 {
		return fmt.Errorf("data.lookback_days must be positive, got %d", c.Data.LookbackDays)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

func (c *Config) Lookback() time.Duration {
	return time.Duration(c.Data.LookbackDays) * 24 * time.Hour
}

// Secrets are read from the environment, optionally seeded from .env files.
type Secrets struct {
	TradierKey    string
	SlackAppToken string
	SlackBotToken string
}

// LoadSecrets loads the given .env files (".env" when none are given) and
// reads the API tokens. A missing .env file is not an error.
func LoadSecrets(files ...string) Secrets {
	if err := godotenv.Load(files...); err != nil {
		log.WithError(err).Debug("no .env file loaded")
	}
	return Secrets{
		TradierKey:    strings.TrimSpace(os.Getenv("TRADIER_KEY")),
		SlackAppToken: strings.TrimSpace(os.Getenv("SLACK_APP_TOKEN")),
		SlackBotToken: strings.TrimSpace(os.Getenv("SLACK_BOT_TOKEN")),
	}
}
