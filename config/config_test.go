package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", c.Ticker)
	assert.Equal(t, 300.0, c.Strike)
	assert.Equal(t, 20.0, c.RatePercent)
	assert.Equal(t, 30.0, c.SigmaPercent)
	assert.Equal(t, 15000, c.Steps)
	assert.Equal(t, 15000, c.Simulations)
	assert.Equal(t, 24*time.Hour, c.Data.CacheTTL)
	assert.Equal(t, 365*24*time.Hour, c.Lookback())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, "pricer.yaml", `
ticker: SPY
rate_percent: 4.5
simulations: 50000
seed: 7
data:
  cache_ttl: 2h
tradier:
  base_url: https://sandbox.tradier.com
log_level: debug
`)
	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "SPY", c.Ticker)
	assert.Equal(t, 4.5, c.RatePercent)
	assert.Equal(t, 30.0, c.SigmaPercent)
	assert.Equal(t, 50000, c.Simulations)
	assert.Equal(t, uint64(7), c.Seed)
	assert.Equal(t, 2*time.Hour, c.Data.CacheTTL)
	assert.Equal(t, 365, c.Data.LookbackDays)
	assert.Equal(t, "https://sandbox.tradier.com", c.Tradier.BaseURL)
}

func TestLoadRejectsInvalid(t *testing.T) {
	for name, body := range map[string]string{
		"rate":      "rate_percent: 150\n",
		"sigma":     "sigma_percent: -2\n",
		"steps":     "steps: 0\n",
		"log level": "log_level: loud\n",
		"lookback":  "data:\n  lookback_days: 0\n",
	} {
		_, err := Load(writeFile(t, "bad.yaml", body))
		assert.Error(t, err, name)
	}

	_, err := Load(writeFile(t, "broken.yaml", "ticker: [\n"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	c, err := LoadUnchecked(writeFile(t, "loose.yaml", "steps: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, c.Steps)
}

func TestLoadSecrets(t *testing.T) {
	for _, k := range []string{"TRADIER_KEY", "SLACK_APP_TOKEN"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-existing")

	env := writeFile(t, ".env", "TRADIER_KEY=abc123\nSLACK_APP_TOKEN=xapp-1\nSLACK_BOT_TOKEN=xoxb-from-file\n")
	s := LoadSecrets(env)

	assert.Equal(t, "abc123", s.TradierKey)
	assert.Equal(t, "xapp-1", s.SlackAppToken)
	assert.Equal(t, "xoxb-existing", s.SlackBotToken)

	missing := LoadSecrets(filepath.Join(t.TempDir(), "nope.env"))
	assert.Equal(t, "xoxb-existing", missing.SlackBotToken)
}
