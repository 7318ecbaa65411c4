package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, 252, cfg.PeriodsPerYear)
	assert.Equal(t, 30, cfg.FrontierPoints)
	assert.Equal(t, 10000, cfg.NumSimulations)
	assert.Equal(t, "6mo", cfg.HistoryRange)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("RISK_FREE_RATE", "0.03")
	t.Setenv("FRONTIER_POINTS", "50")
	t.Setenv("DEV_MODE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.InDelta(t, 0.03, cfg.RiskFreeRate, 1e-12)
	assert.Equal(t, 50, cfg.FrontierPoints)
	assert.True(t, cfg.DevMode)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing data dir", func(c *Config) { c.DataDir = "" }, "DATA_DIR"},
		{"non-positive periods", func(c *Config) { c.PeriodsPerYear = 0 }, "PERIODS_PER_YEAR"},
		{"non-positive frontier points", func(c *Config) { c.FrontierPoints = -1 }, "FRONTIER_POINTS"},
		{"non-positive simulations", func(c *Config) { c.NumSimulations = 0 }, "NUM_SIMULATIONS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			require.NoError(t, err)

			tt.mutate(cfg)
			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
