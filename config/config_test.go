package config

import (
	"os"
	"path/filepath"
	"testing"

	"comptroller/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
app:
  genesis: 1600000000
  seconds_per_block: 15
  store: memory
admins:
  - admin
price_oracle:
  prices:
    usdc: "1"
markets:
  - asset: usdc
    symbol: USDC
    collateral_factor: "0.8"
    reserve_factor: "0.1"
    rate_model: whitepaper
    base_rate_per_year: "0.02"
    multiplier_per_year: "0.1"
`

func writeConfig(t *testing.T, content string) string {
	filename := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(filename, []byte(content), 0o600))
	return filename
}

func TestLoad(t *testing.T) {
	var cfg core.Config
	require.NoError(t, Load(writeConfig(t, sample), &cfg))

	assert.Equal(t, int64(15), cfg.App.SecondsPerBlock)
	assert.Equal(t, "UTC", cfg.App.Location)
	assert.True(t, cfg.IsAdmin("admin"))
	assert.False(t, cfg.IsAdmin("alice"))
	assert.Equal(t, "1", cfg.Oracle.Prices["usdc"])
	require.Len(t, cfg.Markets, 1)
	assert.Equal(t, "0.8", cfg.Markets[0].CollateralFactor)
}

func TestLoadRejectsUnknownStore(t *testing.T) {
	var cfg core.Config
	err := Load(writeConfig(t, "app:\n  store: bolt\n"), &cfg)
	assert.Error(t, err)
}
