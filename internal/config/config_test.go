package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ":8000", cfg.Address)
	assert.Equal(t, "http://localhost:5555", cfg.CoralServerURL)
	assert.Equal(t, "gpt-4", cfg.Model)
	assert.Equal(t, 180.0, cfg.SOLPriceUSD)
	assert.Equal(t, 0.25, cfg.PlatformFee)
	assert.Equal(t, 10*time.Second, cfg.SearchTimeout)
	assert.NotEmpty(t, cfg.DataDir)
	assert.False(t, cfg.LiveSearch)
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8000", cfg.Address)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestLoadFileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
address: ":9000"
sol_price_usd: 200
platform_fee: 0.1
model: gpt-4o
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Address)
	assert.Equal(t, 200.0, cfg.SOLPriceUSD)
	assert.Equal(t, 0.1, cfg.PlatformFee)
	assert.Equal(t, "gpt-4o", cfg.Model)
	// Untouched values keep their defaults.
	assert.Equal(t, "http://localhost:5555", cfg.CoralServerURL)
}

func TestLoadEnvOverlay(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("CORAL_SERVER_URL", "http://coral:5555")
	t.Setenv("MARKETPLACE_ADDRESS", ":7000")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.Equal(t, "http://coral:5555", cfg.CoralServerURL)
	assert.Equal(t, ":7000", cfg.Address)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty address", func(c *Config) { c.Address = "" }},
		{"zero sol price", func(c *Config) { c.SOLPriceUSD = 0 }},
		{"negative fee", func(c *Config) { c.PlatformFee = -0.1 }},
		{"fee of one", func(c *Config) { c.PlatformFee = 1 }},
		{"live search without sources", func(c *Config) { c.LiveSearch = true; c.SearchSources = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, Default().Validate())
}
