package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// Load builds the effective configuration: defaults, overlaid with the
// YAML file at path (when path is non-empty), overlaid with environment
// variables. A missing explicit file is an error; an empty path skips the
// file step entirely.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile overlays values from a YAML file onto cfg. Zero values in the
// file leave the existing value untouched because the file is unmarshalled
// over the populated struct.
func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return ErrConfigNotFound
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// applyEnv overlays environment variables. Only secrets and deployment
// endpoints are settable from the environment.
func applyEnv(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAIAPIKey = v
	}
	if v := os.Getenv("CORAL_SERVER_URL"); v != "" {
		cfg.CoralServerURL = v
	}
	if v := os.Getenv("MARKETPLACE_ADDRESS"); v != "" {
		cfg.Address = v
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Address == "" {
		return errors.New("address must not be empty")
	}
	if c.SOLPriceUSD <= 0 {
		return fmt.Errorf("sol_price_usd must be positive, got %v", c.SOLPriceUSD)
	}
	if c.PlatformFee < 0 || c.PlatformFee >= 1 {
		return fmt.Errorf("platform_fee must be in [0, 1), got %v", c.PlatformFee)
	}
	if c.LiveSearch && len(c.SearchSources) == 0 {
		return errors.New("live_search requires at least one search source")
	}
	return nil
}
