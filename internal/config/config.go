// Package config holds the server configuration.
//
// The configuration is a single flat struct populated from defaults, an
// optional YAML file, and environment variables, then passed through the
// application via dependency injection rather than global state.
package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. Where applicable the values match the
// original demo deployment.
const (
	// DefaultAddress is the listen address of the HTTP server. Port 8000
	// is what the demo UI and the Coral tool callbacks expect.
	DefaultAddress = ":8000"

	// DefaultCoralServerURL is where a locally running Coral server is
	// expected. The marketplace works without one; Coral integration is
	// simply disabled when the health check fails.
	DefaultCoralServerURL = "http://localhost:5555"

	// DefaultCoralApplicationID and DefaultCoralPrivacyKey identify the
	// marketplace application towards the Coral server.
	DefaultCoralApplicationID = "app"
	DefaultCoralPrivacyKey    = "priv"

	// DefaultOpenAIBaseURL is the OpenAI-compatible endpoint used by the
	// summarizer's LLM mode.
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"

	// DefaultModel is the model requested when an API key is configured.
	DefaultModel = "gpt-4"

	// DefaultSOLPriceUSD is the fixed SOL/USD rate of the simulated
	// payment processor.
	DefaultSOLPriceUSD = 180.0

	// DefaultPlatformFee is the marketplace cut of every payment.
	DefaultPlatformFee = 0.25

	// DefaultSearchTimeout bounds a single live search fetch. Live search
	// is best effort; the pipeline falls back to canned results.
	DefaultSearchTimeout = 10 * time.Second

	// AppName is used for XDG directory paths.
	AppName = "agentmarketplace"
)

// Config holds all configuration options for the server.
type Config struct {
	// Address is the HTTP listen address in ":port" or "host:port" form.
	Address string `yaml:"address"`

	// DataDir is where the SQLite database lives. Defaults to the XDG
	// data home for the application.
	DataDir string `yaml:"data_dir"`

	// CoralServerURL is the base URL of the Coral server.
	CoralServerURL string `yaml:"coral_server_url"`

	// CoralApplicationID identifies this application in Coral sessions.
	CoralApplicationID string `yaml:"coral_application_id"`

	// CoralPrivacyKey is the privacy key sent when creating sessions.
	CoralPrivacyKey string `yaml:"coral_privacy_key"`

	// OpenAIAPIKey enables the summarizer's LLM mode when non-empty.
	OpenAIAPIKey string `yaml:"openai_api_key"`

	// OpenAIBaseURL is the OpenAI-compatible API endpoint.
	OpenAIBaseURL string `yaml:"openai_base_url"`

	// Model is the model name used for LLM summaries.
	Model string `yaml:"model"`

	// SOLPriceUSD is the fixed exchange rate used for USD figures.
	SOLPriceUSD float64 `yaml:"sol_price_usd"`

	// PlatformFee is the fraction of each payment kept by the platform.
	PlatformFee float64 `yaml:"platform_fee"`

	// LiveSearch enables scraping the configured sources instead of
	// returning canned demo results.
	LiveSearch bool `yaml:"live_search"`

	// SearchSources are the URLs the live search agent visits.
	SearchSources []string `yaml:"search_sources"`

	// SearchTimeout bounds a single live search fetch.
	SearchTimeout time.Duration `yaml:"search_timeout"`
}

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		Address:            DefaultAddress,
		DataDir:            filepath.Join(xdg.DataHome, AppName),
		CoralServerURL:     DefaultCoralServerURL,
		CoralApplicationID: DefaultCoralApplicationID,
		CoralPrivacyKey:    DefaultCoralPrivacyKey,
		OpenAIBaseURL:      DefaultOpenAIBaseURL,
		Model:              DefaultModel,
		SOLPriceUSD:        DefaultSOLPriceUSD,
		PlatformFee:        DefaultPlatformFee,
		SearchTimeout:      DefaultSearchTimeout,
	}
}
