// Package config loads runtime configuration from the environment
// and analysis job descriptions from YAML files.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	// Logging configuration
	Log LogConfig

	// Live price provider configuration
	Provider ProviderConfig

	// Alpaca market-data configuration
	Alpaca AlpacaConfig

	// Analysis parameters
	Analysis AnalysisConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level      string // debug, info, warn, error
	Production bool   // JSON output when true, text otherwise
}

// ProviderConfig selects and tunes the live price provider
type ProviderConfig struct {
	Name           string // yahoo or alpaca
	TimeoutSeconds int
	LookbackDays   int
}

// AlpacaConfig holds Alpaca API configuration
type AlpacaConfig struct {
	APIKey    string
	APISecret string
	BaseURL   string
}

// AnalysisConfig holds indicator windows and ranking defaults
type AnalysisConfig struct {
	SMAShort    int
	SMALong     int
	RSIWindow   int
	MACDFast    int
	MACDSlow    int
	MACDSignal  int
	TopKeywords int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Log: LogConfig{
			Level:      getEnvString("LOG_LEVEL", "info"),
			Production: getEnvBool("LOG_JSON", false),
		},
		Provider: ProviderConfig{
			Name:           getEnvString("PRICE_PROVIDER", "yahoo"),
			TimeoutSeconds: getEnvInt("PROVIDER_TIMEOUT_SECONDS", 30),
			LookbackDays:   getEnvInt("PROVIDER_LOOKBACK_DAYS", 365),
		},
		Alpaca: AlpacaConfig{
			APIKey:    os.Getenv("ALPACA_API_KEY"),
			APISecret: os.Getenv("ALPACA_API_SECRET"),
			BaseURL:   getEnvString("ALPACA_BASE_URL", "https://paper-api.alpaca.markets"),
		},
		Analysis: AnalysisConfig{
			SMAShort:    getEnvInt("SMA_SHORT_WINDOW", 20),
			SMALong:     getEnvInt("SMA_LONG_WINDOW", 50),
			RSIWindow:   getEnvInt("RSI_WINDOW", 14),
			MACDFast:    getEnvInt("MACD_FAST_SPAN", 12),
			MACDSlow:    getEnvInt("MACD_SLOW_SPAN", 26),
			MACDSignal:  getEnvInt("MACD_SIGNAL_SPAN", 9),
			TopKeywords: getEnvInt("TOP_KEYWORDS", 10),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks configuration consistency
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid LOG_LEVEL %q: must be debug, info, warn, or error", c.Log.Level)
	}

	switch c.Provider.Name {
	case "yahoo", "alpaca":
	default:
		return fmt.Errorf("invalid PRICE_PROVIDER %q: must be yahoo or alpaca", c.Provider.Name)
	}

	if c.Provider.TimeoutSeconds <= 0 {
		return fmt.Errorf("PROVIDER_TIMEOUT_SECONDS must be positive, got %d", c.Provider.TimeoutSeconds)
	}
	if c.Provider.LookbackDays <= 0 {
		return fmt.Errorf("PROVIDER_LOOKBACK_DAYS must be positive, got %d", c.Provider.LookbackDays)
	}

	a := c.Analysis
	for _, w := range []struct {
		name  string
		value int
	}{
		{"SMA_SHORT_WINDOW", a.SMAShort},
		{"SMA_LONG_WINDOW", a.SMALong},
		{"RSI_WINDOW", a.RSIWindow},
		{"MACD_FAST_SPAN", a.MACDFast},
		{"MACD_SLOW_SPAN", a.MACDSlow},
		{"MACD_SIGNAL_SPAN", a.MACDSignal},
	} {
		if w.value < 1 {
			return fmt.Errorf("%s must be at least 1, got %d", w.name, w.value)
		}
	}
	if a.MACDFast >= a.MACDSlow {
		return fmt.Errorf("MACD_FAST_SPAN (%d) must be smaller than MACD_SLOW_SPAN (%d)", a.MACDFast, a.MACDSlow)
	}
	if a.TopKeywords < 1 {
		return fmt.Errorf("TOP_KEYWORDS must be at least 1, got %d", a.TopKeywords)
	}

	return nil
}

// HasAlpaca returns true if Alpaca credentials are configured
func (c *Config) HasAlpaca() bool {
	return c.Alpaca.APIKey != "" && c.Alpaca.APISecret != ""
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// NewTestConfig returns a config with defaults suitable for testing
func NewTestConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:      "debug",
			Production: false,
		},
		Provider: ProviderConfig{
			Name:           "yahoo",
			TimeoutSeconds: 5,
			LookbackDays:   30,
		},
		Alpaca: AlpacaConfig{
			APIKey:    "test-key",
			APISecret: "test-secret",
			BaseURL:   "https://paper-api.alpaca.markets",
		},
		Analysis: AnalysisConfig{
			SMAShort:    20,
			SMALong:     50,
			RSIWindow:   14,
			MACDFast:    12,
			MACDSlow:    26,
			MACDSignal:  9,
			TopKeywords: 10,
		},
	}
}
