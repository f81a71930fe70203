package config

import (
	"os"
	"strings"
	"testing"
)

// configEnvKeys are all environment variables Load reads
var configEnvKeys = []string{
	"LOG_LEVEL", "LOG_JSON",
	"PRICE_PROVIDER", "PROVIDER_TIMEOUT_SECONDS", "PROVIDER_LOOKBACK_DAYS",
	"ALPACA_API_KEY", "ALPACA_API_SECRET", "ALPACA_BASE_URL",
	"SMA_SHORT_WINDOW", "SMA_LONG_WINDOW", "RSI_WINDOW",
	"MACD_FAST_SPAN", "MACD_SLOW_SPAN", "MACD_SIGNAL_SPAN",
	"TOP_KEYWORDS",
}

// saveEnv saves current environment variables for restoration
func saveEnv(t *testing.T, keys []string) map[string]string {
	t.Helper()
	saved := make(map[string]string)
	for _, key := range keys {
		saved[key] = os.Getenv(key)
	}
	return saved
}

// restoreEnv restores previously saved environment variables
func restoreEnv(t *testing.T, saved map[string]string) {
	t.Helper()
	for key, val := range saved {
		if val == "" {
			os.Unsetenv(key)
		} else {
			os.Setenv(key, val)
		}
	}
}

// clearEnv clears environment variables
func clearEnv(t *testing.T, keys []string) {
	t.Helper()
	for _, key := range keys {
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	saved := saveEnv(t, configEnvKeys)
	defer restoreEnv(t, saved)
	clearEnv(t, configEnvKeys)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with defaults failed: %v", err)
	}

	if cfg.Log.Level != "info" {
		t.Errorf("expected Log.Level='info', got %s", cfg.Log.Level)
	}
	if cfg.Log.Production {
		t.Errorf("expected Log.Production=false by default")
	}
	if cfg.Provider.Name != "yahoo" {
		t.Errorf("expected Provider.Name='yahoo', got %s", cfg.Provider.Name)
	}
	if cfg.Provider.TimeoutSeconds != 30 {
		t.Errorf("expected TimeoutSeconds=30, got %d", cfg.Provider.TimeoutSeconds)
	}
	if cfg.Provider.LookbackDays != 365 {
		t.Errorf("expected LookbackDays=365, got %d", cfg.Provider.LookbackDays)
	}
	if cfg.Alpaca.BaseURL != "https://paper-api.alpaca.markets" {
		t.Errorf("expected Alpaca.BaseURL='https://paper-api.alpaca.markets', got %s", cfg.Alpaca.BaseURL)
	}
	if cfg.Analysis.SMAShort != 20 || cfg.Analysis.SMALong != 50 {
		t.Errorf("expected SMA windows 20/50, got %d/%d", cfg.Analysis.SMAShort, cfg.Analysis.SMALong)
	}
	if cfg.Analysis.RSIWindow != 14 {
		t.Errorf("expected RSIWindow=14, got %d", cfg.Analysis.RSIWindow)
	}
	if cfg.Analysis.MACDFast != 12 || cfg.Analysis.MACDSlow != 26 || cfg.Analysis.MACDSignal != 9 {
		t.Errorf("expected MACD spans 12/26/9, got %d/%d/%d",
			cfg.Analysis.MACDFast, cfg.Analysis.MACDSlow, cfg.Analysis.MACDSignal)
	}
	if cfg.Analysis.TopKeywords != 10 {
		t.Errorf("expected TopKeywords=10, got %d", cfg.Analysis.TopKeywords)
	}
	if cfg.HasAlpaca() {
		t.Errorf("expected HasAlpaca()=false with no credentials set")
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	saved := saveEnv(t, configEnvKeys)
	defer restoreEnv(t, saved)
	clearEnv(t, configEnvKeys)

	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("LOG_JSON", "true")
	os.Setenv("PRICE_PROVIDER", "alpaca")
	os.Setenv("PROVIDER_LOOKBACK_DAYS", "90")
	os.Setenv("ALPACA_API_KEY", "key")
	os.Setenv("ALPACA_API_SECRET", "secret")
	os.Setenv("SMA_SHORT_WINDOW", "10")
	os.Setenv("TOP_KEYWORDS", "25")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("expected Log.Level='debug', got %s", cfg.Log.Level)
	}
	if !cfg.Log.Production {
		t.Errorf("expected Log.Production=true")
	}
	if cfg.Provider.Name != "alpaca" {
		t.Errorf("expected Provider.Name='alpaca', got %s", cfg.Provider.Name)
	}
	if cfg.Provider.LookbackDays != 90 {
		t.Errorf("expected LookbackDays=90, got %d", cfg.Provider.LookbackDays)
	}
	if !cfg.HasAlpaca() {
		t.Errorf("expected HasAlpaca()=true with credentials set")
	}
	if cfg.Analysis.SMAShort != 10 {
		t.Errorf("expected SMAShort=10, got %d", cfg.Analysis.SMAShort)
	}
	if cfg.Analysis.TopKeywords != 25 {
		t.Errorf("expected TopKeywords=25, got %d", cfg.Analysis.TopKeywords)
	}
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	saved := saveEnv(t, configEnvKeys)
	defer restoreEnv(t, saved)
	clearEnv(t, configEnvKeys)

	os.Setenv("RSI_WINDOW", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Analysis.RSIWindow != 14 {
		t.Errorf("expected RSIWindow to fall back to 14, got %d", cfg.Analysis.RSIWindow)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: "LOG_LEVEL",
		},
		{
			name:    "bad provider",
			mutate:  func(c *Config) { c.Provider.Name = "bloomberg" },
			wantErr: "PRICE_PROVIDER",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Provider.TimeoutSeconds = 0 },
			wantErr: "PROVIDER_TIMEOUT_SECONDS",
		},
		{
			name:    "zero sma window",
			mutate:  func(c *Config) { c.Analysis.SMAShort = 0 },
			wantErr: "SMA_SHORT_WINDOW",
		},
		{
			name:    "fast span not below slow",
			mutate:  func(c *Config) { c.Analysis.MACDFast = 26 },
			wantErr: "MACD_FAST_SPAN",
		},
		{
			name:    "zero keyword count",
			mutate:  func(c *Config) { c.Analysis.TopKeywords = 0 },
			wantErr: "TOP_KEYWORDS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewTestConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, expected it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestNewTestConfig_IsValid(t *testing.T) {
	if err := NewTestConfig().Validate(); err != nil {
		t.Errorf("NewTestConfig().Validate() failed: %v", err)
	}
}
