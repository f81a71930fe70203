package config

import (
	"fmt"
	"os"

	"github.com/michaWorku/news-sentiment-stock-analysis/dataset"

	"gopkg.in/yaml.v3"
)

// Job describes one analysis run: input tables, live-fetch settings,
// and per-job overrides of the analysis defaults. Zero values fall
// back to the environment configuration.
type Job struct {
	Symbol     string   `yaml:"symbol"`
	PricePaths []string `yaml:"price_paths"`
	NewsPath   string   `yaml:"news_path"`

	// Live fetches daily bars for Symbol from the configured provider
	// in addition to (or instead of) the CSV inputs.
	Live     bool `yaml:"live"`
	LiveDays int  `yaml:"live_days"`

	// ExportPath, when set, writes the combined price table back out
	// as CSV after loading.
	ExportPath string `yaml:"export_path"`

	TopKeywords int         `yaml:"top_keywords"`
	Windows     *JobWindows `yaml:"windows"`

	// Columns overrides the default CSV column names per table.
	Columns JobColumns `yaml:"columns"`
}

// JobWindows overrides the indicator lookback parameters for one job.
type JobWindows struct {
	SMAShort   int `yaml:"sma_short"`
	SMALong    int `yaml:"sma_long"`
	RSI        int `yaml:"rsi"`
	MACDFast   int `yaml:"macd_fast"`
	MACDSlow   int `yaml:"macd_slow"`
	MACDSignal int `yaml:"macd_signal"`
}

// JobColumns carries optional schema overrides. Absent fields keep
// the default column names.
type JobColumns struct {
	Prices *dataset.PriceSchema `yaml:"prices"`
	News   *dataset.NewsSchema  `yaml:"news"`
}

// LoadJob reads and validates a YAML job file.
func LoadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job file %s: %w", path, err)
	}

	var job Job
	if err := yaml.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to parse job file %s: %w", path, err)
	}

	if err := job.Validate(); err != nil {
		return nil, fmt.Errorf("invalid job file %s: %w", path, err)
	}

	return &job, nil
}

// Validate checks that the job names at least one data source and
// that its overrides are usable.
func (j *Job) Validate() error {
	if len(j.PricePaths) == 0 && !j.Live {
		return fmt.Errorf("job needs price_paths or live: true")
	}
	if j.Live && j.Symbol == "" {
		return fmt.Errorf("live: true requires a symbol")
	}
	if j.LiveDays < 0 {
		return fmt.Errorf("live_days must not be negative, got %d", j.LiveDays)
	}
	if j.TopKeywords < 0 {
		return fmt.Errorf("top_keywords must not be negative, got %d", j.TopKeywords)
	}
	if w := j.Windows; w != nil {
		for _, v := range []struct {
			name  string
			value int
		}{
			{"sma_short", w.SMAShort},
			{"sma_long", w.SMALong},
			{"rsi", w.RSI},
			{"macd_fast", w.MACDFast},
			{"macd_slow", w.MACDSlow},
			{"macd_signal", w.MACDSignal},
		} {
			if v.value < 1 {
				return fmt.Errorf("windows.%s must be at least 1, got %d", v.name, v.value)
			}
		}
		if w.MACDFast >= w.MACDSlow {
			return fmt.Errorf("windows.macd_fast (%d) must be smaller than windows.macd_slow (%d)", w.MACDFast, w.MACDSlow)
		}
	}
	return nil
}

// Loader builds a dataset loader honoring the job's column overrides.
func (j *Job) Loader() *dataset.Loader {
	loader := dataset.NewLoader()
	if j.Columns.Prices != nil {
		loader.Prices = *j.Columns.Prices
	}
	if j.Columns.News != nil {
		loader.News = *j.Columns.News
	}
	return loader
}
