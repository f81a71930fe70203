// Command analyzer runs the news-sentiment and technical analysis
// over CSV price/news tables and/or a live price fetch, then prints
// the textual report.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/michaWorku/news-sentiment-stock-analysis/analysis"
	"github.com/michaWorku/news-sentiment-stock-analysis/config"
	"github.com/michaWorku/news-sentiment-stock-analysis/dataset"
	"github.com/michaWorku/news-sentiment-stock-analysis/models"
	"github.com/michaWorku/news-sentiment-stock-analysis/observability"
	"github.com/michaWorku/news-sentiment-stock-analysis/services"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		observability.Fatal("analyzer failed", "error", err)
	}
}

func run() error {
	jobPath := flag.String("job", "", "path to a YAML job file")
	pricePaths := flag.String("prices", "", "comma-separated price CSV files or directories")
	newsPath := flag.String("news", "", "news CSV file")
	symbol := flag.String("symbol", "", "stock symbol")
	live := flag.Bool("live", false, "fetch live daily prices for -symbol")
	exportPath := flag.String("export", "", "write the combined price table to this CSV")
	topN := flag.Int("top", 0, "number of keywords and publishers to rank (0 = config default)")
	flag.Parse()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	observability.InitLoggerWithLevel(cfg.Log.Production, logLevel(cfg.Log.Level))
	metrics := observability.InitMetrics()

	job, err := resolveJob(*jobPath, *pricePaths, *newsPath, *symbol, *live, *exportPath, *topN)
	if err != nil {
		return err
	}

	prices, err := loadPrices(cfg, job)
	if err != nil {
		return err
	}
	if len(prices) == 0 {
		return fmt.Errorf("no price data available")
	}

	if job.ExportPath != "" {
		if err := dataset.WritePrices(job.ExportPath, prices); err != nil {
			return fmt.Errorf("failed to export combined prices: %w", err)
		}
		observability.Info("exported combined price table", "path", job.ExportPath, "rows", len(prices))
	}

	var news []models.NewsRecord
	if job.NewsPath != "" {
		news, err = job.Loader().LoadNews(job.NewsPath)
		if err != nil {
			return fmt.Errorf("failed to load news: %w", err)
		}
	}

	pipeline := analysis.NewPipeline(analysis.NewScorer(), windowsFor(cfg, job), topKeywordsFor(cfg, job))
	report, err := pipeline.Run(job.Symbol, prices, news)
	if err != nil {
		return err
	}

	fmt.Println(report.Summary())

	if counters := metrics.Snapshot(); len(counters) > 0 {
		observability.Debug("run counters", "counters", fmt.Sprint(counters))
	}
	return nil
}

// resolveJob builds the job description from the job file when given,
// otherwise from the individual flags.
func resolveJob(jobPath, pricePaths, newsPath, symbol string, live bool, exportPath string, topN int) (*config.Job, error) {
	if jobPath != "" {
		job, err := config.LoadJob(jobPath)
		if err != nil {
			return nil, err
		}
		return job, nil
	}

	job := &config.Job{
		Symbol:      symbol,
		NewsPath:    newsPath,
		Live:        live,
		ExportPath:  exportPath,
		TopKeywords: topN,
	}
	if pricePaths != "" {
		job.PricePaths = strings.Split(pricePaths, ",")
	}
	if err := job.Validate(); err != nil {
		return nil, err
	}
	return job, nil
}

// loadPrices combines the CSV inputs with an optional live fetch. A
// provider failure with usable CSV data logs the error and continues;
// with no CSV data it is fatal.
func loadPrices(cfg *config.Config, job *config.Job) ([]models.PriceRecord, error) {
	var prices []models.PriceRecord

	if len(job.PricePaths) > 0 {
		loaded, err := job.Loader().LoadPrices(job.PricePaths...)
		if err != nil {
			return nil, fmt.Errorf("failed to load prices: %w", err)
		}
		prices = loaded
	}

	if job.Live {
		days := job.LiveDays
		if days == 0 {
			days = cfg.Provider.LookbackDays
		}
		timeout := time.Duration(cfg.Provider.TimeoutSeconds) * time.Second
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		fetched, err := buildProvider(cfg).FetchDaily(ctx, job.Symbol, days)
		if err != nil {
			if len(prices) == 0 {
				return nil, fmt.Errorf("live fetch failed with no CSV fallback: %w", err)
			}
			observability.Warn("live fetch failed, continuing with CSV data", "error", err)
		}
		prices = append(prices, fetched...)
	}

	return prices, nil
}

func buildProvider(cfg *config.Config) services.PriceProvider {
	if cfg.Provider.Name == "alpaca" && cfg.HasAlpaca() {
		return services.NewAlpacaClient(cfg.Alpaca.APIKey, cfg.Alpaca.APISecret)
	}
	if cfg.Provider.Name == "alpaca" {
		observability.Warn("Alpaca credentials not set, falling back to yahoo")
	}
	return services.NewYahooClient(time.Duration(cfg.Provider.TimeoutSeconds) * time.Second)
}

func windowsFor(cfg *config.Config, job *config.Job) analysis.Windows {
	if w := job.Windows; w != nil {
		return analysis.Windows{
			SMAShort:   w.SMAShort,
			SMALong:    w.SMALong,
			RSI:        w.RSI,
			MACDFast:   w.MACDFast,
			MACDSlow:   w.MACDSlow,
			MACDSignal: w.MACDSignal,
		}
	}
	a := cfg.Analysis
	return analysis.Windows{
		SMAShort:   a.SMAShort,
		SMALong:    a.SMALong,
		RSI:        a.RSIWindow,
		MACDFast:   a.MACDFast,
		MACDSlow:   a.MACDSlow,
		MACDSignal: a.MACDSignal,
	}
}

func topKeywordsFor(cfg *config.Config, job *config.Job) int {
	if job.TopKeywords > 0 {
		return job.TopKeywords
	}
	return cfg.Analysis.TopKeywords
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
