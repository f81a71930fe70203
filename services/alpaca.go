package services

import (
	"context"
	"fmt"
	"time"

	"github.com/michaWorku/news-sentiment-stock-analysis/models"
	"github.com/michaWorku/news-sentiment-stock-analysis/observability"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

// AlpacaClient fetches daily bars from the Alpaca market-data API.
type AlpacaClient struct {
	dataClient *marketdata.Client
}

// NewAlpacaClient creates an Alpaca market-data client.
func NewAlpacaClient(apiKey, apiSecret string) *AlpacaClient {
	dataClient := marketdata.NewClient(marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	})
	return &AlpacaClient{dataClient: dataClient}
}

// Name identifies the provider in logs, metrics, and errors.
func (c *AlpacaClient) Name() string { return BreakerAlpaca }

// FetchDaily returns daily records for the last days calendar days,
// sorted ascending by date. The call goes through the alpaca circuit
// breaker; any failure comes back as a *FetchError with an empty
// slice.
func (c *AlpacaClient) FetchDaily(ctx context.Context, symbol string, days int) ([]models.PriceRecord, error) {
	metrics := observability.GetMetrics()
	metrics.RecordProviderRequest(c.Name(), "fetch_daily")
	timer := metrics.NewTimer()

	records, err := WithCircuitBreaker(ctx, BreakerAlpaca, func() ([]models.PriceRecord, error) {
		end := time.Now()
		start := end.AddDate(0, 0, -days)

		bars, err := c.dataClient.GetBars(symbol, marketdata.GetBarsRequest{
			TimeFrame: marketdata.OneDay,
			Start:     start,
			End:       end,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get bars for %s: %w", symbol, err)
		}
		return barsToRecords(symbol, bars), nil
	})
	timer.ObserveProvider(c.Name(), "fetch_daily")

	if err != nil {
		metrics.RecordProviderError(c.Name(), "fetch_daily", "fetch")
		observability.WithSymbol(symbol).Error("live price fetch failed",
			"provider", c.Name(), "error", err)
		return nil, &FetchError{Provider: c.Name(), Symbol: symbol, Err: err}
	}

	observability.WithSymbol(symbol).Info("fetched live prices",
		"provider", c.Name(), "rows", len(records))
	return records, nil
}

// barsToRecords maps Alpaca bars onto price records. Bars arrive in
// ascending timestamp order already; the sort keeps that guarantee
// local.
func barsToRecords(symbol string, bars []marketdata.Bar) []models.PriceRecord {
	records := make([]models.PriceRecord, 0, len(bars))
	for _, bar := range bars {
		records = append(records, models.PriceRecord{
			Date:    models.NewDate(bar.Timestamp.UTC()),
			Open:    bar.Open,
			High:    bar.High,
			Low:     bar.Low,
			Close:   bar.Close,
			Volume:  float64(bar.Volume),
			Company: symbol,
		})
	}
	return models.SortPricesByDate(records)
}
