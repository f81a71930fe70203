package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/michaWorku/news-sentiment-stock-analysis/models"
	"github.com/michaWorku/news-sentiment-stock-analysis/observability"
)

const defaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooClient fetches daily bars from the Yahoo Finance v8 chart API.
// No API key is required.
type YahooClient struct {
	client  *http.Client
	baseURL string
}

// NewYahooClient creates a Yahoo client with the given request timeout.
func NewYahooClient(timeout time.Duration) *YahooClient {
	return &YahooClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: defaultYahooBaseURL,
	}
}

// NewYahooClientWithBaseURL creates a client against a custom endpoint
// (used by tests with httptest servers).
func NewYahooClientWithBaseURL(timeout time.Duration, baseURL string) *YahooClient {
	return &YahooClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Name identifies the provider in logs, metrics, and errors.
func (c *YahooClient) Name() string { return BreakerYahoo }

// yahooChart is the response structure of the v8 chart API. Quote
// arrays use interface{} because Yahoo emits JSON nulls for holidays.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

// rangeForDays maps a day count onto the coarser range buckets the
// chart API accepts for daily bars.
func rangeForDays(days int) string {
	switch {
	case days <= 30:
		return "1mo"
	case days <= 90:
		return "3mo"
	case days <= 180:
		return "6mo"
	case days <= 365:
		return "1y"
	default:
		return "2y"
	}
}

// FetchDaily returns up to days daily records for the symbol, sorted
// ascending by date. The call goes through the yahoo circuit breaker;
// any failure comes back as a *FetchError with an empty slice.
func (c *YahooClient) FetchDaily(ctx context.Context, symbol string, days int) ([]models.PriceRecord, error) {
	metrics := observability.GetMetrics()
	metrics.RecordProviderRequest(c.Name(), "fetch_daily")
	timer := metrics.NewTimer()

	records, err := WithCircuitBreaker(ctx, BreakerYahoo, func() ([]models.PriceRecord, error) {
		return c.fetchChart(ctx, symbol, "1d", rangeForDays(days))
	})
	timer.ObserveProvider(c.Name(), "fetch_daily")

	if err != nil {
		metrics.RecordProviderError(c.Name(), "fetch_daily", "fetch")
		observability.WithSymbol(symbol).Error("live price fetch failed",
			"provider", c.Name(), "error", err)
		return nil, &FetchError{Provider: c.Name(), Symbol: symbol, Err: err}
	}

	if len(records) > days {
		records = records[len(records)-days:]
	}
	observability.WithSymbol(symbol).Info("fetched live prices",
		"provider", c.Name(), "rows", len(records))
	return records, nil
}

func (c *YahooClient) fetchChart(ctx context.Context, symbol, interval, rng string) ([]models.PriceRecord, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		c.baseURL, url.PathEscape(symbol), interval, rng)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chart: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read chart response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chart request returned status %d: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("failed to decode chart response: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("chart API returned no data for %s", symbol)
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("chart API returned no quote data for %s", symbol)
	}
	quote := result.Indicators.Quote[0]

	// Quote arrays must cover every timestamp; a truncated payload is
	// rejected rather than indexed past its end.
	n := len(result.Timestamp)
	if len(quote.Open) < n || len(quote.High) < n || len(quote.Low) < n ||
		len(quote.Close) < n || len(quote.Volume) < n {
		return nil, fmt.Errorf("chart payload for %s is malformed: %d timestamps but shorter quote arrays", symbol, n)
	}

	records := make([]models.PriceRecord, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		o := toFloat(quote.Open[i])
		h := toFloat(quote.High[i])
		l := toFloat(quote.Low[i])
		cl := toFloat(quote.Close[i])
		if o == 0 && h == 0 && l == 0 && cl == 0 {
			continue // null bar (holiday etc.)
		}
		records = append(records, models.PriceRecord{
			Date:    models.NewDate(time.Unix(ts, 0).UTC()),
			Open:    o,
			High:    h,
			Low:     l,
			Close:   cl,
			Volume:  toFloat(quote.Volume[i]),
			Company: symbol,
		})
	}

	return models.SortPricesByDate(records), nil
}
