package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/michaWorku/news-sentiment-stock-analysis/models"
)

// chartPayload is a minimal v8 chart response: three trading days
// with a null bar (holiday) in between.
const chartPayload = `{
  "chart": {
    "result": [{
      "timestamp": [1704067200, 1704153600, 1704240000, 1704326400],
      "indicators": {
        "quote": [{
          "open":   [10.0, 11.0, null, 12.0],
          "high":   [10.5, 11.5, null, 12.5],
          "low":    [9.5, 10.5, null, 11.5],
          "close":  [10.2, 11.2, null, 12.2],
          "volume": [1000, 1100, null, 1200]
        }]
      }
    }],
    "error": null
  }
}`

func freshRegistry(t *testing.T) {
	t.Helper()
	SetGlobalRegistry(NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig))
}

func TestYahooFetchDaily(t *testing.T) {
	freshRegistry(t)

	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(chartPayload))
	}))
	defer server.Close()

	client := NewYahooClientWithBaseURL(5*time.Second, server.URL)
	records, err := client.FetchDaily(context.Background(), "AAPL", 30)
	if err != nil {
		t.Fatalf("FetchDaily() failed: %v", err)
	}

	if gotPath != "/v8/finance/chart/AAPL" {
		t.Errorf("expected chart path '/v8/finance/chart/AAPL', got %s", gotPath)
	}
	// The null bar is skipped.
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].Close != 10.2 || records[2].Close != 12.2 {
		t.Errorf("expected closes 10.2..12.2, got %v..%v", records[0].Close, records[2].Close)
	}
	if records[0].Company != "AAPL" {
		t.Errorf("expected Company='AAPL', got %s", records[0].Company)
	}
	want := models.DateOf(2024, time.January, 1)
	if records[0].Date != want {
		t.Errorf("expected first date %s, got %s", want, records[0].Date)
	}
	for i := 1; i < len(records); i++ {
		if !records[i-1].Date.Before(records[i].Date) {
			t.Errorf("records not sorted ascending at index %d", i)
		}
	}
}

func TestYahooFetchDaily_TrimsToRequestedDays(t *testing.T) {
	freshRegistry(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chartPayload))
	}))
	defer server.Close()

	client := NewYahooClientWithBaseURL(5*time.Second, server.URL)
	records, err := client.FetchDaily(context.Background(), "AAPL", 2)
	if err != nil {
		t.Fatalf("FetchDaily() failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records after trim, got %d", len(records))
	}
	// Trimming keeps the most recent bars.
	if records[1].Close != 12.2 {
		t.Errorf("expected last close 12.2, got %v", records[1].Close)
	}
}

func TestYahooFetchDaily_ServerError(t *testing.T) {
	freshRegistry(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewYahooClientWithBaseURL(5*time.Second, server.URL)
	records, err := client.FetchDaily(context.Background(), "AAPL", 30)
	if err == nil {
		t.Fatal("FetchDaily() expected error on 502 response, got nil")
	}
	if len(records) != 0 {
		t.Errorf("expected empty result on error, got %d records", len(records))
	}

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %T: %v", err, err)
	}
	if fetchErr.Provider != "yahoo" || fetchErr.Symbol != "AAPL" {
		t.Errorf("FetchError provider/symbol = %s/%s, expected yahoo/AAPL", fetchErr.Provider, fetchErr.Symbol)
	}
}

func TestYahooFetchDaily_APIError(t *testing.T) {
	freshRegistry(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[],"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))
	defer server.Close()

	client := NewYahooClientWithBaseURL(5*time.Second, server.URL)
	if _, err := client.FetchDaily(context.Background(), "NOPE", 30); err == nil {
		t.Fatal("FetchDaily() expected error on chart API error, got nil")
	}
}

func TestYahooFetchDaily_ShortQuoteArrays(t *testing.T) {
	freshRegistry(t)

	// Truncated quote arrays must surface as an error, never a panic.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
  "chart": {
    "result": [{
      "timestamp": [1704067200, 1704153600, 1704240000],
      "indicators": {
        "quote": [{
          "open":   [10.0],
          "high":   [10.5],
          "low":    [9.5],
          "close":  [10.2],
          "volume": [1000]
        }]
      }
    }],
    "error": null
  }
}`))
	}))
	defer server.Close()

	client := NewYahooClientWithBaseURL(5*time.Second, server.URL)
	records, err := client.FetchDaily(context.Background(), "AAPL", 30)
	if err == nil {
		t.Fatal("FetchDaily() expected error on truncated quote arrays, got nil")
	}
	if len(records) != 0 {
		t.Errorf("expected empty result, got %d records", len(records))
	}

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "malformed") {
		t.Errorf("expected malformed-payload error, got %v", err)
	}
}

func TestYahooFetchDaily_ContextCancelled(t *testing.T) {
	freshRegistry(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chartPayload))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewYahooClientWithBaseURL(5*time.Second, server.URL)
	if _, err := client.FetchDaily(ctx, "AAPL", 30); err == nil {
		t.Fatal("FetchDaily() expected error with cancelled context, got nil")
	}
}

func TestRangeForDays(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{7, "1mo"},
		{30, "1mo"},
		{60, "3mo"},
		{180, "6mo"},
		{365, "1y"},
		{500, "2y"},
	}
	for _, tt := range tests {
		if got := rangeForDays(tt.days); got != tt.want {
			t.Errorf("rangeForDays(%d) = %s, want %s", tt.days, got, tt.want)
		}
	}
}
