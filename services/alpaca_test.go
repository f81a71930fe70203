package services

import (
	"testing"
	"time"

	"github.com/michaWorku/news-sentiment-stock-analysis/models"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

func TestBarsToRecords(t *testing.T) {
	bars := []marketdata.Bar{
		{
			Timestamp: time.Date(2024, 1, 3, 5, 0, 0, 0, time.UTC),
			Open:      12.0, High: 12.5, Low: 11.5, Close: 12.2, Volume: 1200,
		},
		{
			Timestamp: time.Date(2024, 1, 2, 5, 0, 0, 0, time.UTC),
			Open:      11.0, High: 11.5, Low: 10.5, Close: 11.2, Volume: 1100,
		},
	}

	records := barsToRecords("MSFT", bars)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	// Output sorted ascending regardless of input order.
	if records[0].Date != models.DateOf(2024, time.January, 2) {
		t.Errorf("expected first date 2024-01-02, got %s", records[0].Date)
	}
	if records[0].Close != 11.2 || records[1].Close != 12.2 {
		t.Errorf("expected closes 11.2, 12.2, got %v, %v", records[0].Close, records[1].Close)
	}
	if records[0].Volume != 1100 {
		t.Errorf("expected volume 1100, got %v", records[0].Volume)
	}
	for _, r := range records {
		if r.Company != "MSFT" {
			t.Errorf("expected Company='MSFT', got %s", r.Company)
		}
	}
}

func TestBarsToRecords_Empty(t *testing.T) {
	records := barsToRecords("MSFT", nil)
	if len(records) != 0 {
		t.Errorf("expected empty result, got %d records", len(records))
	}
}

func TestAlpacaClientName(t *testing.T) {
	client := NewAlpacaClient("key", "secret")
	if client.Name() != "alpaca" {
		t.Errorf("expected name 'alpaca', got %s", client.Name())
	}
}
