// Package services holds the live market-data providers. Providers
// are an optional input path: the analysis works entirely from CSV
// when none is configured.
package services

import (
	"context"
	"fmt"

	"github.com/michaWorku/news-sentiment-stock-analysis/models"
)

// PriceProvider fetches daily price history for one symbol. Calls
// are synchronous and blocking; cancellation comes from the context.
type PriceProvider interface {
	// FetchDaily returns up to days daily records sorted ascending
	// by date. On failure the slice is empty and the error is a
	// *FetchError.
	FetchDaily(ctx context.Context, symbol string, days int) ([]models.PriceRecord, error)
	Name() string
}

// FetchError reports a failed provider call. It carries the provider
// and symbol for logging and unwraps to the underlying cause, so
// errors.Is(err, gobreaker.ErrOpenState) works through it.
type FetchError struct {
	Provider string
	Symbol   string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("provider %s: fetching %s: %v", e.Provider, e.Symbol, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Compile-time interface checks
var (
	_ PriceProvider = (*YahooClient)(nil)
	_ PriceProvider = (*AlpacaClient)(nil)
)
