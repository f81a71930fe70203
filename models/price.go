package models

import "sort"

// PriceRecord is one daily OHLCV row for a company. Numeric fields
// are float64 so that a missing cell can carry NaN and propagate
// through downstream arithmetic.
type PriceRecord struct {
	Date    Date    `json:"date"`
	Open    float64 `json:"open"`
	High    float64 `json:"high"`
	Low     float64 `json:"low"`
	Close   float64 `json:"close"`
	Volume  float64 `json:"volume"`
	Company string  `json:"company,omitempty"`
}

// SortPricesByDate returns a new slice sorted ascending by date.
// The input is not modified.
func SortPricesByDate(records []PriceRecord) []PriceRecord {
	out := make([]PriceRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// CloseSeries extracts the closing prices as a TimeSeries aligned to
// the record order.
func CloseSeries(records []PriceRecord) TimeSeries {
	series := make(TimeSeries, len(records))
	for i, r := range records {
		series[i] = Point{Date: r.Date, Value: r.Close}
	}
	return series
}

// PriceDates returns the date of every record in order.
func PriceDates(records []PriceRecord) []Date {
	dates := make([]Date, len(records))
	for i, r := range records {
		dates[i] = r.Date
	}
	return dates
}
