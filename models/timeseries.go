package models

import (
	"math"
	"sort"
)

// Point is a single dated observation. A NaN value marks an
// undefined entry (for example the head of a rolling window).
type Point struct {
	Date  Date    `json:"date"`
	Value float64 `json:"value"`
}

// TimeSeries is an ordered sequence of dated values, one value per
// date, gaps permitted. It is the common shape for close prices,
// returns, aggregated sentiment, and every indicator output.
type TimeSeries []Point

// Dates returns the date index of the series.
func (ts TimeSeries) Dates() []Date {
	dates := make([]Date, len(ts))
	for i, p := range ts {
		dates[i] = p.Date
	}
	return dates
}

// Values returns the values of the series in index order.
func (ts TimeSeries) Values() []float64 {
	values := make([]float64, len(ts))
	for i, p := range ts {
		values[i] = p.Value
	}
	return values
}

// Last returns the most recent defined value and its date. The second
// return is false when the series has no defined values.
func (ts TimeSeries) Last() (Point, bool) {
	defined := ts.DropNaN()
	if len(defined) == 0 {
		return Point{}, false
	}
	return defined[len(defined)-1], true
}

// DropNaN returns a new series with undefined entries removed.
func (ts TimeSeries) DropNaN() TimeSeries {
	out := make(TimeSeries, 0, len(ts))
	for _, p := range ts {
		if !math.IsNaN(p.Value) {
			out = append(out, p)
		}
	}
	return out
}

// SortByDate returns a new series sorted ascending by date. The
// receiver is not modified.
func (ts TimeSeries) SortByDate() TimeSeries {
	out := make(TimeSeries, len(ts))
	copy(out, ts)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
