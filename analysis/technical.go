// Package analysis implements the analysis routines over price and
// news tables: technical indicators, sentiment scoring and daily
// aggregation, return/sentiment correlation, and descriptive text
// statistics. Every function returns new slices and leaves its
// inputs untouched.
package analysis

import (
	"math"

	"github.com/michaWorku/news-sentiment-stock-analysis/models"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Windows collects the lookback parameters for indicator computation.
type Windows struct {
	SMAShort   int
	SMALong    int
	RSI        int
	MACDFast   int
	MACDSlow   int
	MACDSignal int
}

// DefaultWindows returns the standard parameter set: SMA 20/50,
// RSI 14, MACD 12/26 with a 9-period signal.
func DefaultWindows() Windows {
	return Windows{
		SMAShort:   models.SMAShortWindow,
		SMALong:    models.SMALongWindow,
		RSI:        models.RSIWindow,
		MACDFast:   models.MACDFastSpan,
		MACDSlow:   models.MACDSlowSpan,
		MACDSignal: models.MACDSignalSpan,
	}
}

// SMA computes the simple moving average over a trailing window.
// The output is aligned with the input; entries before index
// window-1 are NaN because the window is not yet full.
func SMA(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		if window < 1 || i < window-1 {
			out[i] = math.NaN()
			continue
		}
		sum := 0.0
		for j := i - window + 1; j <= i; j++ {
			sum += values[j]
		}
		out[i] = sum / float64(window)
	}
	return out
}

// EMA computes the exponential moving average with smoothing factor
// alpha = 2/(span+1), seeded from the first value:
//
//	ema[0] = values[0]
//	ema[i] = alpha*values[i] + (1-alpha)*ema[i-1]
//
// The series is defined from index 0.
func EMA(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// RSI computes the Relative Strength Index from close-to-close moves.
// Gain is the trailing-window mean of positive deltas, loss the mean
// of absolute negative deltas; RSI = 100 - 100/(1+gain/loss). The
// first window entries are NaN (the delta at index 0 does not exist).
// A window with gains and no losses saturates at 100. A window with
// no moves at all has no defined reading and stays NaN.
func RSI(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = math.NaN()
	}
	if window < 1 {
		return out
	}
	for i := window; i < len(values); i++ {
		var gain, loss float64
		for j := i - window + 1; j <= i; j++ {
			change := values[j] - values[j-1]
			if change > 0 {
				gain += change
			} else {
				loss -= change
			}
		}
		avgGain := gain / float64(window)
		avgLoss := loss / float64(window)
		switch {
		case avgGain == 0 && avgLoss == 0:
			// flat window; leave undefined
		case avgLoss == 0:
			out[i] = 100
		default:
			rs := avgGain / avgLoss
			out[i] = 100 - 100/(1+rs)
		}
	}
	return out
}

// MACD computes the MACD line (fast EMA minus slow EMA) and its
// signal line (EMA of the MACD line).
func MACD(values []float64, fast, slow, signalSpan int) (macd, signal []float64) {
	emaFast := EMA(values, fast)
	emaSlow := EMA(values, slow)
	macd = make([]float64, len(values))
	for i := range macd {
		macd[i] = emaFast[i] - emaSlow[i]
	}
	signal = EMA(macd, signalSpan)
	return macd, signal
}

// PctChange computes the relative change against the previous entry:
// out[i] = values[i]/values[i-1] - 1. The first entry is NaN.
func PctChange(values []float64) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		if i == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = values[i]/values[i-1] - 1
	}
	return out
}

// DailyReturns computes the day-over-day percentage change of the
// closing price. Records are sorted ascending by date on a copy
// first, so the caller's slice order is preserved.
func DailyReturns(prices []models.PriceRecord) models.TimeSeries {
	series := models.CloseSeries(models.SortPricesByDate(prices))
	changes := PctChange(series.Values())
	for i := range series {
		series[i].Value = changes[i]
	}
	return series
}

// ComputeIndicators bundles the standard indicator series for one
// price history. The input must already be sorted ascending by date;
// every output series is aligned one-to-one with the input dates.
func ComputeIndicators(prices []models.PriceRecord, w Windows) models.IndicatorSet {
	series := models.CloseSeries(prices)
	closes := series.Values()
	dates := series.Dates()
	macd, signal := MACD(closes, w.MACDFast, w.MACDSlow, w.MACDSignal)
	return models.IndicatorSet{
		SMA20:  seriesOf(dates, SMA(closes, w.SMAShort)),
		SMA50:  seriesOf(dates, SMA(closes, w.SMALong)),
		RSI:    seriesOf(dates, RSI(closes, w.RSI)),
		MACD:   seriesOf(dates, macd),
		Signal: seriesOf(dates, signal),
	}
}

// Summarize computes the aggregate price summary: average, maximum
// and minimum close plus the sample standard deviation of volume.
// NaN cells are skipped rather than poisoning the aggregates.
func Summarize(prices []models.PriceRecord) models.FinancialSummary {
	closes := make([]float64, 0, len(prices))
	volumes := make([]float64, 0, len(prices))
	for _, r := range prices {
		if !math.IsNaN(r.Close) {
			closes = append(closes, r.Close)
		}
		if !math.IsNaN(r.Volume) {
			volumes = append(volumes, r.Volume)
		}
	}

	summary := models.FinancialSummary{
		AverageClose: math.NaN(),
		MaxClose:     math.NaN(),
		MinClose:     math.NaN(),
		VolumeStdDev: math.NaN(),
	}
	if len(closes) > 0 {
		summary.AverageClose = stat.Mean(closes, nil)
		summary.MaxClose = floats.Max(closes)
		summary.MinClose = floats.Min(closes)
	}
	if len(volumes) > 1 {
		summary.VolumeStdDev = stat.StdDev(volumes, nil)
	}
	return summary
}

func seriesOf(dates []models.Date, values []float64) models.TimeSeries {
	series := make(models.TimeSeries, len(values))
	for i := range values {
		series[i] = models.Point{Date: dates[i], Value: values[i]}
	}
	return series
}
