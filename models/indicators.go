package models

// Standard indicator windows. These are the defaults; job files and
// environment variables can override them.
const (
	SMAShortWindow = 20
	SMALongWindow  = 50
	RSIWindow      = 14
	MACDFastSpan   = 12
	MACDSlowSpan   = 26
	MACDSignalSpan = 9
)

// IndicatorSet holds the standard indicator outputs for one price
// history. Every series is aligned one-to-one with the input date
// index, with NaN entries until enough history accumulates.
type IndicatorSet struct {
	SMA20  TimeSeries `json:"sma_20"`
	SMA50  TimeSeries `json:"sma_50"`
	RSI    TimeSeries `json:"rsi_14"`
	MACD   TimeSeries `json:"macd"`
	Signal TimeSeries `json:"macd_signal"`
}
