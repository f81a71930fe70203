package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CorrelationResult is the outcome of a return/sentiment correlation.
type CorrelationResult struct {
	Coefficient float64 `json:"coefficient"`
	PValue      float64 `json:"p_value"`
	SampleSize  int     `json:"sample_size"`
}

// FinancialSummary holds headline metrics over a cleaned price table.
type FinancialSummary struct {
	AverageClose float64 `json:"average_close"`
	MaxClose     float64 `json:"max_close"`
	MinClose     float64 `json:"min_close"`
	VolumeStdDev float64 `json:"volume_std_dev"`
}

// LengthStats describes the distribution of headline lengths:
// count, mean, sample standard deviation, min, quartiles, max.
type LengthStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"q25"`
	Median float64 `json:"median"`
	Q75    float64 `json:"q75"`
	Max    float64 `json:"max"`
}

// Keyword is one ranked bag-of-words entry.
type Keyword struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// PublisherCount is one ranked publisher-frequency entry.
type PublisherCount struct {
	Publisher string `json:"publisher"`
	Count     int    `json:"count"`
}

// DomainCount is one ranked email-domain entry extracted from
// publisher strings that look like addresses.
type DomainCount struct {
	Domain string `json:"domain"`
	Count  int    `json:"count"`
}

// ReportStatus tracks the lifecycle of an analysis run.
type ReportStatus string

const (
	ReportStatusRunning   ReportStatus = "running"
	ReportStatusCompleted ReportStatus = "completed"
	ReportStatusFailed    ReportStatus = "failed"
)

// AnalysisReport is the artifact of one pipeline run: the computed
// series and statistics plus run metadata. It is held in memory and
// rendered as text; nothing is persisted.
type AnalysisReport struct {
	ID     uuid.UUID    `json:"id"`
	Symbol string       `json:"symbol,omitempty"`
	Status ReportStatus `json:"status"`

	PriceRows   int `json:"price_rows"`
	NewsRows    int `json:"news_rows"`
	AlignedDays int `json:"aligned_days"`

	Financial  FinancialSummary `json:"financial"`
	Indicators IndicatorSet     `json:"indicators"`
	Returns    TimeSeries       `json:"returns,omitempty"`
	Sentiment  TimeSeries       `json:"sentiment,omitempty"`

	Correlation      *CorrelationResult `json:"correlation,omitempty"`
	CorrelationError string             `json:"correlation_error,omitempty"`

	HeadlineLengths  LengthStats      `json:"headline_lengths"`
	TopKeywords      []Keyword        `json:"top_keywords,omitempty"`
	TopPublishers    []PublisherCount `json:"top_publishers,omitempty"`
	EmailDomains     []DomainCount    `json:"email_domains,omitempty"`
	PublicationTrend TimeSeries       `json:"publication_trend,omitempty"`
	HourCounts       [24]int          `json:"hour_counts"`

	Counters map[string]float64 `json:"counters,omitempty"`

	ErrorMessage string     `json:"error_message,omitempty"`
	DurationMs   int        `json:"duration_ms"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// NewAnalysisReport creates a running report for a symbol.
func NewAnalysisReport(symbol string) *AnalysisReport {
	return &AnalysisReport{
		ID:        uuid.New(),
		Symbol:    symbol,
		Status:    ReportStatusRunning,
		StartedAt: time.Now().UTC(),
	}
}

// Complete marks the report as finished.
func (r *AnalysisReport) Complete() {
	now := time.Now().UTC()
	r.CompletedAt = &now
	r.Status = ReportStatusCompleted
	r.DurationMs = int(now.Sub(r.StartedAt).Milliseconds())
}

// Fail marks the report as failed with the given error.
func (r *AnalysisReport) Fail(err error) {
	now := time.Now().UTC()
	r.CompletedAt = &now
	r.Status = ReportStatusFailed
	r.ErrorMessage = err.Error()
	r.DurationMs = int(now.Sub(r.StartedAt).Milliseconds())
}

// Summary renders the report as human-readable text. The output is
// for reading, not machine parsing.
func (r *AnalysisReport) Summary() string {
	var b strings.Builder

	title := "Analysis Report"
	if r.Symbol != "" {
		title = fmt.Sprintf("Analysis Report: %s", r.Symbol)
	}
	fmt.Fprintf(&b, "%s\n", title)
	fmt.Fprintf(&b, "Run %s (%s, %dms)\n\n", r.ID, r.Status, r.DurationMs)

	fmt.Fprintf(&b, "Data\n")
	fmt.Fprintf(&b, "  price rows:   %d\n", r.PriceRows)
	fmt.Fprintf(&b, "  news rows:    %d\n", r.NewsRows)
	fmt.Fprintf(&b, "  aligned days: %d\n\n", r.AlignedDays)

	if r.PriceRows > 0 {
		fmt.Fprintf(&b, "Financial Summary\n")
		fmt.Fprintf(&b, "  average close: %.2f\n", r.Financial.AverageClose)
		fmt.Fprintf(&b, "  max close:     %.2f\n", r.Financial.MaxClose)
		fmt.Fprintf(&b, "  min close:     %.2f\n", r.Financial.MinClose)
		fmt.Fprintf(&b, "  volume std:    %.2f\n\n", r.Financial.VolumeStdDev)

		fmt.Fprintf(&b, "Latest Indicators\n")
		writeLatest(&b, "SMA 20", r.Indicators.SMA20)
		writeLatest(&b, "SMA 50", r.Indicators.SMA50)
		writeLatest(&b, "RSI 14", r.Indicators.RSI)
		writeLatest(&b, "MACD", r.Indicators.MACD)
		writeLatest(&b, "Signal", r.Indicators.Signal)
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Correlation (returns vs sentiment)\n")
	switch {
	case r.Correlation != nil:
		fmt.Fprintf(&b, "  coefficient: %.4f\n", r.Correlation.Coefficient)
		fmt.Fprintf(&b, "  p-value:     %.4f\n", r.Correlation.PValue)
		fmt.Fprintf(&b, "  sample size: %d\n\n", r.Correlation.SampleSize)
	case r.CorrelationError != "":
		fmt.Fprintf(&b, "  unavailable: %s\n\n", r.CorrelationError)
	default:
		fmt.Fprintf(&b, "  not computed\n\n")
	}

	if r.NewsRows > 0 {
		fmt.Fprintf(&b, "Headline Lengths\n")
		fmt.Fprintf(&b, "  count %d, mean %.1f, std %.1f, min %.0f, q25 %.1f, median %.1f, q75 %.1f, max %.0f\n\n",
			r.HeadlineLengths.Count, r.HeadlineLengths.Mean, r.HeadlineLengths.StdDev,
			r.HeadlineLengths.Min, r.HeadlineLengths.Q25, r.HeadlineLengths.Median,
			r.HeadlineLengths.Q75, r.HeadlineLengths.Max)
	}

	if len(r.TopKeywords) > 0 {
		fmt.Fprintf(&b, "Top Keywords\n")
		for _, kw := range r.TopKeywords {
			fmt.Fprintf(&b, "  %-20s %d\n", kw.Word, kw.Count)
		}
		b.WriteString("\n")
	}

	if len(r.TopPublishers) > 0 {
		fmt.Fprintf(&b, "Top Publishers\n")
		for _, pc := range r.TopPublishers {
			fmt.Fprintf(&b, "  %-30s %d\n", pc.Publisher, pc.Count)
		}
		b.WriteString("\n")
	}

	if len(r.EmailDomains) > 0 {
		fmt.Fprintf(&b, "Publisher Email Domains\n")
		for _, dc := range r.EmailDomains {
			fmt.Fprintf(&b, "  %-30s %d\n", dc.Domain, dc.Count)
		}
		b.WriteString("\n")
	}

	if hour, count, ok := peakHour(r.HourCounts); ok {
		fmt.Fprintf(&b, "Peak publishing hour: %02d:00 (%d articles)\n\n", hour, count)
	}

	if r.ErrorMessage != "" {
		fmt.Fprintf(&b, "Error: %s\n", r.ErrorMessage)
	}

	return b.String()
}

func peakHour(counts [24]int) (hour, count int, ok bool) {
	for h, n := range counts {
		if n > count {
			hour, count = h, n
		}
	}
	return hour, count, count > 0
}

func writeLatest(b *strings.Builder, label string, series TimeSeries) {
	point, ok := series.Last()
	if !ok || math.IsNaN(point.Value) {
		fmt.Fprintf(b, "  %-8s n/a\n", label)
		return
	}
	fmt.Fprintf(b, "  %-8s %.4f (%s)\n", label, point.Value, point.Date)
}
