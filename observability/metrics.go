package observability

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// Dataset metrics
	RowsLoadedTotal *prometheus.CounterVec

	// Sentiment metrics
	HeadlinesScoredTotal prometheus.Counter
	ScoringFailuresTotal *prometheus.CounterVec

	// Pipeline metrics
	PipelineRunsTotal *prometheus.CounterVec
	StageDuration     *prometheus.HistogramVec

	// Price provider metrics
	ProviderRequestsTotal *prometheus.CounterVec
	ProviderErrorsTotal   *prometheus.CounterVec
	ProviderDuration      *prometheus.HistogramVec

	// Circuit breaker metrics
	CircuitBreakerState *prometheus.GaugeVec
	CircuitBreakerTrips *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// defaultBuckets are the default histogram buckets for duration metrics (in seconds)
var defaultBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}

// globalMetrics is the global metrics instance
var globalMetrics *Metrics

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	m := &Metrics{
		RowsLoadedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stock_analysis",
				Subsystem: "dataset",
				Name:      "rows_loaded_total",
				Help:      "Total number of CSV rows loaded per dataset",
			},
			[]string{"dataset"},
		),
		HeadlinesScoredTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "stock_analysis",
				Subsystem: "sentiment",
				Name:      "headlines_scored_total",
				Help:      "Total number of headlines scored",
			},
		),
		ScoringFailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stock_analysis",
				Subsystem: "sentiment",
				Name:      "scoring_failures_total",
				Help:      "Total number of headlines that fell back to the neutral score",
			},
			[]string{"reason"},
		),
		PipelineRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stock_analysis",
				Subsystem: "pipeline",
				Name:      "runs_total",
				Help:      "Total number of pipeline runs by status",
			},
			[]string{"status"},
		),
		StageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "stock_analysis",
				Subsystem: "pipeline",
				Name:      "stage_duration_seconds",
				Help:      "Duration of pipeline stages in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"stage"},
		),
		ProviderRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stock_analysis",
				Subsystem: "provider",
				Name:      "requests_total",
				Help:      "Total number of price provider requests",
			},
			[]string{"provider", "operation"},
		),
		ProviderErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stock_analysis",
				Subsystem: "provider",
				Name:      "errors_total",
				Help:      "Total number of price provider errors",
			},
			[]string{"provider", "operation", "error_type"},
		),
		ProviderDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "stock_analysis",
				Subsystem: "provider",
				Name:      "duration_seconds",
				Help:      "Duration of price provider calls in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"provider", "operation"},
		),
		CircuitBreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "stock_analysis",
				Subsystem: "circuit_breaker",
				Name:      "state",
				Help:      "Current state of circuit breakers (0=closed, 1=half-open, 2=open)",
			},
			[]string{"provider"},
		),
		CircuitBreakerTrips: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stock_analysis",
				Subsystem: "circuit_breaker",
				Name:      "trips_total",
				Help:      "Total number of circuit breaker trips",
			},
			[]string{"provider"},
		),
	}

	if g, ok := reg.(prometheus.Gatherer); ok {
		m.gatherer = g
	}

	return m
}

// InitMetrics initializes the global metrics instance
func InitMetrics() *Metrics {
	globalMetrics = NewMetrics(nil)
	return globalMetrics
}

// GetMetrics returns the global metrics instance
func GetMetrics() *Metrics {
	if globalMetrics == nil {
		return InitMetrics()
	}
	return globalMetrics
}

// RecordRowsLoaded records rows read from a dataset
func (m *Metrics) RecordRowsLoaded(dataset string, count int) {
	m.RowsLoadedTotal.WithLabelValues(dataset).Add(float64(count))
}

// RecordHeadlinesScored records scored headlines
func (m *Metrics) RecordHeadlinesScored(count int) {
	m.HeadlinesScoredTotal.Add(float64(count))
}

// RecordScoringFailure records a headline that fell back to neutral
func (m *Metrics) RecordScoringFailure(reason string) {
	m.ScoringFailuresTotal.WithLabelValues(reason).Inc()
}

// RecordPipelineRun records a completed pipeline run
func (m *Metrics) RecordPipelineRun(status string) {
	m.PipelineRunsTotal.WithLabelValues(status).Inc()
}

// RecordStageDuration records the duration of a pipeline stage
func (m *Metrics) RecordStageDuration(stage string, duration time.Duration) {
	m.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordProviderRequest records a price provider request
func (m *Metrics) RecordProviderRequest(provider, operation string) {
	m.ProviderRequestsTotal.WithLabelValues(provider, operation).Inc()
}

// RecordProviderError records a price provider error
func (m *Metrics) RecordProviderError(provider, operation, errorType string) {
	m.ProviderErrorsTotal.WithLabelValues(provider, operation, errorType).Inc()
}

// RecordProviderDuration records the duration of a price provider call
func (m *Metrics) RecordProviderDuration(provider, operation string, duration time.Duration) {
	m.ProviderDuration.WithLabelValues(provider, operation).Observe(duration.Seconds())
}

// SetCircuitBreakerState sets the current state of a circuit breaker
func (m *Metrics) SetCircuitBreakerState(provider string, state int) {
	m.CircuitBreakerState.WithLabelValues(provider).Set(float64(state))
}

// RecordCircuitBreakerTrip records a circuit breaker trip
func (m *Metrics) RecordCircuitBreakerTrip(provider string) {
	m.CircuitBreakerTrips.WithLabelValues(provider).Inc()
}

// Snapshot flattens the current counter and gauge values into a map
// keyed by metric name and labels. A batch run has no scrape surface,
// so the snapshot feeds the run report and the exit log instead.
func (m *Metrics) Snapshot() map[string]float64 {
	out := make(map[string]float64)
	if m.gatherer == nil {
		return out
	}

	families, err := m.gatherer.Gather()
	if err != nil {
		Warn("failed to gather metrics", "error", err)
		return out
	}

	for _, family := range families {
		for _, metric := range family.GetMetric() {
			key := family.GetName()
			if labels := formatLabels(metric.GetLabel()); labels != "" {
				key = key + "{" + labels + "}"
			}
			switch {
			case metric.GetCounter() != nil:
				out[key] = metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				out[key] = metric.GetGauge().GetValue()
			}
		}
	}
	return out
}

func formatLabels(pairs []*dto.LabelPair) string {
	if len(pairs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, fmt.Sprintf("%s=%s", p.GetName(), p.GetValue()))
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

// Timer is a helper for timing operations
type Timer struct {
	start   time.Time
	metrics *Metrics
}

// NewTimer creates a new timer
func (m *Metrics) NewTimer() *Timer {
	return &Timer{
		start:   time.Now(),
		metrics: m,
	}
}

// ObserveStage records the stage duration
func (t *Timer) ObserveStage(stage string) {
	t.metrics.RecordStageDuration(stage, time.Since(t.start))
}

// ObserveProvider records the provider call duration
func (t *Timer) ObserveProvider(provider, operation string) {
	t.metrics.RecordProviderDuration(provider, operation, time.Since(t.start))
}

// Duration returns the elapsed time
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
