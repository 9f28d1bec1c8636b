package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the draft generation service.
type Metrics struct {
	GenerationTotal      *prometheus.CounterVec
	GenerationDurationMs *prometheus.HistogramVec
	RequestRiskTotal     *prometheus.CounterVec
	UpstreamAttemptTotal *prometheus.CounterVec
	ParseStrategyTotal   *prometheus.CounterVec
	CircuitState         prometheus.Gauge
	FilterActionTotal    *prometheus.CounterVec
	RateLimitHitTotal    *prometheus.CounterVec
}

// NewMetrics creates all metrics and registers them with reg. A nil reg
// means the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		GenerationTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "draftgen_generation_total",
			Help: "Total draft generation requests by category and outcome.",
		}, []string{"category", "outcome"}),

		GenerationDurationMs: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "draftgen_generation_duration_ms",
			Help:    "End-to-end generation duration in milliseconds (including model latency).",
			Buckets: []float64{100, 500, 1000, 2500, 5000, 10000, 20000, 30000, 60000, 120000},
		}, []string{"category"}),

		RequestRiskTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "draftgen_request_risk_total",
			Help: "Screened requests by advisory risk level.",
		}, []string{"level"}),

		UpstreamAttemptTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "draftgen_upstream_attempt_total",
			Help: "Upstream model call attempts by outcome.",
		}, []string{"outcome"}),

		ParseStrategyTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "draftgen_parse_strategy_total",
			Help: "Responses recovered, by the parser strategy that succeeded.",
		}, []string{"strategy"}),

		CircuitState: f.NewGauge(prometheus.GaugeOpts{
			Name: "draftgen_circuit_state",
			Help: "Upstream circuit breaker state (0 closed, 1 open, 2 half-open).",
		}),

		FilterActionTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "draftgen_filter_action_total",
			Help: "Total filter actions taken.",
		}, []string{"filter", "action"}),

		RateLimitHitTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "draftgen_ratelimit_hit_total",
			Help: "Requests rejected by the per-caller rate limit.",
		}, []string{"role"}),
	}
}

// RecordGeneration records metrics for a finished generation call.
func (m *Metrics) RecordGeneration(labels GenerationLabels) {
	m.GenerationTotal.WithLabelValues(labels.Category, labels.Outcome).Inc()
	m.GenerationDurationMs.WithLabelValues(labels.Category).Observe(labels.DurationMs)
	if labels.Strategy != "" {
		m.ParseStrategyTotal.WithLabelValues(labels.Strategy).Inc()
	}
}

// RecordRequestRisk counts a screened request's risk level.
func (m *Metrics) RecordRequestRisk(level string) {
	m.RequestRiskTotal.WithLabelValues(level).Inc()
}

// RecordUpstreamAttempt counts one upstream attempt.
func (m *Metrics) RecordUpstreamAttempt(outcome string) {
	m.UpstreamAttemptTotal.WithLabelValues(outcome).Inc()
}

// SetCircuitState publishes the breaker state as a number.
func (m *Metrics) SetCircuitState(state int) {
	m.CircuitState.Set(float64(state))
}

// RecordFilterAction records a filter action metric.
func (m *Metrics) RecordFilterAction(filter, action string) {
	m.FilterActionTotal.WithLabelValues(filter, action).Inc()
}

// RecordRateLimitHit counts a rejected request.
func (m *Metrics) RecordRateLimitHit(role string) {
	m.RateLimitHitTotal.WithLabelValues(role).Inc()
}

// GenerationLabels holds the label values for recording a generation call.
type GenerationLabels struct {
	Category   string
	Outcome    string
	Strategy   string
	DurationMs float64
}
