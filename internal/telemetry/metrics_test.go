package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	c, err := vec.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("failed to get metric: %v", err)
	}
	var metric dto.Metric
	if err := c.Write(&metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	return metric.GetCounter().GetValue()
}

func TestNewMetrics(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	if m.GenerationTotal == nil {
		t.Error("GenerationTotal should not be nil")
	}
	if m.GenerationDurationMs == nil {
		t.Error("GenerationDurationMs should not be nil")
	}
	if m.UpstreamAttemptTotal == nil {
		t.Error("UpstreamAttemptTotal should not be nil")
	}
	if m.ParseStrategyTotal == nil {
		t.Error("ParseStrategyTotal should not be nil")
	}
	if m.CircuitState == nil {
		t.Error("CircuitState should not be nil")
	}
	if m.FilterActionTotal == nil {
		t.Error("FilterActionTotal should not be nil")
	}
	if m.RateLimitHitTotal == nil {
		t.Error("RateLimitHitTotal should not be nil")
	}
}

func TestNewMetrics_SeparateRegistries(t *testing.T) {
	// Each registry gets its own collectors; no duplicate registration panic.
	NewMetrics(prometheus.NewRegistry())
	NewMetrics(prometheus.NewRegistry())
}

func TestRecordGeneration(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordGeneration(GenerationLabels{
		Category:   "일반",
		Outcome:    "success",
		Strategy:   "strict",
		DurationMs: 1500,
	})
	m.RecordGeneration(GenerationLabels{
		Category:   "일반",
		Outcome:    "ServiceUnavailable",
		DurationMs: 30,
	})

	if got := counterValue(t, m.GenerationTotal, "일반", "success"); got != 1 {
		t.Errorf("expected success count 1, got %v", got)
	}
	if got := counterValue(t, m.GenerationTotal, "일반", "ServiceUnavailable"); got != 1 {
		t.Errorf("expected ServiceUnavailable count 1, got %v", got)
	}
	if got := counterValue(t, m.ParseStrategyTotal, "strict"); got != 1 {
		t.Errorf("expected strict strategy count 1, got %v", got)
	}
}

func TestRecordUpstreamAttempt(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.RecordUpstreamAttempt("transient")
	m.RecordUpstreamAttempt("transient")
	m.RecordUpstreamAttempt("success")

	if got := counterValue(t, m.UpstreamAttemptTotal, "transient"); got != 2 {
		t.Errorf("expected 2 transient attempts, got %v", got)
	}
}

func TestSetCircuitState(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.SetCircuitState(1)

	var metric dto.Metric
	if err := m.CircuitState.Write(&metric); err != nil {
		t.Fatal(err)
	}
	if got := metric.GetGauge().GetValue(); got != 1 {
		t.Errorf("expected circuit state 1, got %v", got)
	}
}

func TestRecordFilterAction(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.RecordFilterAction("injection", "block")

	if got := counterValue(t, m.FilterActionTotal, "injection", "block"); got != 1 {
		t.Errorf("expected filter action count 1, got %v", got)
	}
}

func TestRecordRateLimitHit(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.RecordRateLimitHit("user")

	if got := counterValue(t, m.RateLimitHitTotal, "user"); got != 1 {
		t.Errorf("expected rate limit hit count 1, got %v", got)
	}
}
