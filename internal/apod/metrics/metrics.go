package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics interface {
	IncrementCounter(name string)
	RecordDuration(name string, duration time.Duration)
}

// PrometheusMetrics exposes gateway events and operation latencies on a
// dedicated registry served at /metrics.
type PrometheusMetrics struct {
	events    *prometheus.CounterVec
	durations *prometheus.HistogramVec
}

func NewPrometheusMetrics(registry *prometheus.Registry) *PrometheusMetrics {
	events := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apod_gateway_events_total",
			Help: "Count of gateway events (cache hits/misses, upstream calls).",
		},
		[]string{"event"},
	)

	durations := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "apod_gateway_operation_duration_seconds",
			Help:    "Latency of gateway operations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	registry.MustRegister(events)
	registry.MustRegister(durations)

	return &PrometheusMetrics{
		events:    events,
		durations: durations,
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string) {
	m.events.WithLabelValues(name).Inc()
}

func (m *PrometheusMetrics) RecordDuration(name string, duration time.Duration) {
	m.durations.WithLabelValues(name).Observe(duration.Seconds())
}

// NoopMetrics discards all observations. Used in tests.
type NoopMetrics struct{}

func NewNoopMetrics() *NoopMetrics { return &NoopMetrics{} }

func (*NoopMetrics) IncrementCounter(string)              {}
func (*NoopMetrics) RecordDuration(string, time.Duration) {}

var (
	_ Metrics = (*PrometheusMetrics)(nil)
	_ Metrics = (*NoopMetrics)(nil)
)
