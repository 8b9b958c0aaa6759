package httpapi

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics interface {
	IncEmbeds(format string, marked bool)
	IncDetects(format string, found bool)
	ObserveRequestDuration(endpoint string, duration time.Duration)
}

type promMetrics struct {
	embedsTotal     *prometheus.CounterVec
	detectsTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewMetrics registers the marking counters on the default registry.
// When enabled is false every method is a no-op, so callers never need
// a nil check.
func NewMetrics(enabled bool) Metrics {
	if !enabled {
		return &noopMetrics{}
	}
	return &promMetrics{
		embedsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "synthmark_embeds_total",
			Help: "Total number of embed requests by container format and outcome",
		}, []string{"format", "outcome"}),

		detectsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "synthmark_detects_total",
			Help: "Total number of detect requests by container format and outcome",
		}, []string{"format", "outcome"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "synthmark_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}

func (m *promMetrics) IncEmbeds(format string, marked bool) {
	m.embedsTotal.WithLabelValues(format, outcome(marked, "marked", "passthrough")).Inc()
}

func (m *promMetrics) IncDetects(format string, found bool) {
	m.detectsTotal.WithLabelValues(format, outcome(found, "found", "not_found")).Inc()
}

func (m *promMetrics) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func outcome(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncEmbeds(_ string, _ bool)                       {}
func (n *noopMetrics) IncDetects(_ string, _ bool)                      {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
