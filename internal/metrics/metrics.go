package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the registry's prometheus collectors.  A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	// Registry operations by name and outcome (ok, already_exists, ...)
	OperationTotal *prometheus.CounterVec

	OperationLatency *prometheus.HistogramVec

	// HTTP requests by route pattern and status code
	HTTPRequests *prometheus.CounterVec

	RateLimited prometheus.Counter

	StatusEventsPruned prometheus.Counter
}

// New registers every collector on reg.  Tests pass a fresh
// prometheus.NewRegistry so repeated construction does not collide.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		OperationTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cornerstone_registry_operations_total",
			Help: "Registry operations by operation and outcome",
		}, []string{"operation", "outcome"}),

		OperationLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cornerstone_registry_operation_duration_seconds",
			Help:    "Duration of registry operations including storage",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		}, []string{"operation"}),

		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cornerstone_http_requests_total",
			Help: "HTTP requests by route and status code",
		}, []string{"method", "route", "status"}),

		RateLimited: f.NewCounter(prometheus.CounterOpts{
			Name: "cornerstone_http_rate_limited_total",
			Help: "Mutating requests rejected by the rate limiter",
		}),

		StatusEventsPruned: f.NewCounter(prometheus.CounterOpts{
			Name: "cornerstone_status_events_pruned_total",
			Help: "Status audit events deleted by the retention pruner",
		}),
	}
}

// ObserveOperation records one registry operation.
func (m *Metrics) ObserveOperation(op, outcome string, d time.Duration) {
	if m != nil {
		m.OperationTotal.WithLabelValues(op, outcome).Inc()
		m.OperationLatency.WithLabelValues(op).Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementHTTPRequest(method, route, status string) {
	if m != nil {
		m.HTTPRequests.WithLabelValues(method, route, status).Inc()
	}
}

func (m *Metrics) IncrementRateLimited() {
	if m != nil {
		m.RateLimited.Inc()
	}
}

func (m *Metrics) AddStatusEventsPruned(n int64) {
	if m != nil && n > 0 {
		m.StatusEventsPruned.Add(float64(n))
	}
}
