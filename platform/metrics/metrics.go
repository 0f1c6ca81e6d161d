// Package metrics provides Prometheus instrumentation for phone validation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the counters and histograms exported at /metrics.
type Metrics struct {
	gatherer prometheus.Gatherer

	// Validation outcomes by checkout field and result code ("valid" on success)
	ValidationOutcome *prometheus.CounterVec

	// Settings reads by source: "cache", "database", "default"
	SettingsSource *prometheus.CounterVec

	// Orders rewritten by the reformat job
	OrdersReformatted prometheus.Counter

	HTTPDuration *prometheus.HistogramVec
}

// New registers all metrics on reg. Pass prometheus.NewRegistry() in tests.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		gatherer: reg,
		ValidationOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "checkout_phone_validation_total",
			Help: "Phone validation outcomes by field and result code",
		}, []string{"field", "code"}),

		SettingsSource: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "checkout_phone_settings_reads_total",
			Help: "Phone validation policy reads by source",
		}, []string{"source"}),

		OrdersReformatted: factory.NewCounter(prometheus.CounterOpts{
			Name: "checkout_orders_phone_reformatted_total",
			Help: "Stored order phones rewritten to the configured output format",
		}),

		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "checkout_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "route", "status"}),
	}
}

// IncrementValidation records one validation outcome.
func (m *Metrics) IncrementValidation(field, code string) {
	if m != nil {
		m.ValidationOutcome.WithLabelValues(field, code).Inc()
	}
}

// IncrementSettingsSource records where a policy snapshot came from.
func (m *Metrics) IncrementSettingsSource(source string) {
	if m != nil {
		m.SettingsSource.WithLabelValues(source).Inc()
	}
}

// AddOrdersReformatted records rewritten orders.
func (m *Metrics) AddOrdersReformatted(n int) {
	if m != nil && n > 0 {
		m.OrdersReformatted.Add(float64(n))
	}
}

// ObserveHTTP records the latency of one request.
func (m *Metrics) ObserveHTTP(method, route, status string, d time.Duration) {
	if m != nil {
		m.HTTPDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
