// Package metrics exposes Prometheus instruments for the expense tracker.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors registered by the application.
type Metrics struct {
	registry *prometheus.Registry

	ExpensesCreated  prometheus.Counter
	ExpensesRejected *prometheus.CounterVec
	Summaries        *prometheus.CounterVec
	SummaryFailures  *prometheus.CounterVec
	SummaryTotal     *prometheus.GaugeVec

	SuspiciousRequests *prometheus.CounterVec
	RateLimited        prometheus.Counter
}

// New registers the collectors on a fresh registry, so tests can build
// isolated instances.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		ExpensesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracker_expenses_created_total",
			Help: "Expenses admitted to the store.",
		}),
		ExpensesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tracker_expenses_rejected_total",
			Help: "Expenses rejected by validation.",
		}, []string{"reason"}),
		Summaries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tracker_summaries_emitted_total",
			Help: "Scheduled summaries emitted.",
		}, []string{"trigger"}),
		SummaryFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tracker_summary_failures_total",
			Help: "Scheduled summary firings that failed.",
		}, []string{"trigger"}),
		SummaryTotal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tracker_summary_last_total",
			Help: "Total reported by the last summary of each trigger.",
		}, []string{"trigger"}),
		SuspiciousRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tracker_http_suspicious_requests_total",
			Help: "Requests flagged as scans or injection attempts.",
		}, []string{"reason"}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracker_http_rate_limited_total",
			Help: "POST requests rejected by the per-client rate limit.",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.ExpensesCreated,
		m.ExpensesRejected,
		m.Summaries,
		m.SummaryFailures,
		m.SummaryTotal,
		m.SuspiciousRequests,
		m.RateLimited,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry is exposed for tests that gather values directly.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
