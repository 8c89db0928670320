// Package metrics exposes Prometheus counters for sheet fetches, computed
// reports and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns its own registry so several instances can coexist in tests.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry          *prometheus.Registry
	sourceFetches     *prometheus.CounterVec
	reportsComputed   prometheus.Counter
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

// New creates and registers the incentive metrics.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		sourceFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "incentive_source_fetch_total",
			Help: "Sheet tab fetches by tab and outcome (hit, miss, error).",
		}, []string{"tab", "outcome"}),
		reportsComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "incentive_reports_computed_total",
			Help: "Incentive reports computed.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "incentive_http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "incentive_http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	m.registry.MustRegister(
		m.sourceFetches,
		m.reportsComputed,
		m.httpRequestsTotal,
		m.httpDuration,
	)
	return m
}

// RecordFetch counts one tab fetch.
func (m *Metrics) RecordFetch(tab, outcome string) {
	if m == nil {
		return
	}
	m.sourceFetches.WithLabelValues(tab, outcome).Inc()
}

// ReportComputed counts one computed report.
func (m *Metrics) ReportComputed() {
	if m == nil {
		return
	}
	m.reportsComputed.Inc()
}

// ObserveRequest records one served request.
func (m *Metrics) ObserveRequest(route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
