// Package prometheus holds the application's Prometheus metrics.
package prometheus

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all collectors for the application. A fresh registry is
// created per instance so tests don't collide on the default registry.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	CrawlFetchesTotal   *prometheus.CounterVec
	IngestPassesTotal   *prometheus.CounterVec
}

// NewMetrics creates and registers all collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chatsite_http_requests_total",
			Help: "HTTP requests by method, path and status.",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "chatsite_http_request_duration_seconds",
			Help:    "HTTP request latency by path.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path"}),
		CrawlFetchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chatsite_crawl_fetches_total",
			Help: "Page fetches by outcome (fetched, failed, skipped).",
		}, []string{"outcome"}),
		IngestPassesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chatsite_ingest_passes_total",
			Help: "Ingest passes by result (fresh, cached, offline, error).",
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.CrawlFetchesTotal,
		m.IngestPassesTotal,
	)
	return m
}

// Registry exposes the underlying registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTPRequest records one completed HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, seconds float64) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(path).Observe(seconds)
}

// ObserveIngest records one ingest pass outcome.
func (m *Metrics) ObserveIngest(result string) {
	m.IngestPassesTotal.WithLabelValues(result).Inc()
}

// ObserveFetch records the terminal outcome of one crawled URL. It
// satisfies the crawler's fetch-observer hook.
func (m *Metrics) ObserveFetch(outcome string) {
	m.CrawlFetchesTotal.WithLabelValues(outcome).Inc()
}
