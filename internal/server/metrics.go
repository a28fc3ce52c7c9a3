package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics are registered per server so several servers can run in one process
type metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	changes  *prometheus.CounterVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "keyactions_http_requests_total",
			Help: "Requests handled, by handler, method and status code.",
		}, []string{"handler", "method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "keyactions_http_request_duration_seconds",
			Help:    "Request latency by handler.",
			Buckets: prometheus.DefBuckets,
		}, []string{"handler", "method", "code"}),
		changes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "keyactions_shortcut_changes_total",
			Help: "Shortcut changes applied, by operation.",
		}, []string{"operation"}),
	}

	m.registry.MustRegister(
		m.requests,
		m.duration,
		m.changes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// instrument counts and times the requests served by h
func (m *metrics) instrument(name string, h http.HandlerFunc) http.Handler {
	labels := prometheus.Labels{"handler": name}
	return promhttp.InstrumentHandlerDuration(m.duration.MustCurryWith(labels),
		promhttp.InstrumentHandlerCounter(m.requests.MustCurryWith(labels), h))
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
