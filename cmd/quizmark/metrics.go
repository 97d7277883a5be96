package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "quizmark"

// metrics holds the Prometheus collectors exported by the serve command.
// Each instance owns its registry so tests can build servers freely.
type metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	renders        *prometheus.CounterVec
	mathFailures   prometheus.Counter
	renderDuration prometheus.Histogram
}

// newMetrics creates and registers the serve metrics.
func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "renders_total",
				Help:      "Total number of display pipeline runs",
			},
			[]string{"status"},
		),
		mathFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "math_failures_total",
				Help:      "Total number of math expressions left raw",
			},
		),
		renderDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "render_duration_seconds",
				Help:      "Display pipeline duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}

	m.registry.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.renders,
		m.mathFailures,
		m.renderDuration,
	)
	return m
}

// handler exposes the registry in the Prometheus text format.
func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// observeRender records one pipeline run.
func (m *metrics) observeRender(seconds float64, failures int, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.renders.WithLabelValues(status).Inc()
	m.renderDuration.Observe(seconds)
	m.mathFailures.Add(float64(failures))
}
