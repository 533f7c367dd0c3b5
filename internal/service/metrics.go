package service

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for reading traffic. Each
// instance owns its registry so tests can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	UseCases     *prometheus.CounterVec
	UseCaseTime  *prometheus.HistogramVec
	StaleFetches prometheus.Counter
	HTTPRequests *prometheus.CounterVec
}

// NewMetrics registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		UseCases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sqp",
			Name:      "use_cases_total",
			Help:      "Service use cases by name and result.",
		}, []string{"use_case", "result"}),
		UseCaseTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sqp",
			Name:      "use_case_duration_seconds",
			Help:      "Service use case latency.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"use_case"}),
		StaleFetches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sqp",
			Name:      "stale_fetches_total",
			Help:      "Month fetches discarded because a newer month was selected.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sqp",
			Name:      "http_requests_total",
			Help:      "API requests by status code and method.",
		}, []string{"code", "method"}),
	}
	m.registry.MustRegister(
		m.UseCases,
		m.UseCaseTime,
		m.StaleFetches,
		m.HTTPRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecHTTP counts one API response.
func (m *Metrics) RecHTTP(code, method string) {
	m.HTTPRequests.WithLabelValues(code, method).Inc()
}

// ObserveUseCase implements UseCaseObserver.
func (m *Metrics) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	result := "ok"
	if !event.Success {
		result = "error"
	}
	m.UseCases.WithLabelValues(event.Name, result).Inc()
	m.UseCaseTime.WithLabelValues(event.Name).Observe(event.Duration.Seconds())
}
