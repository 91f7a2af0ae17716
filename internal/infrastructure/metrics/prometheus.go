// Package metrics exposes the server's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config holds collector naming
type Config struct {
	Namespace        string
	HistogramBuckets []float64
}

// DefaultConfig returns the default collector configuration
func DefaultConfig() Config {
	return Config{
		Namespace:        "metabooks",
		HistogramBuckets: prometheus.DefBuckets,
	}
}

// Registry owns a private Prometheus registry and the collectors the
// server records into
type Registry struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge
	recordWrites    *prometheus.CounterVec
}

// New creates a registry with HTTP and record collectors plus the Go
// runtime and process collectors
func New(cfg Config) *Registry {
	if len(cfg.HistogramBuckets) == 0 {
		cfg.HistogramBuckets = prometheus.DefBuckets
	}
	r := &Registry{registry: prometheus.NewRegistry()}

	r.requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests served.",
	}, []string{"method", "route", "status"})

	r.requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: cfg.Namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds.",
		Buckets:   cfg.HistogramBuckets,
	}, []string{"method", "route"})

	r.inFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: cfg.Namespace,
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests being served.",
	})

	r.recordWrites = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Subsystem: "records",
		Name:      "writes_total",
		Help:      "Successful record writes by resource and operation.",
	}, []string{"resource", "operation"})

	r.registry.MustRegister(
		r.requestsTotal,
		r.requestDuration,
		r.inFlight,
		r.recordWrites,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Gatherer returns the underlying registry
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// ObserveRequest records one finished request. route is the matched route
// template, not the raw path.
func (r *Registry) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	r.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RequestStarted increments the in-flight gauge and returns the matching
// decrement
func (r *Registry) RequestStarted() func() {
	r.inFlight.Inc()
	return r.inFlight.Dec
}

// RecordWritten counts a successful create, update or delete
func (r *Registry) RecordWritten(resource, operation string) {
	r.recordWrites.WithLabelValues(resource, operation).Inc()
}
