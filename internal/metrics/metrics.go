// Package metrics exposes Prometheus metrics for the generation service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Option configures a Metrics instance.
type Option func(*Metrics)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Metrics) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithUpstreamBuckets sets the histogram buckets for generation service latency.
func WithUpstreamBuckets(buckets []float64) Option {
	return func(m *Metrics) {
		if len(buckets) > 0 {
			m.upstreamBuckets = buckets
		}
	}
}

// Metrics holds the service's collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	namespace       string
	upstreamBuckets []float64
	registry        prometheus.Registerer

	generations      *prometheus.CounterVec
	rateLimited      prometheus.Counter
	upstreamDuration prometheus.Histogram
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer, opts ...Option) *Metrics {
	m := &Metrics{
		namespace: "mockpaper",
		// Generations take tens of seconds.
		upstreamBuckets: prometheus.ExponentialBuckets(1, 2, 8),
		registry:        reg,
	}
	for _, opt := range opts {
		opt(m)
	}

	factory := promauto.With(reg)
	m.generations = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "generations_total",
		Help:      "Generation requests by outcome.",
	}, []string{"outcome"})
	m.rateLimited = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "rate_limited_total",
		Help:      "Generation requests denied by the rate limiter.",
	})
	m.upstreamDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "upstream_duration_seconds",
		Help:      "Latency of generation service calls.",
		Buckets:   m.upstreamBuckets,
	})
	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})
	m.httpDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
	return m
}

// ObserveGeneration counts a finished generation request.
func (m *Metrics) ObserveGeneration(outcome string) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues(outcome).Inc()
}

// ObserveRateLimited counts a denied request.
func (m *Metrics) ObserveRateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}

// ObserveUpstream records the duration of a generation service call.
func (m *Metrics) ObserveUpstream(d time.Duration) {
	if m == nil {
		return
	}
	m.upstreamDuration.Observe(d.Seconds())
}

// ObserveHTTP records a served request.
func (m *Metrics) ObserveHTTP(route, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

// TrackKeys exports the number of clients tracked by the rate limiter,
// sampled from fn at scrape time.
func (m *Metrics) TrackKeys(fn func() int) {
	if m == nil {
		return
	}
	promauto.With(m.registry).NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "rate_limit_keys",
		Help:      "Clients currently tracked by the in-memory rate limiter.",
	}, func() float64 { return float64(fn()) })
}
