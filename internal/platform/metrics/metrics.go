package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	RequestsTotal      *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
	AuthFailuresTotal  prometheus.Counter
	StoreRetriesTotal  prometheus.Counter
	StoreFallbackReads prometheus.Counter
}

// New creates and registers all metrics against the given registerer. Tests
// pass a fresh prometheus.NewRegistry to stay isolated from the global one.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scoreapi_requests_total",
			Help: "Total number of dispatched requests by method and response code",
		}, []string{"method", "code"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scoreapi_request_duration_seconds",
			Help:    "Request handling latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method"}),
		AuthFailuresTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "scoreapi_auth_failures_total",
			Help: "Total number of requests rejected with an invalid token",
		}),
		StoreRetriesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "scoreapi_store_retries_total",
			Help: "Total number of retried store operations after a connection failure",
		}),
		StoreFallbackReads: factory.NewCounter(prometheus.CounterOpts{
			Name: "scoreapi_store_fallback_reads_total",
			Help: "Total number of cache reads served from the in-process fallback mirror",
		}),
	}
}

// ObserveRequest records one handled request.
func (m *Metrics) ObserveRequest(method string, code int, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// IncrementAuthFailures counts a token mismatch.
func (m *Metrics) IncrementAuthFailures() {
	m.AuthFailuresTotal.Inc()
}

// IncrementStoreRetries counts one retry of a hard store operation.
func (m *Metrics) IncrementStoreRetries() {
	m.StoreRetriesTotal.Inc()
}

// IncrementFallbackReads counts a degraded-mode read served locally.
func (m *Metrics) IncrementFallbackReads() {
	m.StoreFallbackReads.Inc()
}
