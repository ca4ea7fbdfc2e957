package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	AdminRequests    *prometheus.CounterVec
	ClaimTransitions *prometheus.CounterVec
	NewsProxyCache   *prometheus.CounterVec
	RequestLatency   *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		AdminRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vendorhub_admin_requests_total",
			Help: "Admin gateway requests by method and outcome",
		}, []string{"method", "outcome"}),
		ClaimTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vendorhub_claim_transitions_total",
			Help: "Business claim status transitions by target status",
		}, []string{"status"}),
		NewsProxyCache: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vendorhub_news_proxy_cache_total",
			Help: "News proxy cache lookups by result (hit, miss, bypass)",
		}, []string{"result"}),
		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vendorhub_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// ObserveRequest records one request against the latency histogram.
func (m *Metrics) ObserveRequest(route string, d time.Duration) {
	m.RequestLatency.WithLabelValues(route).Observe(d.Seconds())
}
