package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce       sync.Once
	httpRequestsTotal  *prometheus.CounterVec
	httpLatencySeconds *prometheus.HistogramVec
	httpErrorsTotal    *prometheus.CounterVec
	scansTotal         *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used for API observability.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		scansTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "campus_scans_total",
			Help: "Total number of campus gate scans processed, by type and result.",
		}, []string{"type", "status"})

		prometheus.MustRegister(httpRequestsTotal, httpLatencySeconds, httpErrorsTotal, scansTotal)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for API error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// Scans exposes the counter for processed gate scans.
func Scans() *prometheus.CounterVec {
	RegisterMetrics()
	return scansTotal
}
