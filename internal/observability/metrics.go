package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	searchResolutionsVec  *prometheus.CounterVec
	enrollmentOutcomesVec *prometheus.CounterVec
	requestLatencyVec     *prometheus.HistogramVec
)

// RegisterMetrics initialises the Prometheus collectors for the catalog core.
func RegisterMetrics() {
	registerOnce.Do(func() {
		searchResolutionsVec = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_search_resolutions_total",
			Help: "Search queries resolved, labelled by winning strategy.",
		}, []string{"strategy"})

		enrollmentOutcomesVec = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_enrollment_outcomes_total",
			Help: "Enroll and drop attempts, labelled by operation and outcome.",
		}, []string{"operation", "outcome"})

		requestLatencyVec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "catalog_request_latency_seconds",
			Help:    "Latency distribution for catalog API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		prometheus.MustRegister(searchResolutionsVec, enrollmentOutcomesVec, requestLatencyVec)
	})
}

// SearchResolutions exposes the per-strategy search counter.
func SearchResolutions() *prometheus.CounterVec {
	RegisterMetrics()
	return searchResolutionsVec
}

// EnrollmentOutcomes exposes the enroll/drop outcome counter.
func EnrollmentOutcomes() *prometheus.CounterVec {
	RegisterMetrics()
	return enrollmentOutcomesVec
}

// RequestLatency exposes the request latency histogram.
func RequestLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return requestLatencyVec
}
