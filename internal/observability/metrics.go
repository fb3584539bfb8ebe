package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StoreQueryLatency records store query latency by operation and driver.
	StoreQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "portfolio_store_query_latency_seconds",
		Help:    "Post store query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "store"})

	// StoreErrors counts failed store operations by operation and driver.
	StoreErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_store_errors_total",
		Help: "Total number of failed post store operations",
	}, []string{"operation", "store"})

	// UploadsTotal counts image uploads by result.
	UploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_uploads_total",
		Help: "Total number of image uploads to object storage by result",
	}, []string{"result"})

	// AuthChecksTotal counts token verifications by result.
	AuthChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_auth_checks_total",
		Help: "Total number of token verifications by result",
	}, []string{"result"})
)

// StoreMetrics records query latency for one store driver.
type StoreMetrics struct {
	store string
}

// NewStoreMetrics returns a new StoreMetrics instance for the given driver name.
func NewStoreMetrics(store string) *StoreMetrics {
	return &StoreMetrics{store: store}
}

// ObserveQuery records the latency of a store query.
func (m *StoreMetrics) ObserveQuery(operation string, start time.Time) {
	StoreQueryLatency.WithLabelValues(operation, m.store).Observe(time.Since(start).Seconds())
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *StoreMetrics) TrackQuery(operation string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, start)
	}
}

// RecordError increments the error counter for the operation.
func (m *StoreMetrics) RecordError(operation string) {
	StoreErrors.WithLabelValues(operation, m.store).Inc()
}

// RecordUpload increments the upload counter for the given result ("success" or "failure").
func RecordUpload(result string) {
	UploadsTotal.WithLabelValues(result).Inc()
}

// RecordAuthCheck increments the token verification counter for the given result.
func RecordAuthCheck(result string) {
	AuthChecksTotal.WithLabelValues(result).Inc()
}
