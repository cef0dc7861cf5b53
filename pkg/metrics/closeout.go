package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CloseoutMetrics records settlement pipeline activity.
type CloseoutMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	matched  prometheus.Histogram
}

// NewCloseoutMetrics registers the closeout metrics on the provided registerer.
func NewCloseoutMetrics(reg prometheus.Registerer) *CloseoutMetrics {
	if reg == nil {
		return &CloseoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "closeout_duration_seconds",
		Help:    "Duration of closeout operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "closeout_success",
		Help: "Successful closeout operations.",
	}, []string{"operation"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "closeout_failure",
		Help: "Failed closeout operations.",
	}, []string{"operation"})
	matched := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "closeout_matched_rows",
		Help:    "Matched CSV rows per reconciliation run.",
		Buckets: prometheus.LinearBuckets(0, 25, 12),
	})
	reg.MustRegister(duration, success, failure, matched)
	return &CloseoutMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		matched:  matched,
	}
}

// ObserveDuration records the duration for the named operation.
func (c *CloseoutMetrics) ObserveDuration(operation string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named operation.
func (c *CloseoutMetrics) IncSuccess(operation string) {
	if c == nil || c.success == nil {
		return
	}
	c.success.WithLabelValues(normalizeLabel(operation)).Inc()
}

// IncFailure increments the failure counter for the named operation.
func (c *CloseoutMetrics) IncFailure(operation string) {
	if c == nil || c.failure == nil {
		return
	}
	c.failure.WithLabelValues(normalizeLabel(operation)).Inc()
}

// ObserveMatchedRows records how many CSV rows a reconciliation run matched.
func (c *CloseoutMetrics) ObserveMatchedRows(count int) {
	if c == nil || c.matched == nil {
		return
	}
	c.matched.Observe(float64(count))
}

func normalizeLabel(operation string) string {
	if operation == "" {
		return "unknown"
	}
	return operation
}
