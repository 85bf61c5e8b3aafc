package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OperationMetrics times domain operations (fulfillment runs, lifecycle
// transitions) and counts their outcomes. A nil receiver records nothing.
type OperationMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewOperationMetrics registers the operation metrics on reg.
func NewOperationMetrics(reg prometheus.Registerer) *OperationMetrics {
	if reg == nil {
		return &OperationMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wholesale",
		Name:      "operation_duration_seconds",
		Help:      "Duration of domain operations in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wholesale",
		Name:      "operation_success_total",
		Help:      "Domain operations that committed.",
	}, []string{"operation"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wholesale",
		Name:      "operation_failure_total",
		Help:      "Domain operations that returned an error.",
	}, []string{"operation"})
	reg.MustRegister(duration, success, failure)
	return &OperationMetrics{duration: duration, success: success, failure: failure}
}

// Track starts a timer for op; call the returned func with the operation error.
func (m *OperationMetrics) Track(op string) func(err error) {
	start := time.Now()
	return func(err error) {
		m.ObserveDuration(op, time.Since(start))
		if err != nil {
			m.IncFailure(op)
			return
		}
		m.IncSuccess(op)
	}
}

func (m *OperationMetrics) ObserveDuration(op string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(op)).Observe(duration.Seconds())
}

func (m *OperationMetrics) IncSuccess(op string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(normalizeLabel(op)).Inc()
}

func (m *OperationMetrics) IncFailure(op string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(op)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
