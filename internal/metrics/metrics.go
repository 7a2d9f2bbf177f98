// Package metrics provides Prometheus metrics for the notification backend.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "grace_notes"

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path, and status code",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		},
	)

	// Notification metrics
	NotificationsDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "dispatched_total",
			Help:      "Comment notification trigger invocations by outcome",
		},
		[]string{"outcome"},
	)

	PushSendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "push_send_duration_seconds",
			Help:      "Latency of push message sends",
			Buckets:   []float64{.025, .05, .1, .25, .5, 1, 2.5, 5},
		},
	)

	// Callable metrics
	CallableCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "callable",
			Name:      "calls_total",
			Help:      "Callable function invocations by function and status",
		},
		[]string{"function", "status"},
	)
)

// RecordDispatch counts one trigger invocation with the given outcome.
func RecordDispatch(outcome string) {
	NotificationsDispatched.WithLabelValues(outcome).Inc()
}

// RecordCallable counts one callable invocation.
func RecordCallable(function, status string) {
	CallableCallsTotal.WithLabelValues(function, status).Inc()
}
