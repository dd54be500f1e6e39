package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emails_sent_total",
			Help: "Total number of outbound email attempts",
		},
		[]string{"reason", "status"}, // status: sent, failed
	)

	EmailsDeduped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emails_deduped_total",
			Help: "Total number of emails suppressed by deduplication",
		},
		[]string{"reason"},
	)

	RemindersSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_reminders_sent_total",
			Help: "Total number of stale-task reminders dispatched",
		},
		[]string{"task_type"},
	)

	TokensResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "action_tokens_resolved_total",
			Help: "Total number of action token resolution attempts",
		},
		[]string{"outcome"}, // applied, not_found, already_used, expired
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)
)

// RecordHTTPRequestDuration records one handled HTTP request.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
