package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"conferencecentral/internal/domain"
)

var (
	// Registration ledger
	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registrations_total",
			Help: "Registration ledger operations by op (register, cancel) and outcome",
		},
		[]string{"op", "outcome"},
	)

	// HTTP
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Work queue
	TasksProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasks_processed_total",
			Help: "Background tasks handled by the queue router, by task and outcome",
		},
		[]string{"task", "outcome"},
	)

	TasksEnqueueErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasks_enqueue_errors_total",
			Help: "Tasks that could not be published",
		},
		[]string{"task"},
	)

	// Caches
	CacheRebuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_rebuilds_total",
			Help: "Announcement and featured speaker rebuilds by slot and outcome",
		},
		[]string{"slot", "outcome"},
	)

	// Email
	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emails_sent_total",
			Help: "Emails handed to the mail provider, by template and outcome",
		},
		[]string{"template", "outcome"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)
)

// RecordRegistration records one ledger operation. op is "register" or "cancel".
func RecordRegistration(op string, err error) {
	RegistrationsTotal.WithLabelValues(op, Outcome(err)).Inc()
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, route, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordTask(task string, err error) {
	TasksProcessedTotal.WithLabelValues(task, Outcome(err)).Inc()
}

func RecordCacheRebuild(slot string, err error) {
	CacheRebuildsTotal.WithLabelValues(slot, Outcome(err)).Inc()
}

func RecordEmail(template string, err error) {
	EmailsSentTotal.WithLabelValues(template, Outcome(err)).Inc()
}

// Outcome buckets an error into a low-cardinality label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrAlreadyRegistered):
		return "already_registered"
	case errors.Is(err, domain.ErrSoldOut):
		return "sold_out"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}
