// Package metrics holds the process Prometheus collectors, registered on the
// default registry and served at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionRequestsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "skillswap",
		Name:      "session_requests_created_total",
		Help:      "Session requests persisted.",
	})

	SessionRequestsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skillswap",
		Name:      "session_requests_rejected_total",
		Help:      "Session request creations rejected, by reason.",
	}, []string{"reason"})

	SessionTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skillswap",
		Name:      "session_transitions_total",
		Help:      "Session state transitions attempted, by action and outcome.",
	}, []string{"action", "outcome"})

	ReviewsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skillswap",
		Name:      "reviews_submitted_total",
		Help:      "Review submissions, by outcome.",
	}, []string{"outcome"})

	RecommendationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "skillswap",
		Name:      "recommendation_duration_seconds",
		Help:      "Time spent computing recommendations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	NotificationDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skillswap",
		Name:      "notification_deliveries_total",
		Help:      "Event deliveries per sink, by outcome.",
	}, []string{"sink", "outcome"})

	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "skillswap",
		Name:      "circuit_breaker_state",
		Help:      "0 closed, 1 half-open, 2 open.",
	}, []string{"name"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "skillswap",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	WSClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "skillswap",
		Name:      "ws_clients",
		Help:      "Connected websocket clients.",
	})
)

const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeRejected = "rejected"
)
