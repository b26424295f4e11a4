package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "housegig_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by statement verb.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "housegig_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// VotesCast counts vote transitions by direction and outcome.
	VotesCast = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "housegig_votes_cast_total",
		Help: "Total number of vote operations by direction and outcome",
	}, []string{"direction", "outcome"})

	// MessagesSent counts direct messages accepted for delivery.
	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "housegig_messages_sent_total",
		Help: "Total number of direct messages sent",
	})

	// AssistantRequests counts AI assistant calls by outcome.
	AssistantRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "housegig_assistant_requests_total",
		Help: "Total number of AI assistant requests by outcome",
	}, []string{"outcome"})

	// UploadsProcessed counts image uploads by kind.
	UploadsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "housegig_uploads_processed_total",
		Help: "Total number of processed image uploads by kind",
	}, []string{"kind"})
)

// ObserveQuery records the latency of a database query.
func ObserveQuery(operation string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
