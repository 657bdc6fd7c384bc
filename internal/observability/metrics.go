// Package observability provides Prometheus metrics and OpenTelemetry tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecordOperations counts repository mutations and reads by entity and operation.
	RecordOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "memoir_record_operations_total",
		Help: "Total number of record operations by entity and operation",
	}, []string{"entity", "operation"})

	// DecryptionFailures counts confidential values masked with the sentinel
	// because their token could not be decrypted.
	DecryptionFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "memoir_decryption_failures_total",
		Help: "Total number of confidential values masked due to decryption failure",
	})

	// SessionEvents counts session lifecycle events (created, revoked, rejected).
	SessionEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "memoir_session_events_total",
		Help: "Total number of session lifecycle events",
	}, []string{"event"})

	// RedisErrors counts failed Redis commands by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "memoir_redis_errors_total",
		Help: "Total number of Redis command errors",
	}, []string{"command"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "memoir_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// ObserveQuery records the latency of a database query.
func ObserveQuery(operation, table string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}
