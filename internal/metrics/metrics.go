// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

// Package metrics declares the Prometheus instruments exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submission outcomes used as the "outcome" label.
const (
	OutcomeAccepted     = "accepted"
	OutcomeInvalid      = "invalid"
	OutcomeStorageError = "storage_error"
)

var (
	// Result store
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "streamgauge_duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamgauge_duckdb_query_errors_total",
			Help: "Total number of failed DuckDB queries",
		},
		[]string{"operation", "table"},
	)

	// API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamgauge_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "streamgauge_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "streamgauge_api_active_requests",
			Help: "Number of in-flight API requests",
		},
	)

	// Ingestion
	ReportSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamgauge_report_submissions_total",
			Help: "Quality report submissions by outcome",
		},
		[]string{"outcome"},
	)

	ReportSubmitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "streamgauge_report_submit_duration_seconds",
			Help:    "Time to validate, persist and broadcast one quality report",
			Buckets: prometheus.DefBuckets,
		},
	)

	ReportStartupSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "streamgauge_report_startup_seconds",
			Help:    "Startup time carried by accepted quality reports",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 4, 6, 8, 10},
		},
	)

	// Analyzer sessions (probe side)
	AnalyzerSessions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamgauge_analyzer_sessions_total",
			Help: "Analyzer sessions by how they finished",
		},
		[]string{"result"}, // ended, window_elapsed, aborted, cancelled
	)

	// Live channel
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "streamgauge_websocket_connections",
			Help: "Current number of live dashboard subscribers",
		},
	)

	WSBroadcasts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "streamgauge_websocket_broadcasts_total",
			Help: "Total number of new_result events fanned out",
		},
	)

	WSDeliveryDrops = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamgauge_websocket_delivery_drops_total",
			Help: "Live events not delivered",
		},
		[]string{"reason"}, // hub_full, client_full
	)

	// Circuit breakers
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "streamgauge_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamgauge_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamgauge_circuit_breaker_requests_total",
			Help: "Requests passed through a circuit breaker by result",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	// Relay
	NATSMessagesPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "streamgauge_nats_messages_published_total",
			Help: "new_result events published to NATS",
		},
	)

	NATSMessagesRelayed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "streamgauge_nats_messages_relayed_total",
			Help: "new_result events received from other instances and broadcast locally",
		},
	)

	// Cache
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamgauge_cache_lookups_total",
			Help: "In-memory cache lookups by result",
		},
		[]string{"cache", "result"}, // hit, miss
	)
)

// RecordDBQuery records one store query.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordAPIRequest records one completed HTTP request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest moves the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordSubmission records an ingestion outcome and, for accepted reports,
// the latency and reported startup time.
func RecordSubmission(outcome string, duration time.Duration, startupSeconds float64) {
	ReportSubmissions.WithLabelValues(outcome).Inc()
	ReportSubmitDuration.Observe(duration.Seconds())
	if outcome == OutcomeAccepted {
		ReportStartupSeconds.Observe(startupSeconds)
	}
}

// RecordCacheLookup counts one cache lookup.
func RecordCacheLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookups.WithLabelValues(cache, result).Inc()
}
