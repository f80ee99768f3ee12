package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kvorum_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kvorum_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kvorum_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// KV store metrics
	KVOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kvorum_kv_operations_total",
			Help: "Total number of KV store operations",
		},
		[]string{"operation", "status"},
	)

	KVStoreSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kvorum_kv_store_size",
			Help: "Number of keys in the KV store",
		},
	)

	KVStoreVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kvorum_kv_store_version",
			Help: "Highest write version observed by this node",
		},
	)

	// Replication metrics
	ReplicationAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kvorum_replication_attempts_total",
			Help: "Total number of replication attempts to followers",
		},
		[]string{"follower", "status"},
	)

	ReplicationAttemptDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kvorum_replication_attempt_duration_seconds",
			Help:    "Replication attempt latencies, simulated delay included",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"follower", "status"},
	)

	WriteQuorumMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kvorum_write_quorum_misses_total",
			Help: "Total number of writes that failed to reach the write quorum",
		},
	)

	ReplicationIngestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kvorum_replication_ingest_total",
			Help: "Replication messages received by this follower",
		},
		[]string{"result"},
	)

	// Watch metrics
	WatchersActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kvorum_watchers_active",
			Help: "Number of active watch subscriptions",
		},
	)

	WatchEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kvorum_watch_events_total",
			Help: "Total number of watch events delivered or dropped",
		},
		[]string{"status"},
	)

	// System metrics
	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kvorum_build_info",
			Help: "Build information about kvorum",
		},
		[]string{"version", "go_version", "node_type"},
	)
)
