package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus metrics for the key-value server.
// These metrics can be scraped by Prometheus and visualized in Grafana.
var (
	// Connection metrics
	ConnectionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "redis_connections_total",
		Help: "Total number of client connections accepted",
	})

	ConnectionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "redis_connections_active",
		Help: "Current number of active client connections",
	})

	ConnectionsMax = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "redis_connections_max",
		Help: "Maximum allowed client connections",
	})

	ConnectionsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "redis_connections_rejected_total",
		Help: "Total connections rejected by reason (cpu, capacity, global_rate_limit, per_ip_rate_limit)",
	}, []string{"reason"})

	// Command metrics
	CommandsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "redis_commands_total",
		Help: "Total commands processed by family and name",
	}, []string{"family", "command"})

	CommandErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "redis_command_errors_total",
		Help: "Total command errors by family and name",
	}, []string{"family", "command"})

	CommandDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "redis_command_duration_seconds",
		Help:    "Command execution latency",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
	}, []string{"command"})

	CommandsRateLimited = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "redis_commands_rate_limited_total",
		Help: "Total commands rejected by the per-client rate limiter",
	})

	// RESP parsing
	ParseErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "redis_resp_parse_errors_total",
		Help: "Total malformed RESP frames encountered",
	})

	// Byte counters
	BytesReceived = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "redis_bytes_received_total",
		Help: "Total bytes read from clients",
	})

	BytesSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "redis_bytes_sent_total",
		Help: "Total bytes written to clients",
	})

	// Pub/sub
	MessagesPublished = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "redis_pubsub_messages_published_total",
		Help: "Total PUBLISH invocations",
	})

	MessagesDelivered = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "redis_pubsub_messages_delivered_total",
		Help: "Total messages delivered to subscribers",
	})

	ChannelsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "redis_pubsub_channels_active",
		Help: "Current number of channels with at least one subscriber",
	})

	// Store
	KeysTotal = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "redis_keys_total",
		Help: "Current number of keys in the store",
	})

	// Persistence
	SnapshotWrites = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "redis_snapshot_writes_total",
		Help: "Total snapshot write attempts by result",
	}, []string{"result"})

	SnapshotDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "redis_snapshot_write_duration_seconds",
		Help:    "Snapshot write latency",
		Buckets: prometheus.DefBuckets,
	})

	// System metrics
	MemoryUsageBytes = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "redis_memory_bytes",
		Help: "Current process memory usage in bytes",
	})

	MemoryLimitBytes = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "redis_memory_limit_bytes",
		Help: "Memory limit in bytes (from cgroup)",
	})

	CPUUsagePercent = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "redis_cpu_usage_percent",
		Help: "Current host-wide CPU usage percentage",
	})
)

// RegisterMetrics registers all collectors with the given registry. Callers
// pass prometheus.DefaultRegisterer in production and a fresh registry in
// tests to avoid "duplicate metrics collector registration" panics across
// test cases.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(
		ConnectionsTotal,
		ConnectionsActive,
		ConnectionsMax,
		ConnectionsRejected,
		CommandsTotal,
		CommandErrors,
		CommandDuration,
		CommandsRateLimited,
		ParseErrors,
		BytesReceived,
		BytesSent,
		MessagesPublished,
		MessagesDelivered,
		ChannelsActive,
		KeysTotal,
		SnapshotWrites,
		SnapshotDuration,
		MemoryUsageBytes,
		MemoryLimitBytes,
		CPUUsagePercent,
	)
}

// Handler returns the HTTP handler that serves metrics in the Prometheus
// exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
