package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Store metrics
var (
	// StoreOpsTotal tracks store operations by operation and status
	StoreOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_operations_total",
			Help: "Total store operations by operation and status",
		},
		[]string{"operation", "status"},
	)

	// StoreOpDuration tracks store operation latency in seconds
	StoreOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_operation_duration_seconds",
			Help:    "Store operation duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)
)

// Dispatcher metrics
var (
	// DispatcherActiveSessions tracks the number of connected screen sessions
	DispatcherActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dispatcher_active_sessions",
			Help: "Number of connected screen sessions",
		},
	)

	// DispatcherBroadcastsTotal tracks group broadcasts by event name
	DispatcherBroadcastsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatcher_broadcasts_total",
			Help: "Total group broadcasts by event name",
		},
		[]string{"event"},
	)

	// DispatcherDeliveriesTotal tracks per-session event deliveries by event name
	DispatcherDeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatcher_deliveries_total",
			Help: "Total per-session event deliveries by event name",
		},
		[]string{"event"},
	)

	// DispatcherSlowSessionsEvicted tracks sessions evicted for full send buffers
	DispatcherSlowSessionsEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatcher_slow_sessions_evicted_total",
			Help: "Sessions evicted because their send buffer was full",
		},
	)

	// WebSocketMessageSendDuration tracks websocket write latency in seconds
	WebSocketMessageSendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "websocket_message_send_duration_seconds",
			Help:    "WebSocket message send duration in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
		},
	)

	// WebSocketPingFailures tracks failed keepalive pings
	WebSocketPingFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_ping_failures_total",
			Help: "Total failed WebSocket keepalive pings",
		},
	)
)

// Command metrics
var (
	// CommandsTotal tracks backend commands by command and outcome
	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_commands_total",
			Help: "Total backend commands by command and outcome",
		},
		[]string{"command", "outcome"},
	)
)
