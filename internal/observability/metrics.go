package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)

	WebSocketConnectionsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "websocket_connections_active",
			Help: "Current number of active WebSocket connections",
		},
		[]string{"service"},
	)

	MessagesSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_sent_total",
			Help: "Total number of messages persisted",
		},
		[]string{"service"},
	)

	BroadcastFanout = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "broadcast_fanout_sessions",
			Help:    "Number of sessions a room broadcast was delivered to",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
		[]string{"service"},
	)
)
