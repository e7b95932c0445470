package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// NotificationsCreated counts persisted notifications by category and priority.
	NotificationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockpulse_notifications_created_total",
			Help: "Total number of notifications persisted",
		},
		[]string{"category", "priority"},
	)

	// Deliveries counts delivery attempts by channel and outcome (sent|declined|failed|skipped).
	Deliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockpulse_notification_deliveries_total",
			Help: "Total number of notification delivery attempts",
		},
		[]string{"channel", "status"},
	)

	// InventoryNotificationsSkipped counts templated notifications that were not produced.
	InventoryNotificationsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockpulse_inventory_notifications_skipped_total",
			Help: "Inventory notifications not produced, by reason",
		},
		[]string{"reason"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stockpulse_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
