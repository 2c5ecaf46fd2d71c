package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CardResolutions counts resolutions by entry point (search|random) and
	// outcome (index_hit|remote_hit|not_found|empty|error).
	CardResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardbot_card_resolutions_total",
			Help: "Total number of card resolutions by path and result",
		},
		[]string{"path", "result"},
	)

	// IndexWriteFailures counts search term backfills that failed and were skipped.
	IndexWriteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cardbot_card_lookup_write_failures_total",
			Help: "Total number of search term index writes that failed",
		},
	)

	// LookupsPurged counts stale search term entries removed.
	LookupsPurged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cardbot_card_lookups_purged_total",
			Help: "Total number of stale search term entries purged",
		},
	)

	// RemoteRequests counts upstream card service calls by operation and result (ok|not_found|error).
	RemoteRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardbot_remote_requests_total",
			Help: "Total number of requests to the upstream card service",
		},
		[]string{"op", "result"},
	)

	// RemoteLatency measures upstream card service latency.
	RemoteLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cardbot_remote_latency_seconds",
			Help:    "Upstream card service latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cardbot_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
