package parallel

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DispatchTotal counts dispatches by operation and mode (single, parallel).
	DispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parseq_dispatch_total",
			Help: "Total number of dispatched operations",
		},
		[]string{"op", "mode"},
	)
	// DispatchPartitions is the number of partitions of parallel dispatches.
	DispatchPartitions = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "parseq_dispatch_partitions",
			Help:    "Number of partitions per parallel dispatch",
			Buckets: prometheus.ExponentialBuckets(2, 2, 8),
		},
	)
)
