package diff

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	diffEntries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tablediff",
		Subsystem: "compare",
		Name:      "diff_entries",
		Help:      "Number of diff entries consumed from the oracle, by sign.",
	}, []string{"sign"})
	refetchQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tablediff",
		Subsystem: "compare",
		Name:      "refetch_queries",
		Help:      "Number of row re-fetch queries issued.",
	}, []string{"side", "status"})
	comparisonSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "tablediff",
		Subsystem: "compare",
		Name:      "duration_seconds",
		Help:      "Time taken by a comparison.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
	})
)
