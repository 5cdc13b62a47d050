package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheReads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_reads_total",
			Help: "Total number of cache reads by outcome",
		},
		[]string{"domain", "outcome"}, // outcome: hit, miss, stale
	)

	simulatedFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "transport_simulated_failures_total",
			Help: "Total number of injected transport failures",
		},
	)

	optimisticRollbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_optimistic_rollbacks_total",
			Help: "Total number of optimistic updates rolled back after a failed mutation",
		},
	)

	readRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_read_retries_total",
			Help: "Total number of read retries after transient failures",
		},
	)
)

func RecordCacheRead(domain, outcome string) {
	cacheReads.WithLabelValues(domain, outcome).Inc()
}

func RecordSimulatedFailure() {
	simulatedFailures.Inc()
}

func RecordOptimisticRollback() {
	optimisticRollbacks.Inc()
}

func RecordReadRetry() {
	readRetries.Inc()
}
