package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(schemaJobsProcessedTotal, queueDrainsTotal, queueDrainSeconds, staleRequeuedTotal)
}

var schemaJobsProcessedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "schema_jobs_processed_total",
		Help: "Total number of schema jobs processed, labeled by outcome.",
	},
	[]string{"status"}, // 'complete', 'retried', 'failed'
)

var queueDrainsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "schema_queue_drains_total",
		Help: "Queue drain runs by result (ran/lock_held/error).",
	},
	[]string{"result"},
)

var queueDrainSeconds = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "schema_queue_drain_seconds",
		Help:    "Wall time of one queue drain.",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
	},
)

var staleRequeuedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "schema_jobs_requeued_stale_total",
		Help: "Jobs returned from running to pending by the stale reaper.",
	},
)

func IncJob(status string) {
	schemaJobsProcessedTotal.WithLabelValues(norm(status)).Inc()
}

func IncDrain(result string) {
	queueDrainsTotal.WithLabelValues(norm(result)).Inc()
}

func ObserveDrain(seconds float64) {
	queueDrainSeconds.Observe(seconds)
}

func AddStaleRequeued(n int64) {
	staleRequeuedTotal.Add(float64(n))
}
