package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(classifierRequestsTotal, classifierLatencyMs) }

var classifierRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "classifier_requests_total",
		Help: "Classifier calls per provider and response mode.",
	},
	[]string{"provider", "mode", "success"}, // mode: 'strict' | 'relaxed'
)

var classifierLatencyMs = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "classifier_latency_ms",
		Help:    "Classifier call latency distribution in milliseconds.",
		Buckets: []float64{100, 250, 500, 1000, 2000, 4000, 8000, 16000, 30000, 60000},
	},
	[]string{"provider", "mode"},
)

func ObserveClassification(provider, mode string, latencyMs int, success bool) {
	classifierRequestsTotal.WithLabelValues(norm(provider), norm(mode), strconv.FormatBool(success)).Inc()
	classifierLatencyMs.WithLabelValues(norm(provider), norm(mode)).Observe(float64(latencyMs))
}
