package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(schemaSavesTotal) }

var schemaSavesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "schema_saves_total",
		Help: "Persistence gateway outcomes (live/draft/invalid_json/cleared).",
	},
	[]string{"result"},
)

func IncSchemaSave(result string) {
	schemaSavesTotal.WithLabelValues(norm(result)).Inc()
}
