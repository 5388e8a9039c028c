package cache

import "github.com/prometheus/client_golang/prometheus"

const (
	opFetch  = "fetch"
	opGet    = "get"
	opSet    = "set"
	opDelete = "delete"
	opScan   = "scan"

	resultHit   = "hit"
	resultMiss  = "miss"
	resultOK    = "ok"
	resultError = "error"
)

var operationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "glambooking_cache_operations_total",
		Help: "Cache operations by kind and outcome",
	},
	[]string{"op", "result"},
)

func init() {
	prometheus.MustRegister(operationsTotal)
}

func observe(op, result string) {
	operationsTotal.WithLabelValues(op, result).Inc()
}
