package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rootmind",
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "Total backend requests, by operation and outcome.",
	}, []string{"op", "status"})

	requestDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "rootmind",
		Subsystem: "api",
		Name:      "request_duration_seconds",
		Help:      "Backend request duration in seconds, by operation.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"op"})
)
