package devserver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	uploadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "rootmind",
		Subsystem: "devserver",
		Name:      "uploads_total",
		Help:      "Documents accepted by the dev server.",
	})

	asksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "rootmind",
		Subsystem: "devserver",
		Name:      "asks_total",
		Help:      "Questions answered by the dev server.",
	})
)
