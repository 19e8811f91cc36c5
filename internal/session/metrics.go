package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	namespace = "memeforge"
	subsystem = "session"

	activeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "active",
			Help:      "Number of connected editing sessions",
		},
	)

	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "operations_total",
			Help:      "Total number of patches applied to session state by kind",
		},
		[]string{"kind"},
	)

	snapshotSavesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "snapshot_saves_total",
			Help:      "Total number of project snapshot saves by result",
		},
		[]string{"result"},
	)
)

func recordSave(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	snapshotSavesTotal.WithLabelValues(result).Inc()
}
