package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	// RecognitionsTotal counts processed recognitions by category name and
	// persistence target ("users" or "objects").
	RecognitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nkudos_recognitions_total",
			Help: "Total number of recognitions processed.",
		},
		[]string{"category", "target"},
	)

	// PointsAwardedTotal sums the points credited to receivers.
	PointsAwardedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "nkudos_points_awarded_total",
			Help: "Total number of points credited to receivers.",
		},
	)

	// VersionConflictsTotal counts conditional writes that lost a race.
	VersionConflictsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "nkudos_version_conflicts_total",
			Help: "Total number of aggregate writes rejected by a version conflict.",
		},
	)
)

func init() {
	prometheus.MustRegister(RecognitionsTotal, PointsAwardedTotal, VersionConflictsTotal)
}
