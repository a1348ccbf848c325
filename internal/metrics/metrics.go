package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Command Metrics
var (
	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCommandsTotal,
			Help: HelpTextCommandsTotal,
		},
		[]string{LabelCommand},
	)
)

// Reconciliation Metrics
var (
	ReconcileRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameReconcileRunsTotal,
			Help: HelpTextReconcileRunsTotal,
		},
	)

	ReconcileDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameReconcileDuration,
			Help:    HelpTextReconcileDuration,
			Buckets: ReconcileDurationBuckets,
		},
	)

	OutcastsPurged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameOutcastsPurged,
			Help: HelpTextOutcastsPurged,
		},
	)

	RolesRevoked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameRolesRevoked,
			Help: HelpTextRolesRevoked,
		},
	)

	RolesGranted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameRolesGranted,
			Help: HelpTextRolesGranted,
		},
	)

	AnnouncementsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameAnnouncementsSent,
			Help: HelpTextAnnouncementsSent,
		},
	)

	AnnouncementFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameAnnouncementFailures,
			Help: HelpTextAnnouncementFailures,
		},
	)
)
