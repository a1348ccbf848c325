package metrics

// Metric Names
const (
	MetricNameCommandsTotal        = "birthmas_commands_total"
	MetricNameReconcileRunsTotal   = "birthmas_reconcile_runs_total"
	MetricNameReconcileDuration    = "birthmas_reconcile_duration_seconds"
	MetricNameOutcastsPurged       = "birthmas_outcasts_purged_total"
	MetricNameRolesRevoked         = "birthmas_roles_revoked_total"
	MetricNameRolesGranted         = "birthmas_roles_granted_total"
	MetricNameAnnouncementsSent    = "birthmas_announcements_sent_total"
	MetricNameAnnouncementFailures = "birthmas_announcement_failures_total"
)

// Help Text
const (
	HelpTextCommandsTotal        = "Total slash commands handled, by command name"
	HelpTextReconcileRunsTotal   = "Total daily reconciliation runs"
	HelpTextReconcileDuration    = "Duration of reconciliation runs in seconds"
	HelpTextOutcastsPurged       = "Total birthday records purged for departed members"
	HelpTextRolesRevoked         = "Total birthday role revocations"
	HelpTextRolesGranted         = "Total birthday role grants"
	HelpTextAnnouncementsSent    = "Total birthday announcements delivered"
	HelpTextAnnouncementFailures = "Total birthday announcements that failed"
)

// Labels
const (
	LabelCommand = "command"
)

// ReconcileDurationBuckets covers runs from sub-second to minutes
var ReconcileDurationBuckets = []float64{0.1, 0.5, 1, 5, 15, 60, 300}
