package config

// Schedule defaults
const (
	// DefaultReconcileHour is the local hour of the daily reconciliation
	// run, matching the bot's original 02:00 schedule.
	DefaultReconcileHour = 2

	// DefaultStatusRotationMinutes is how often the presence string rotates.
	DefaultStatusRotationMinutes = 60
)
