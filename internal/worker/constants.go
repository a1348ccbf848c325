package worker

import "time"

// Scheduling thresholds for the two-stage daily timer
const (
	// StandbyThreshold is the horizon beyond which the worker sleeps in
	// long-range standby instead of arming the final timer.
	StandbyThreshold = 1 * time.Hour

	// StandbyLeadTime is how far before the run the standby stage wakes up.
	StandbyLeadTime = 45 * time.Minute

	// JitterTolerance is how early a timer may fire before the worker
	// treats it as jitter and re-arms for the remaining time.
	JitterTolerance = 10 * time.Second
)

// Log Messages - Daily Worker
const (
	LogMsgDailyStandby      = "Daily reconciliation in standby"
	LogMsgDailyApproach     = "Daily reconciliation scheduled"
	LogMsgDailyStarting     = "Daily reconciliation triggered"
	LogMsgDailyShuttingDown = "Shutting down daily worker"
	LogMsgDailyShutdownDone = "Daily worker shutdown complete"
	LogMsgDailyShutdownSlow = "Daily worker shutdown timeout, a run may still be in flight"
)

// Log Messages - Status Worker
const (
	LogMsgStatusRotated      = "Rotated presence status"
	LogMsgStatusSkipped      = "Skipping status rotation, birthdays today"
	LogMsgStatusUpdateFailed = "Failed to rotate presence status"
	LogMsgStatusShutdown     = "Status worker stopped"
)
