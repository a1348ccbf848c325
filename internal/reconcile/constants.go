package reconcile

// AnnouncementFormat is the greeting posted to the announcement channel.
// The verb and shape match what servers already expect.
const AnnouncementFormat = "Happy birthday %s!"

// Presence formats
const (
	StatusCelebratingFormat = "Celebrating %d birthday(s) today!"
	StatusIdleFormat        = "v%s | %s"
	StatusDateLayout        = "Jan 02"
)

// Log Messages
const (
	LogMsgRunStarting           = "Reconciliation starting"
	LogMsgRunCompleted          = "Reconciliation completed"
	LogMsgRunPanicked           = "Reconciliation panicked"
	LogMsgListServersFailed     = "Failed to list servers"
	LogMsgListPeopleFailed      = "Failed to list people"
	LogMsgRefreshFailed         = "Failed to refresh guild members"
	LogMsgMembershipCheckFailed = "Failed to check membership, keeping record"
	LogMsgPurgeFailed           = "Failed to purge outcast"
	LogMsgPurgedOutcast         = "Purged outcast birthday record"
	LogMsgRoleHoldersFailed     = "Failed to list role holders"
	LogMsgRevokeFailed          = "Failed to revoke birthday role"
	LogMsgGrantFailed           = "Failed to grant birthday role"
	LogMsgGetBirthdaysFailed    = "Failed to look up today's birthdays"
	LogMsgNoBirthdaysToday      = "No birthdays today"
	LogMsgHonoreeServerMissing  = "Honoree's server has no config"
	LogMsgResolveUserFailed     = "Failed to resolve honoree"
	LogMsgAnnounceFailed        = "Failed to send announcement"
	LogMsgAnnounced             = "Posted birthday announcement"
	LogMsgVersionLookupFailed   = "Failed to read bot version"
	LogMsgStatusUpdateFailed    = "Failed to update presence"
)
