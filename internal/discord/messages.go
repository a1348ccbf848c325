package discord

// Friendly message constants for Discord responses
const (
	MsgServerNotConfigured = "⚙️ **Server Not Set Up**\nAsk an admin to run /config-server first."
	MsgInvalidDate         = "📅 **That Date Doesn't Exist**\nCheck the day against the month."
	MsgRoleRequired        = "🎭 **Role Missing**\nPick a role to give when enabling giverole."
	MsgNotTextChannel      = "💬 **Not A Text Channel**\nAnnouncements need a plain text channel."
	MsgNoBirthdayRecorded  = "🤷 **No Birthday On File**\nRecord one with /set-birthday."
	MsgNoBirthdaysInServer = "📭 **No Birthdays Yet**\nNobody here has recorded one."
	MsgGuildOnly           = "🏠 **Server Only**\nThis command only works inside a server."

	MsgGenericError = "❌ Something went wrong."
)
