// Package directory abstracts the Discord gateway/REST surface the bot
// depends on: membership resolution, role mutation, channel messages and
// presence. The reconciliation job and the command layer talk to this
// interface so they stay testable without a live session.
package directory

import "context"

// User is a resolved directory user.
type User struct {
	ID       string
	Username string
}

// Mention returns the Discord mention string for the user.
func (u User) Mention() string {
	return "<@" + u.ID + ">"
}

// Directory resolves users, guilds, channels and roles and performs the
// side effects the bot needs.
type Directory interface {
	// RefreshMembers re-downloads the member list for a guild so the
	// membership-dependent steps see current state.
	RefreshMembers(ctx context.Context, guildID string) error

	// IsMember reports whether the user is currently a member of the guild.
	IsMember(ctx context.Context, guildID, userID string) (bool, error)

	// RoleHolders returns the IDs of every member currently holding the role.
	RoleHolders(ctx context.Context, guildID, roleID string) ([]string, error)

	GrantRole(ctx context.Context, guildID, userID, roleID string) error
	RevokeRole(ctx context.Context, guildID, userID, roleID string) error

	// Announce sends a message to a channel.
	Announce(ctx context.Context, channelID, content string) error

	ResolveUser(ctx context.Context, userID string) (User, error)

	// IsTextChannel reports whether the channel can receive announcements.
	IsTextChannel(ctx context.Context, channelID string) (bool, error)

	// SetPresence updates the bot's visible custom status. Best-effort.
	SetPresence(ctx context.Context, status string) error
}
