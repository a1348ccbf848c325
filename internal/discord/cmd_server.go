package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/birthmas-bot/birthmas/internal/birthday"
	"github.com/birthmas-bot/birthmas/internal/directory"
	"github.com/birthmas-bot/birthmas/internal/domain"
	"github.com/birthmas-bot/birthmas/internal/logger"
)

func (b *Bot) registerServerCommands() {
	b.Registry.Register(configServerDefinition(), b.handleConfigServer)
	b.Registry.Register(removeServerDefinition(), b.handleRemoveServer)
}

func configServerDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "config-server",
		Description: "Configure birthday announcements for this server",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionChannel,
				Name:        "announcementchannel",
				Description: "Channel for birthday announcements",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionBoolean,
				Name:        "giverole",
				Description: "Grant a role on birthdays",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionRole,
				Name:        "roletogive",
				Description: "Role to grant (required when giverole is true)",
				Required:    false,
			},
		},
		DefaultMemberPermissions: &[]int64{discordgo.PermissionManageServer}[0],
	}
}

func removeServerDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:                     "remove-server",
		Description:              "Remove this server's config and every recorded birthday",
		DefaultMemberPermissions: &[]int64{discordgo.PermissionManageServer}[0],
	}
}

func (b *Bot) handleConfigServer(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID == "" {
		replyGuildOnly(s, i)
		return
	}
	if !deferEphemeral(s, i) {
		return
	}

	opts := optionMap(i)
	channelID := opts["announcementchannel"].Value.(string)
	giveRole := opts["giverole"].BoolValue()
	roleID := ""
	if opt, ok := opts["roletogive"]; ok {
		roleID = opt.Value.(string)
	}

	respond(s, i, configServerReply(ctx, b.Svc, b.Dir, i.GuildID, channelID, giveRole, roleID))
}

// configServerReply validates the channel and role, then upserts the config.
func configServerReply(ctx context.Context, svc birthday.Service, dir directory.Directory, serverID, channelID string, giveRole bool, roleID string) string {
	if giveRole && roleID == "" {
		return MsgRoleRequired
	}

	text, err := dir.IsTextChannel(ctx, channelID)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to inspect channel", "channel_id", channelID, "error", err)
		return MsgGenericError
	}
	if !text {
		return MsgNotTextChannel
	}

	cfg, err := svc.ConfigServer(ctx, serverID, giveRole, roleID, channelID)
	if err != nil {
		if errors.Is(err, domain.ErrRoleRequired) {
			return MsgRoleRequired
		}
		logger.FromContext(ctx).Error("Failed to configure server", "server_id", serverID, "error", err)
		return MsgGenericError
	}

	reply := fmt.Sprintf("✅ Announcements will go to <#%s>.", cfg.AnnouncementChannelID)
	if cfg.GiveRole {
		reply += fmt.Sprintf(" Honorees get <@&%s> for the day.", cfg.RoleID)
	}
	return reply
}

func (b *Bot) handleRemoveServer(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID == "" {
		replyGuildOnly(s, i)
		return
	}
	if !deferEphemeral(s, i) {
		return
	}

	respond(s, i, removeServerReply(ctx, b.Svc, i.GuildID))
}

func removeServerReply(ctx context.Context, svc birthday.Service, serverID string) string {
	removed, err := svc.RemoveServer(ctx, serverID)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to remove server", "server_id", serverID, "error", err)
		return MsgGenericError
	}
	if removed == nil {
		return MsgServerNotConfigured
	}
	return "🗑️ Removed this server's config and all recorded birthdays."
}
