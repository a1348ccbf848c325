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

// monthChoices returns the twelve month options for /set-birthday
func monthChoices() []*discordgo.ApplicationCommandOptionChoice {
	names := []string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	}
	choices := make([]*discordgo.ApplicationCommandOptionChoice, len(names))
	for i, name := range names {
		choices[i] = &discordgo.ApplicationCommandOptionChoice{Name: name, Value: i + 1}
	}
	return choices
}

func (b *Bot) registerBirthdayCommands() {
	b.Registry.Register(setBirthdayDefinition(), b.handleSetBirthday)
	b.Registry.Register(removeBirthdayDefinition(), b.handleRemoveBirthday)
	b.Registry.Register(myBirthdayDefinition(), b.handleMyBirthday)
	b.Registry.Register(serverBirthdaysDefinition(), b.handleServerBirthdays)
}

func setBirthdayDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "set-birthday",
		Description: "Record your birthday for this server",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "month",
				Description: "Month of your birthday",
				Required:    true,
				Choices:     monthChoices(),
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "day",
				Description: "Day of your birthday",
				Required:    true,
				MinValue:    &[]float64{1}[0],
				MaxValue:    31,
			},
		},
	}
}

func removeBirthdayDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "remove-birthday",
		Description: "Remove your birthday from this server",
	}
}

func myBirthdayDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "my-birthday",
		Description: "Show the birthday you have recorded here",
	}
}

func serverBirthdaysDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "server-birthdays",
		Description: "List every birthday recorded in this server",
	}
}

func (b *Bot) handleSetBirthday(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID == "" {
		replyGuildOnly(s, i)
		return
	}
	if !deferEphemeral(s, i) {
		return
	}

	opts := optionMap(i)
	month := int(opts["month"].IntValue())
	day := int(opts["day"].IntValue())
	user := getInteractionUser(i)

	respond(s, i, setBirthdayReply(ctx, b.Svc, user.ID, i.GuildID, month, day))
}

// setBirthdayReply performs the add and maps the outcome to a user message.
func setBirthdayReply(ctx context.Context, svc birthday.Service, userID, serverID string, month, day int) string {
	date, err := domain.NewBirthdate(month, day)
	if err != nil {
		return MsgInvalidDate
	}

	person, err := svc.AddBirthday(ctx, userID, date, serverID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrServerNotConfigured):
			return MsgServerNotConfigured
		case errors.Is(err, domain.ErrInvalidDate):
			return MsgInvalidDate
		default:
			logger.FromContext(ctx).Error("Failed to set birthday", "user_id", userID, "error", err)
			return MsgGenericError
		}
	}
	return fmt.Sprintf("🎂 Birthday saved: **%s**", formatBirthday(person))
}

func (b *Bot) handleRemoveBirthday(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID == "" {
		replyGuildOnly(s, i)
		return
	}
	if !deferEphemeral(s, i) {
		return
	}

	user := getInteractionUser(i)
	respond(s, i, removeBirthdayReply(ctx, b.Svc, user.ID, i.GuildID))
}

func removeBirthdayReply(ctx context.Context, svc birthday.Service, userID, serverID string) string {
	removed, err := svc.RemoveBirthday(ctx, userID, serverID)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to remove birthday", "user_id", userID, "error", err)
		return MsgGenericError
	}
	if removed == nil {
		return MsgNoBirthdayRecorded
	}
	return fmt.Sprintf("🗑️ Removed your birthday (**%s**).", formatBirthday(*removed))
}

func (b *Bot) handleMyBirthday(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID == "" {
		replyGuildOnly(s, i)
		return
	}
	if !deferEphemeral(s, i) {
		return
	}

	user := getInteractionUser(i)
	respond(s, i, myBirthdayReply(ctx, b.Svc, user.ID, i.GuildID))
}

func myBirthdayReply(ctx context.Context, svc birthday.Service, userID, serverID string) string {
	person, err := svc.GetBirthday(ctx, userID, serverID)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to look up birthday", "user_id", userID, "error", err)
		return MsgGenericError
	}
	if person == nil {
		return MsgNoBirthdayRecorded
	}
	return fmt.Sprintf("🎂 Your birthday here is **%s**.", formatBirthday(*person))
}

func (b *Bot) handleServerBirthdays(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID == "" {
		replyGuildOnly(s, i)
		return
	}
	if !deferEphemeral(s, i) {
		return
	}

	respond(s, i, serverBirthdaysReply(ctx, b.Svc, b.Dir, i.GuildID))
}

// serverBirthdaysReply renders the server's birthday table, falling back to
// raw IDs for users the directory can no longer resolve.
func serverBirthdaysReply(ctx context.Context, svc birthday.Service, dir directory.Directory, serverID string) string {
	people, err := svc.ListServerBirthdays(ctx, serverID)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to list server birthdays", "server_id", serverID, "error", err)
		return MsgGenericError
	}
	if len(people) == 0 {
		return MsgNoBirthdaysInServer
	}

	rows := make([]birthdayRow, len(people))
	for i, p := range people {
		name := p.UserID
		if u, err := dir.ResolveUser(ctx, p.UserID); err == nil {
			name = u.Username
		}
		rows[i] = birthdayRow{Name: name, Date: p.Birthdate}
	}
	return buildBirthdayTable(rows)
}

// replyGuildOnly answers a DM invocation without deferring.
func replyGuildOnly(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: MsgGuildOnly,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}); err != nil {
		logger.FromContext(context.Background()).Error("Failed to send guild-only reply", "error", err)
	}
}
