// Package discord hosts the bot session and the slash command surface.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"

	"github.com/birthmas-bot/birthmas/internal/birthday"
	"github.com/birthmas-bot/birthmas/internal/directory"
	"github.com/birthmas-bot/birthmas/internal/logger"
	"github.com/birthmas-bot/birthmas/internal/metrics"
)

// Bot represents the Discord bot
type Bot struct {
	Session  *discordgo.Session
	AppID    string
	Svc      birthday.Service
	Dir      directory.Directory
	Registry *CommandRegistry
}

// Config holds the bot configuration
type Config struct {
	Token string
	AppID string
}

// New creates a new Discord bot over the birthday service and directory.
func New(cfg Config, svc birthday.Service, dir directory.Directory) (*Bot, error) {
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers

	b := &Bot{
		Session:  s,
		AppID:    cfg.AppID,
		Svc:      svc,
		Dir:      dir,
		Registry: NewCommandRegistry(),
	}
	b.registerBirthdayCommands()
	b.registerServerCommands()
	return b, nil
}

// Start opens the gateway connection.
func (b *Bot) Start() error {
	b.Session.AddHandler(b.ready)
	b.Session.AddHandler(b.interactionCreate)

	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	slog.Info("Discord bot is now running. Press CTRL-C to exit.")
	return nil
}

// Stop closes the gateway connection.
func (b *Bot) Stop() {
	b.Session.Close()
}

// Run starts the bot and blocks until a termination signal.
func (b *Bot) Run() error {
	if err := b.Start(); err != nil {
		return err
	}
	defer b.Stop()

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	return nil
}

func (b *Bot) ready(s *discordgo.Session, r *discordgo.Ready) {
	slog.Info("Bot is ready", "user", s.State.User.Username)
}

// interactionCreate dispatches slash commands. Each command runs under a
// fresh run ID; a panicking handler is reported to the error channel
// instead of taking the gateway goroutine down.
func (b *Bot) interactionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	handler := b.Registry.Handler(name)
	if handler == nil {
		return
	}

	ctx := logger.WithRunID(context.Background(), logger.GenerateRunID())
	metrics.CommandsTotal.WithLabelValues(name).Inc()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("command %s panicked: %v", name, r)
			logger.FromContext(ctx).Error("Command handler panicked", "command", name, "error", err)
			b.ReportError(ctx, err)
		}
	}()

	handler(ctx, s, i)
}

// ReportError relays an error to the admin error channel from the config
// table. Silent when no channel is configured.
func (b *Bot) ReportError(ctx context.Context, reported error) {
	channelID, err := b.Svc.ErrorChannel(ctx)
	if err != nil || channelID == "" {
		logger.FromContext(ctx).Debug("No error channel configured", "error", err)
		return
	}

	msg := fmt.Sprintf("⚠️ `%v`", reported)
	if err := b.Dir.Announce(ctx, channelID, msg); err != nil {
		logger.FromContext(ctx).Error("Failed to report error to channel", "channel_id", channelID, "error", err)
	}
}
