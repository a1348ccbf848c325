package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/birthmas-bot/birthmas/internal/birthday"
	"github.com/birthmas-bot/birthmas/internal/config"
	"github.com/birthmas-bot/birthmas/internal/database"
	"github.com/birthmas-bot/birthmas/internal/database/postgres"
	"github.com/birthmas-bot/birthmas/internal/directory"
	"github.com/birthmas-bot/birthmas/internal/discord"
	"github.com/birthmas-bot/birthmas/internal/logger"
	"github.com/birthmas-bot/birthmas/internal/reconcile"
	"github.com/birthmas-bot/birthmas/internal/server"
	"github.com/birthmas-bot/birthmas/internal/worker"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger.Setup(logger.NewConfig(cfg.LogLevel, cfg.LogFormat, logger.DefaultVersion, cfg.Environment, false))

	location, err := cfg.Location()
	if err != nil {
		slog.Error("Failed to resolve timezone", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(cfg.DBConnString()); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.DBConnString(), 10, 5*time.Minute, 30*time.Minute)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	svc := birthday.NewService(
		postgres.NewPersonRepository(pool),
		postgres.NewServerRepository(pool),
		postgres.NewKVRepository(pool),
	)

	bot, err := discord.New(discord.Config{
		Token: cfg.DiscordToken,
		AppID: cfg.DiscordAppID,
	}, svc, nil)
	if err != nil {
		slog.Error("Failed to create Discord bot", "error", err)
		os.Exit(1)
	}

	dir, err := directory.NewClient(bot.Session)
	if err != nil {
		slog.Error("Failed to create directory client", "error", err)
		os.Exit(1)
	}
	bot.Dir = dir

	job := reconcile.NewJob(svc, dir, bot.ReportError)

	daily := worker.NewDailyWorker(job, cfg.ReconcileHour, cfg.ReconcileMinute, location)
	status := worker.NewStatusWorker(svc, dir, cfg.StatusRotation)

	httpSrv := server.New(cfg.Port, pool, svc)
	go func() {
		if err := httpSrv.Start(); err != nil {
			slog.Error("HTTP server failed", "error", err)
		}
	}()

	if err := bot.Start(); err != nil {
		slog.Error("Failed to start Discord bot", "error", err)
		os.Exit(1)
	}

	if err := bot.RegisterCommands(bot.Registry, false); err != nil {
		slog.Error("Failed to register commands", "error", err)
	}

	daily.Start()
	status.Start()
	if cfg.RunOnStart {
		daily.RunNow()
	}

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := daily.Shutdown(shutdownCtx); err != nil {
		slog.Warn("Daily worker shutdown incomplete", "error", err)
	}
	if err := status.Shutdown(shutdownCtx); err != nil {
		slog.Warn("Status worker shutdown incomplete", "error", err)
	}
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP server shutdown incomplete", "error", err)
	}
	bot.Stop()
}
