package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/birthmas-bot/birthmas/internal/birthday"
	"github.com/birthmas-bot/birthmas/internal/directory"
	"github.com/birthmas-bot/birthmas/internal/logger"
)

// Presence rotation entries
const (
	statusHint           = "Try /set-birthday"
	statusVersionFormat  = "v%s"
	statusNextFormat     = "Next birthday: %s on %s"
	statusNextDateLayout = "Jan 02"

	statusRotationSlots = 3
)

// StatusWorker rotates the bot's presence on an interval: version string,
// command hint, next-birthday teaser. Rotation pauses on days with
// birthdays so the reconciliation job's celebratory status stays up.
type StatusWorker struct {
	svc      birthday.Service
	dir      directory.Directory
	interval time.Duration

	slot     int
	shutdown chan struct{}
	done     chan struct{}
}

// NewStatusWorker creates a status worker rotating every interval.
func NewStatusWorker(svc birthday.Service, dir directory.Directory, interval time.Duration) *StatusWorker {
	return &StatusWorker{
		svc:      svc,
		dir:      dir,
		interval: interval,
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the rotation loop.
func (w *StatusWorker) Start() {
	go func() {
		defer close(w.done)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-w.shutdown:
				return
			case <-ticker.C:
				ctx := logger.WithRunID(context.Background(), logger.GenerateRunID())
				w.rotate(ctx, time.Now())
			}
		}
	}()
}

// Shutdown stops the rotation loop.
func (w *StatusWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}

	select {
	case <-w.done:
		logger.FromContext(ctx).Info(LogMsgStatusShutdown)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// rotate advances to the next presence entry unless today has birthdays.
func (w *StatusWorker) rotate(ctx context.Context, now time.Time) {
	log := logger.FromContext(ctx)

	honorees, err := w.svc.GetBirthdays(ctx, now)
	if err != nil {
		log.Warn(LogMsgStatusUpdateFailed, "error", err)
		return
	}
	if len(honorees) > 0 {
		log.Debug(LogMsgStatusSkipped, "honorees", len(honorees))
		return
	}

	status := w.nextStatus(ctx, now)
	if err := w.dir.SetPresence(ctx, status); err != nil {
		log.Warn(LogMsgStatusUpdateFailed, "error", err)
		return
	}
	log.Debug(LogMsgStatusRotated, "status", status)
}

// nextStatus builds the entry for the current slot and advances the slot.
func (w *StatusWorker) nextStatus(ctx context.Context, now time.Time) string {
	slot := w.slot
	w.slot = (w.slot + 1) % statusRotationSlots

	switch slot {
	case 1:
		return statusHint
	case 2:
		if s, ok := w.nextBirthdayStatus(ctx, now); ok {
			return s
		}
	}
	return w.versionStatus(ctx)
}

func (w *StatusWorker) versionStatus(ctx context.Context) string {
	version, err := w.svc.BotVersion(ctx)
	if err != nil {
		version = "0.0.0"
	}
	return fmt.Sprintf(statusVersionFormat, version)
}

// nextBirthdayStatus builds the teaser for the soonest upcoming birthday.
// Reports false when no birthdays are recorded at all.
func (w *StatusWorker) nextBirthdayStatus(ctx context.Context, now time.Time) (string, bool) {
	next, err := w.svc.NextBirthday(ctx, now)
	if err != nil || next == nil {
		return "", false
	}

	when := next.NextOccurrence(now).Format(statusNextDateLayout)
	user, err := w.dir.ResolveUser(ctx, next.UserID)
	if err != nil {
		return fmt.Sprintf(statusNextFormat, "someone", when), true
	}
	return fmt.Sprintf(statusNextFormat, user.Username, when), true
}
