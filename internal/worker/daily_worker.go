// Package worker holds the long-running background workers: the daily
// reconciliation trigger and the presence rotation.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/birthmas-bot/birthmas/internal/logger"
	"github.com/birthmas-bot/birthmas/internal/reconcile"
)

// Runner is the reconciliation entry point the daily worker fires.
// *reconcile.Job satisfies it.
type Runner interface {
	Run(ctx context.Context, now time.Time) reconcile.Summary
}

// DailyWorker triggers one reconciliation run per day at a fixed wall-clock
// time in a configured location.
type DailyWorker struct {
	runner   Runner
	hour     int
	minute   int
	location *time.Location

	timer    *time.Timer
	shutdown chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
}

// NewDailyWorker creates a worker that fires at hour:minute in location.
func NewDailyWorker(runner Runner, hour, minute int, location *time.Location) *DailyWorker {
	return &DailyWorker{
		runner:   runner,
		hour:     hour,
		minute:   minute,
		location: location,
		shutdown: make(chan struct{}),
	}
}

// Start schedules the first run.
func (w *DailyWorker) Start() {
	w.scheduleNext()
}

// RunNow triggers a reconciliation immediately in a tracked goroutine,
// independent of the schedule.
func (w *DailyWorker) RunNow() {
	w.execute()
}

// scheduleNext arms the timer for the next hour:minute occurrence.
func (w *DailyWorker) scheduleNext() {
	duration := w.timeUntilNextRun()
	log := logger.FromContext(context.Background())

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}

	// Two-stage scheduling to prevent "tight loop" rescheduling caused by early triggers
	if duration > StandbyThreshold {
		waitDuration := duration - StandbyLeadTime
		w.timer = time.AfterFunc(waitDuration, func() {
			w.scheduleNext()
		})
		w.mu.Unlock()

		log.Info(LogMsgDailyStandby, "next_check_at", time.Now().Add(waitDuration))
		return
	}

	w.timer = time.AfterFunc(duration, func() {
		select {
		case <-w.shutdown:
			return
		default:
		}

		// If the timer fired early, re-arm for the remaining time instead
		// of running ahead of schedule.
		rem := w.timeUntilNextRun()
		if rem > JitterTolerance && rem < 23*time.Hour {
			w.scheduleNext()
			return
		}

		w.execute()
		w.scheduleNext()
	})
	w.mu.Unlock()

	log.Info(LogMsgDailyApproach, "next_run_at", time.Now().Add(duration))
}

// execute performs the reconciliation in a tracked goroutine.
func (w *DailyWorker) execute() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		ctx := logger.WithRunID(context.Background(), logger.GenerateRunID())
		logger.FromContext(ctx).Info(LogMsgDailyStarting)
		w.runner.Run(ctx, time.Now().In(w.location))
	}()
}

// Shutdown cancels the pending timer and waits for an in-flight run.
func (w *DailyWorker) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgDailyShuttingDown)

	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info(LogMsgDailyShutdownDone)
		return nil
	case <-ctx.Done():
		log.Warn(LogMsgDailyShutdownSlow)
		return ctx.Err()
	}
}

// timeUntilNextRun calculates the duration until the next hour:minute in the
// worker's location.
func (w *DailyWorker) timeUntilNextRun() time.Duration {
	now := time.Now().In(w.location)
	next := time.Date(now.Year(), now.Month(), now.Day(), w.hour, w.minute, 0, 0, w.location)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}
