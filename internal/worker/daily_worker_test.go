package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birthmas-bot/birthmas/internal/reconcile"
)

// fakeRunner records reconciliation triggers.
type fakeRunner struct {
	mu   sync.Mutex
	runs []time.Time
}

func (f *fakeRunner) Run(ctx context.Context, now time.Time) reconcile.Summary {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = append(f.runs, now)
	return reconcile.Summary{}
}

func (f *fakeRunner) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.runs)
}

func TestTimeUntilNextRun(t *testing.T) {
	location := time.UTC
	tests := []struct {
		name string
		now  time.Time
		want func(d time.Duration) bool
	}{
		{
			name: "just after the run time waits almost a day",
			now:  time.Date(2026, 2, 2, 2, 1, 0, 0, location),
			want: func(d time.Duration) bool {
				return d > 23*time.Hour && d < 24*time.Hour
			},
		},
		{
			name: "just before the run time waits minutes",
			now:  time.Date(2026, 2, 2, 1, 58, 0, 0, location),
			want: func(d time.Duration) bool {
				return d > 0 && d < 3*time.Minute
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := time.Date(tt.now.Year(), tt.now.Month(), tt.now.Day(), 2, 0, 0, 0, location)
			if !next.After(tt.now) {
				next = next.AddDate(0, 0, 1)
			}
			d := next.Sub(tt.now)

			assert.Greater(t, d, time.Duration(0))
			assert.Less(t, d, 25*time.Hour)
			assert.True(t, tt.want(d))
		})
	}
}

func TestDailyWorkerStartAndShutdown(t *testing.T) {
	runner := &fakeRunner{}
	worker := NewDailyWorker(runner, 2, 0, time.UTC)

	worker.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, worker.Shutdown(ctx))

	// Scheduled for 02:00, so nothing should have fired.
	assert.Equal(t, 0, runner.count())
}

func TestDailyWorkerRunNow(t *testing.T) {
	runner := &fakeRunner{}
	worker := NewDailyWorker(runner, 2, 0, time.UTC)

	worker.RunNow()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, worker.Shutdown(ctx))

	assert.Equal(t, 1, runner.count())
}

func TestDailyWorkerShutdownTwice(t *testing.T) {
	runner := &fakeRunner{}
	worker := NewDailyWorker(runner, 2, 0, time.UTC)
	worker.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, worker.Shutdown(ctx))
	require.NoError(t, worker.Shutdown(ctx))
}
