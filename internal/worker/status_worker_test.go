package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birthmas-bot/birthmas/internal/birthday"
	"github.com/birthmas-bot/birthmas/internal/directory"
)

func setupStatus(t *testing.T) (birthday.Service, *birthday.FakeStore, *directory.Fake, *StatusWorker) {
	t.Helper()
	store := birthday.NewFakeStore()
	svc := birthday.NewFakeService(store)
	dir := directory.NewFake()
	return svc, store, dir, NewStatusWorker(svc, dir, time.Hour)
}

func TestStatusRotationSequence(t *testing.T) {
	ctx := context.Background()
	svc, store, dir, worker := setupStatus(t)

	store.SetConfig("Version", "1.2.3")

	_, err := svc.ConfigServer(ctx, "100", false, "", "55")
	require.NoError(t, err)
	dir.AddMember("100", "1", "alice")
	_, err = svc.AddBirthday(ctx, "1", time.Date(2025, time.August, 20, 0, 0, 0, 0, time.UTC), "100")
	require.NoError(t, err)

	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

	worker.rotate(ctx, now)
	assert.Equal(t, "v1.2.3", dir.Status)

	worker.rotate(ctx, now)
	assert.Equal(t, "Try /set-birthday", dir.Status)

	worker.rotate(ctx, now)
	assert.Equal(t, "Next birthday: alice on Aug 20", dir.Status)

	worker.rotate(ctx, now)
	assert.Equal(t, "v1.2.3", dir.Status)
}

func TestStatusRotationSkipsBirthdayDays(t *testing.T) {
	ctx := context.Background()
	svc, _, dir, worker := setupStatus(t)

	_, err := svc.ConfigServer(ctx, "100", false, "", "55")
	require.NoError(t, err)
	_, err = svc.AddBirthday(ctx, "1", time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC), "100")
	require.NoError(t, err)

	worker.rotate(ctx, time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC))

	assert.Empty(t, dir.Status)
}

func TestStatusTeaserFallsBackWithoutBirthdays(t *testing.T) {
	ctx := context.Background()
	_, store, dir, worker := setupStatus(t)

	store.SetConfig("Version", "2.0.0")
	worker.slot = 2

	worker.rotate(ctx, time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC))

	assert.Equal(t, "v2.0.0", dir.Status)
}

func TestStatusWorkerStartShutdown(t *testing.T) {
	_, _, _, worker := setupStatus(t)
	worker.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, worker.Shutdown(ctx))
}

func TestStatusTeaserUnresolvableUser(t *testing.T) {
	ctx := context.Background()
	svc, _, dir, worker := setupStatus(t)

	_, err := svc.ConfigServer(ctx, "100", false, "", "55")
	require.NoError(t, err)
	_, err = svc.AddBirthday(ctx, "1", time.Date(2025, time.August, 20, 0, 0, 0, 0, time.UTC), "100")
	require.NoError(t, err)
	// user "1" never seeded in dir.Users

	worker.slot = 2
	worker.rotate(ctx, time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC))

	assert.Equal(t, "Next birthday: someone on Aug 20", dir.Status)
}
