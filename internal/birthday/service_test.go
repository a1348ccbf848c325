package birthday

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birthmas-bot/birthmas/internal/domain"
)

func newTestService(t *testing.T) (Service, *FakeStore) {
	t.Helper()
	store := NewFakeStore()
	return NewFakeService(store), store
}

func configureServer(t *testing.T, svc Service, serverID string) {
	t.Helper()
	_, err := svc.ConfigServer(context.Background(), serverID, false, "", "chan-"+serverID)
	require.NoError(t, err)
}

func TestAddBirthdayRequiresConfiguredServer(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddBirthday(context.Background(), "42", time.Date(1972, 6, 15, 0, 0, 0, 0, time.UTC), "100")
	assert.ErrorIs(t, err, domain.ErrServerNotConfigured)
}

func TestAddBirthdayIsIdempotentPerUserAndServer(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	configureServer(t, svc, "100")

	first, err := svc.AddBirthday(ctx, "42", time.Date(1972, 6, 15, 0, 0, 0, 0, time.UTC), "100")
	require.NoError(t, err)

	second, err := svc.AddBirthday(ctx, "42", time.Date(1990, 3, 1, 0, 0, 0, 0, time.UTC), "100")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "update in place, not a second row")

	people, err := svc.ListPeople(ctx)
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, time.March, people[0].Birthdate.Month())
	assert.Equal(t, 1, people[0].Birthdate.Day())
	assert.Equal(t, domain.SentinelYear, people[0].Birthdate.Year(), "stored year is the sentinel")
}

func TestGetBirthdaysMatchesMonthDayIgnoringYear(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	configureServer(t, svc, "100")
	configureServer(t, svc, "200")

	_, err := svc.AddBirthday(ctx, "1", time.Date(1972, 6, 15, 0, 0, 0, 0, time.UTC), "100")
	require.NoError(t, err)
	_, err = svc.AddBirthday(ctx, "2", time.Date(1999, 6, 15, 0, 0, 0, 0, time.UTC), "200")
	require.NoError(t, err)
	_, err = svc.AddBirthday(ctx, "3", time.Date(1972, 12, 25, 0, 0, 0, 0, time.UTC), "100")
	require.NoError(t, err)

	matches, err := svc.GetBirthdays(ctx, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, matches, 2)
	for _, p := range matches {
		assert.Equal(t, time.June, p.Birthdate.Month())
		assert.Equal(t, 15, p.Birthdate.Day())
	}
}

func TestConfigThenAddThenGetScenario(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.ConfigServer(ctx, "100", true, "55", "200")
	require.NoError(t, err)

	_, err = svc.AddBirthday(ctx, "42", time.Date(1972, 6, 15, 0, 0, 0, 0, time.UTC), "100")
	require.NoError(t, err)

	matches, err := svc.GetBirthdays(ctx, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "42", matches[0].UserID)
}

func TestLeapDayBirthdayOnlyFiresOnLeapYears(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	configureServer(t, svc, "100")

	_, err := svc.AddBirthday(ctx, "42", time.Date(1972, 2, 29, 0, 0, 0, 0, time.UTC), "100")
	require.NoError(t, err)

	for _, d := range []time.Time{
		time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	} {
		matches, err := svc.GetBirthdays(ctx, d)
		require.NoError(t, err)
		assert.Empty(t, matches, "no leap birthday on %s", d.Format("2006-01-02"))
	}

	matches, err := svc.GetBirthdays(ctx, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "42", matches[0].UserID)
}

func TestRemoveBirthday(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	configureServer(t, svc, "100")

	removed, err := svc.RemoveBirthday(ctx, "42", "100")
	require.NoError(t, err)
	assert.Nil(t, removed, "nil when absent")

	_, err = svc.AddBirthday(ctx, "42", time.Date(1972, 6, 15, 0, 0, 0, 0, time.UTC), "100")
	require.NoError(t, err)

	removed, err = svc.RemoveBirthday(ctx, "42", "100")
	require.NoError(t, err)
	require.NotNil(t, removed)
	assert.Equal(t, "42", removed.UserID)

	people, err := svc.ListPeople(ctx)
	require.NoError(t, err)
	assert.Empty(t, people)
}

func TestRemoveServerCascades(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	configureServer(t, svc, "100")
	configureServer(t, svc, "200")

	_, err := svc.AddBirthday(ctx, "1", time.Date(1972, 6, 15, 0, 0, 0, 0, time.UTC), "100")
	require.NoError(t, err)
	_, err = svc.AddBirthday(ctx, "2", time.Date(1972, 7, 1, 0, 0, 0, 0, time.UTC), "100")
	require.NoError(t, err)
	_, err = svc.AddBirthday(ctx, "3", time.Date(1972, 8, 9, 0, 0, 0, 0, time.UTC), "200")
	require.NoError(t, err)

	removed, err := svc.RemoveServer(ctx, "100")
	require.NoError(t, err)
	require.NotNil(t, removed)

	people, err := svc.ListPeople(ctx)
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, "200", people[0].ServerID, "only the other server's people remain")

	removed, err = svc.RemoveServer(ctx, "100")
	require.NoError(t, err)
	assert.Nil(t, removed, "second removal is a no-op")
}

func TestConfigServerRequiresRoleWhenGiveRole(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ConfigServer(context.Background(), "100", true, "", "200")
	assert.ErrorIs(t, err, domain.ErrRoleRequired)
}

func TestListServerBirthdaysSortedByDayOfYear(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	configureServer(t, svc, "100")

	_, err := svc.AddBirthday(ctx, "late", time.Date(1972, 11, 2, 0, 0, 0, 0, time.UTC), "100")
	require.NoError(t, err)
	_, err = svc.AddBirthday(ctx, "early", time.Date(1972, 1, 20, 0, 0, 0, 0, time.UTC), "100")
	require.NoError(t, err)
	_, err = svc.AddBirthday(ctx, "mid", time.Date(1972, 5, 5, 0, 0, 0, 0, time.UTC), "100")
	require.NoError(t, err)

	people, err := svc.ListServerBirthdays(ctx, "100")
	require.NoError(t, err)
	require.Len(t, people, 3)
	assert.Equal(t, "early", people[0].UserID)
	assert.Equal(t, "mid", people[1].UserID)
	assert.Equal(t, "late", people[2].UserID)
}

func TestNextBirthday(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	configureServer(t, svc, "100")

	next, err := svc.NextBirthday(ctx, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, next, "nil with no birthdays recorded")

	_, err = svc.AddBirthday(ctx, "a", time.Date(1972, 3, 10, 0, 0, 0, 0, time.UTC), "100")
	require.NoError(t, err)
	_, err = svc.AddBirthday(ctx, "b", time.Date(1972, 7, 4, 0, 0, 0, 0, time.UTC), "100")
	require.NoError(t, err)

	next, err = svc.NextBirthday(ctx, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "b", next.UserID, "July 4 comes before next March 10")

	next, err = svc.NextBirthday(ctx, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "a", next.UserID, "wraps into next year")
}

func TestBotVersionDefaultsWhenUnset(t *testing.T) {
	svc, store := newTestService(t)

	v, err := svc.BotVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0.0.0", v)

	store.SetConfig(domain.ConfigKeyVersion, "2.1.0")
	v, err = svc.BotVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2.1.0", v)
}
