package discord

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birthmas-bot/birthmas/internal/birthday"
	"github.com/birthmas-bot/birthmas/internal/directory"
)

func setupCommands(t *testing.T) (birthday.Service, *directory.Fake) {
	t.Helper()
	store := birthday.NewFakeStore()
	return birthday.NewFakeService(store), directory.NewFake()
}

func TestMonthChoices(t *testing.T) {
	choices := monthChoices()
	require.Len(t, choices, 12)
	assert.Equal(t, "January", choices[0].Name)
	assert.Equal(t, 1, choices[0].Value)
	assert.Equal(t, "December", choices[11].Name)
	assert.Equal(t, 12, choices[11].Value)
}

func TestCommandDefinitions(t *testing.T) {
	set := setBirthdayDefinition()
	require.Len(t, set.Options, 2)
	assert.True(t, set.Options[0].Required)
	assert.Len(t, set.Options[0].Choices, 12)

	cfg := configServerDefinition()
	require.NotNil(t, cfg.DefaultMemberPermissions)
	assert.Equal(t, int64(discordgo.PermissionManageServer), *cfg.DefaultMemberPermissions)
	assert.False(t, cfg.Options[2].Required) // roletogive optional at the schema level

	rm := removeServerDefinition()
	require.NotNil(t, rm.DefaultMemberPermissions)
	assert.Equal(t, int64(discordgo.PermissionManageServer), *rm.DefaultMemberPermissions)
}

func TestSetBirthdayReply(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupCommands(t)

	// server not configured yet
	assert.Equal(t, MsgServerNotConfigured, setBirthdayReply(ctx, svc, "1", "100", 6, 15))

	_, err := svc.ConfigServer(ctx, "100", false, "", "55")
	require.NoError(t, err)

	assert.Equal(t, MsgInvalidDate, setBirthdayReply(ctx, svc, "1", "100", 4, 31))
	assert.Contains(t, setBirthdayReply(ctx, svc, "1", "100", 6, 15), "Jun 15")

	saved, err := svc.GetBirthday(ctx, "1", "100")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, time.June, saved.Birthdate.Month())
}

func TestRemoveBirthdayReply(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupCommands(t)

	_, err := svc.ConfigServer(ctx, "100", false, "", "55")
	require.NoError(t, err)

	assert.Equal(t, MsgNoBirthdayRecorded, removeBirthdayReply(ctx, svc, "1", "100"))

	_, err = svc.AddBirthday(ctx, "1", time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC), "100")
	require.NoError(t, err)

	assert.Contains(t, removeBirthdayReply(ctx, svc, "1", "100"), "Jun 15")
	assert.Equal(t, MsgNoBirthdayRecorded, removeBirthdayReply(ctx, svc, "1", "100"))
}

func TestMyBirthdayReply(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupCommands(t)

	_, err := svc.ConfigServer(ctx, "100", false, "", "55")
	require.NoError(t, err)

	assert.Equal(t, MsgNoBirthdayRecorded, myBirthdayReply(ctx, svc, "1", "100"))

	_, err = svc.AddBirthday(ctx, "1", time.Date(2025, time.February, 29, 0, 0, 0, 0, time.UTC), "100")
	require.NoError(t, err)

	reply := myBirthdayReply(ctx, svc, "1", "100")
	assert.Contains(t, reply, "Feb 29")
	assert.Contains(t, reply, "leap day")
}

func TestServerBirthdaysReply(t *testing.T) {
	ctx := context.Background()
	svc, dir := setupCommands(t)

	_, err := svc.ConfigServer(ctx, "100", false, "", "55")
	require.NoError(t, err)

	assert.Equal(t, MsgNoBirthdaysInServer, serverBirthdaysReply(ctx, svc, dir, "100"))

	dir.AddMember("100", "1", "alice")
	_, err = svc.AddBirthday(ctx, "1", time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC), "100")
	require.NoError(t, err)
	// user 2 left but record survives until the next reconciliation
	_, err = svc.AddBirthday(ctx, "2", time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC), "100")
	require.NoError(t, err)

	table := serverBirthdaysReply(ctx, svc, dir, "100")
	assert.Contains(t, table, "alice")
	assert.Contains(t, table, "Jun 15")
	assert.Contains(t, table, "2") // unresolvable user falls back to the raw ID
	assert.Contains(t, table, "Mar 03")
}

func TestConfigServerReply(t *testing.T) {
	ctx := context.Background()
	svc, dir := setupCommands(t)

	assert.Equal(t, MsgRoleRequired, configServerReply(ctx, svc, dir, "100", "55", true, ""))

	dir.NonTextChannels["99"] = true
	assert.Equal(t, MsgNotTextChannel, configServerReply(ctx, svc, dir, "100", "99", false, ""))

	reply := configServerReply(ctx, svc, dir, "100", "55", true, "200")
	assert.Contains(t, reply, "<#55>")
	assert.Contains(t, reply, "<@&200>")

	cfg, err := svc.GetServer(ctx, "100")
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.True(t, cfg.GiveRole)
}

func TestRemoveServerReply(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupCommands(t)

	assert.Equal(t, MsgServerNotConfigured, removeServerReply(ctx, svc, "100"))

	_, err := svc.ConfigServer(ctx, "100", false, "", "55")
	require.NoError(t, err)
	_, err = svc.AddBirthday(ctx, "1", time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC), "100")
	require.NoError(t, err)

	assert.Contains(t, removeServerReply(ctx, svc, "100"), "Removed")

	// the cascade took the birthdays with it
	gone, err := svc.GetBirthday(ctx, "1", "100")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestCommandsEqualDetectsChanges(t *testing.T) {
	a := setBirthdayDefinition()
	b := setBirthdayDefinition()
	assert.True(t, commandsEqual(
		[]*discordgo.ApplicationCommand{a},
		[]*discordgo.ApplicationCommand{b},
	))

	b.Options[1].Description = "changed"
	assert.False(t, commandsEqual(
		[]*discordgo.ApplicationCommand{a},
		[]*discordgo.ApplicationCommand{b},
	))

	assert.False(t, commandsEqual(
		[]*discordgo.ApplicationCommand{a},
		[]*discordgo.ApplicationCommand{a, removeBirthdayDefinition()},
	))
}
