package directory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/birthmas-bot/birthmas/internal/domain"
	"github.com/birthmas-bot/birthmas/internal/logger"
)

const (
	// memberPageSize is the REST page size for member listing (API maximum)
	memberPageSize = 1000

	// userCacheSize bounds the LRU cache of resolved users
	userCacheSize = 512
)

// Client implements Directory over a discordgo session. Guild membership is
// cached per guild after RefreshMembers; user lookups go through an LRU so
// announcement fan-outs don't hammer the REST API for repeat users.
type Client struct {
	session *discordgo.Session

	mu sync.RWMutex
	// guild ID -> member ID -> role IDs held
	members map[string]map[string][]string

	users *lru.Cache[string, User]
}

// NewClient creates a directory client over an open session.
func NewClient(session *discordgo.Session) (*Client, error) {
	users, err := lru.New[string, User](userCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create user cache: %w", err)
	}
	return &Client{
		session: session,
		members: make(map[string]map[string][]string),
		users:   users,
	}, nil
}

// RefreshMembers pages through the guild's member list and replaces the
// cached membership snapshot for that guild.
func (c *Client) RefreshMembers(ctx context.Context, guildID string) error {
	snapshot := make(map[string][]string)
	after := ""
	for {
		page, err := c.session.GuildMembers(guildID, after, memberPageSize, discordgo.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("%w %s: %v", domain.ErrGuildNotFound, guildID, err)
		}
		for _, m := range page {
			if m.User == nil {
				continue
			}
			snapshot[m.User.ID] = m.Roles
			after = m.User.ID
		}
		if len(page) < memberPageSize {
			break
		}
	}

	c.mu.Lock()
	c.members[guildID] = snapshot
	c.mu.Unlock()

	logger.FromContext(ctx).Debug("Refreshed guild members", "guild_id", guildID, "members", len(snapshot))
	return nil
}

// IsMember consults the cached snapshot when one exists, falling back to a
// direct member lookup for guilds that were never refreshed.
func (c *Client) IsMember(ctx context.Context, guildID, userID string) (bool, error) {
	c.mu.RLock()
	snapshot, ok := c.members[guildID]
	c.mu.RUnlock()
	if ok {
		_, member := snapshot[userID]
		return member, nil
	}

	_, err := c.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		if isUnknownMember(err) {
			return false, nil
		}
		return false, fmt.Errorf("%w %s in guild %s: %v", domain.ErrUserNotFound, userID, guildID, err)
	}
	return true, nil
}

// RoleHolders returns the members currently holding the role, refreshing the
// guild snapshot if it is missing.
func (c *Client) RoleHolders(ctx context.Context, guildID, roleID string) ([]string, error) {
	c.mu.RLock()
	snapshot, ok := c.members[guildID]
	c.mu.RUnlock()

	if !ok {
		if err := c.RefreshMembers(ctx, guildID); err != nil {
			return nil, err
		}
		c.mu.RLock()
		snapshot = c.members[guildID]
		c.mu.RUnlock()
	}

	var holders []string
	for userID, roles := range snapshot {
		for _, r := range roles {
			if r == roleID {
				holders = append(holders, userID)
				break
			}
		}
	}
	return holders, nil
}

// GrantRole adds the role to the guild member.
func (c *Client) GrantRole(ctx context.Context, guildID, userID, roleID string) error {
	if err := c.session.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to grant role %s to %s in %s: %w", roleID, userID, guildID, err)
	}
	return nil
}

// RevokeRole removes the role from the guild member.
func (c *Client) RevokeRole(ctx context.Context, guildID, userID, roleID string) error {
	if err := c.session.GuildMemberRoleRemove(guildID, userID, roleID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to revoke role %s from %s in %s: %w", roleID, userID, guildID, err)
	}
	return nil
}

// Announce sends a message to the channel.
func (c *Client) Announce(ctx context.Context, channelID, content string) error {
	if _, err := c.session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("%w %s: %v", domain.ErrChannelNotFound, channelID, err)
	}
	return nil
}

// ResolveUser looks up a user, serving repeats from the LRU cache.
func (c *Client) ResolveUser(ctx context.Context, userID string) (User, error) {
	if u, ok := c.users.Get(userID); ok {
		return u, nil
	}

	du, err := c.session.User(userID, discordgo.WithContext(ctx))
	if err != nil {
		return User{}, fmt.Errorf("%w %s: %v", domain.ErrUserNotFound, userID, err)
	}

	u := User{ID: du.ID, Username: du.Username}
	c.users.Add(userID, u)
	return u, nil
}

// IsTextChannel reports whether the channel accepts plain messages.
func (c *Client) IsTextChannel(ctx context.Context, channelID string) (bool, error) {
	ch, err := c.session.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("%w %s: %v", domain.ErrChannelNotFound, channelID, err)
	}
	switch ch.Type {
	case discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews:
		return true, nil
	default:
		return false, nil
	}
}

// SetPresence updates the bot's custom status.
func (c *Client) SetPresence(ctx context.Context, status string) error {
	if err := c.session.UpdateCustomStatus(status); err != nil {
		return fmt.Errorf("failed to update presence: %w", err)
	}
	return nil
}

func isUnknownMember(err error) bool {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil {
		return restErr.Message.Code == discordgo.ErrCodeUnknownMember
	}
	return false
}
