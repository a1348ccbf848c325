package directory

import (
	"context"
	"fmt"
	"sync"

	"github.com/birthmas-bot/birthmas/internal/domain"
)

// Announcement records one message sent through the fake.
type Announcement struct {
	ChannelID string
	Content   string
}

// RoleChange records one grant or revocation.
type RoleChange struct {
	GuildID string
	UserID  string
	RoleID  string
}

// Fake is a stateful in-memory Directory for tests. Seed membership and
// roles, inject per-item failures, then assert on the recorded side effects.
type Fake struct {
	mu sync.Mutex

	// guild ID -> member ID -> role IDs held
	Members map[string]map[string][]string
	// user ID -> username; users absent here fail ResolveUser
	Users map[string]string
	// channel IDs that are not text channels
	NonTextChannels map[string]bool

	// failure injection
	RefreshErr  map[string]error // by guild ID
	MemberErr   map[string]error // by user ID
	RevokeErr   map[string]error // by user ID
	GrantErr    map[string]error // by user ID
	AnnounceErr error

	// recorded side effects
	Refreshed     []string
	Announcements []Announcement
	Granted       []RoleChange
	Revoked       []RoleChange
	Status        string
}

// NewFake creates an empty Fake.
func NewFake() *Fake {
	return &Fake{
		Members:         make(map[string]map[string][]string),
		Users:           make(map[string]string),
		NonTextChannels: make(map[string]bool),
		RefreshErr:      make(map[string]error),
		MemberErr:       make(map[string]error),
		RevokeErr:       make(map[string]error),
		GrantErr:        make(map[string]error),
	}
}

// AddMember seeds a guild member with the given roles and a resolvable user.
func (f *Fake) AddMember(guildID, userID, username string, roles ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Members[guildID] == nil {
		f.Members[guildID] = make(map[string][]string)
	}
	f.Members[guildID][userID] = roles
	f.Users[userID] = username
}

func (f *Fake) RefreshMembers(ctx context.Context, guildID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.RefreshErr[guildID]; err != nil {
		return err
	}
	f.Refreshed = append(f.Refreshed, guildID)
	return nil
}

func (f *Fake) IsMember(ctx context.Context, guildID, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.MemberErr[userID]; err != nil {
		return false, err
	}
	members, ok := f.Members[guildID]
	if !ok {
		return false, nil
	}
	_, member := members[userID]
	return member, nil
}

func (f *Fake) RoleHolders(ctx context.Context, guildID, roleID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var holders []string
	for userID, roles := range f.Members[guildID] {
		for _, r := range roles {
			if r == roleID {
				holders = append(holders, userID)
				break
			}
		}
	}
	return holders, nil
}

func (f *Fake) GrantRole(ctx context.Context, guildID, userID, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.GrantErr[userID]; err != nil {
		return err
	}
	f.Granted = append(f.Granted, RoleChange{GuildID: guildID, UserID: userID, RoleID: roleID})
	if members, ok := f.Members[guildID]; ok {
		if roles, ok := members[userID]; ok {
			members[userID] = append(roles, roleID)
		}
	}
	return nil
}

func (f *Fake) RevokeRole(ctx context.Context, guildID, userID, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.RevokeErr[userID]; err != nil {
		return err
	}
	f.Revoked = append(f.Revoked, RoleChange{GuildID: guildID, UserID: userID, RoleID: roleID})
	if members, ok := f.Members[guildID]; ok {
		if roles, ok := members[userID]; ok {
			kept := roles[:0]
			for _, r := range roles {
				if r != roleID {
					kept = append(kept, r)
				}
			}
			members[userID] = kept
		}
	}
	return nil
}

func (f *Fake) Announce(ctx context.Context, channelID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.AnnounceErr != nil {
		return f.AnnounceErr
	}
	f.Announcements = append(f.Announcements, Announcement{ChannelID: channelID, Content: content})
	return nil
}

func (f *Fake) ResolveUser(ctx context.Context, userID string) (User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	username, ok := f.Users[userID]
	if !ok {
		return User{}, fmt.Errorf("%w %s", domain.ErrUserNotFound, userID)
	}
	return User{ID: userID, Username: username}, nil
}

func (f *Fake) IsTextChannel(ctx context.Context, channelID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.NonTextChannels[channelID], nil
}

func (f *Fake) SetPresence(ctx context.Context, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Status = status
	return nil
}

// AnnouncementCount returns the number of sent announcements.
func (f *Fake) AnnouncementCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Announcements)
}
