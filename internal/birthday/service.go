package birthday

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/birthmas-bot/birthmas/internal/domain"
	"github.com/birthmas-bot/birthmas/internal/logger"
	"github.com/birthmas-bot/birthmas/internal/repository"
)

// Service defines the birthday operations consumed by the command layer
// and the reconciliation job.
type Service interface {
	AddBirthday(ctx context.Context, userID string, date time.Time, serverID string) (domain.Person, error)
	GetBirthday(ctx context.Context, userID, serverID string) (*domain.Person, error)
	GetBirthdays(ctx context.Context, date time.Time) ([]domain.Person, error)
	RemoveBirthday(ctx context.Context, userID, serverID string) (*domain.Person, error)
	ListPeople(ctx context.Context) ([]domain.Person, error)
	ListServerBirthdays(ctx context.Context, serverID string) ([]domain.Person, error)
	NextBirthday(ctx context.Context, after time.Time) (*domain.Person, error)

	ConfigServer(ctx context.Context, serverID string, giveRole bool, roleID, channelID string) (domain.ServerConfig, error)
	GetServer(ctx context.Context, serverID string) (*domain.ServerConfig, error)
	ListServers(ctx context.Context) ([]domain.ServerConfig, error)
	RemoveServer(ctx context.Context, serverID string) (*domain.ServerConfig, error)

	BotVersion(ctx context.Context) (string, error)
	ErrorChannel(ctx context.Context) (string, error)
}

// service implements the Service interface
type service struct {
	people  repository.Person
	servers repository.Server
	kv      repository.KV
}

// NewService creates a new birthday service
func NewService(people repository.Person, servers repository.Server, kv repository.KV) Service {
	return &service{people: people, servers: servers, kv: kv}
}

// AddBirthday creates or updates the birthday for (userID, serverID).
// The server must be configured first; the date is normalized to the
// sentinel year so only month and day survive.
func (s *service) AddBirthday(ctx context.Context, userID string, date time.Time, serverID string) (domain.Person, error) {
	if _, err := s.servers.Get(ctx, serverID); err != nil {
		if errors.Is(err, domain.ErrServerNotFound) {
			return domain.Person{}, domain.ErrServerNotConfigured
		}
		return domain.Person{}, err
	}

	normalized, err := domain.NewBirthdate(int(date.Month()), date.Day())
	if err != nil {
		return domain.Person{}, err
	}

	person := domain.Person{
		UserID:    userID,
		Birthdate: normalized,
		ServerID:  serverID,
	}
	if err := s.people.Upsert(ctx, &person); err != nil {
		return domain.Person{}, err
	}

	logger.FromContext(ctx).Info("Recorded birthday",
		"user_id", userID,
		"server_id", serverID,
		"month", int(normalized.Month()),
		"day", normalized.Day())
	return person, nil
}

// GetBirthday returns the recorded birthday for a user in a server, or nil.
func (s *service) GetBirthday(ctx context.Context, userID, serverID string) (*domain.Person, error) {
	p, err := s.people.GetByUserAndServer(ctx, userID, serverID)
	if err != nil {
		if errors.Is(err, domain.ErrBirthdayNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// GetBirthdays returns every person whose stored month and day equal the
// given date's, regardless of stored year.
func (s *service) GetBirthdays(ctx context.Context, date time.Time) ([]domain.Person, error) {
	logger.FromContext(ctx).Debug("Getting birthdays", "month", int(date.Month()), "day", date.Day())
	return s.people.ListByMonthDay(ctx, date.Month(), date.Day())
}

// RemoveBirthday deletes the birthday for (userID, serverID). Returns the
// removed record, or nil when none existed.
func (s *service) RemoveBirthday(ctx context.Context, userID, serverID string) (*domain.Person, error) {
	p, err := s.people.DeleteByUserAndServer(ctx, userID, serverID)
	if err != nil {
		return nil, err
	}
	if p != nil {
		logger.FromContext(ctx).Info("Removed birthday", "user_id", userID, "server_id", serverID)
	}
	return p, nil
}

// ListPeople returns every recorded birthday across all servers.
func (s *service) ListPeople(ctx context.Context) ([]domain.Person, error) {
	return s.people.ListAll(ctx)
}

// ListServerBirthdays returns one server's birthdays sorted chronologically
// within the year.
func (s *service) ListServerBirthdays(ctx context.Context, serverID string) ([]domain.Person, error) {
	people, err := s.people.ListByServer(ctx, serverID)
	if err != nil {
		return nil, err
	}
	sort.Slice(people, func(i, j int) bool {
		return people[i].DayOfYear() < people[j].DayOfYear()
	})
	return people, nil
}

// NextBirthday returns the person whose birthday comes up soonest after the
// given time, or nil when none are recorded.
func (s *service) NextBirthday(ctx context.Context, after time.Time) (*domain.Person, error) {
	people, err := s.people.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var next *domain.Person
	var nextAt time.Time
	for i := range people {
		occ := people[i].NextOccurrence(after)
		if next == nil || occ.Before(nextAt) {
			next = &people[i]
			nextAt = occ
		}
	}
	return next, nil
}

// ConfigServer creates or updates a server config. Idempotent. A role is
// required when giveRole is set; this is enforced here, not at the data layer.
func (s *service) ConfigServer(ctx context.Context, serverID string, giveRole bool, roleID, channelID string) (domain.ServerConfig, error) {
	if giveRole && roleID == "" {
		return domain.ServerConfig{}, domain.ErrRoleRequired
	}

	cfg := domain.ServerConfig{
		ServerID:              serverID,
		AnnouncementChannelID: channelID,
		GiveRole:              giveRole,
		RoleID:                roleID,
	}
	if err := s.servers.Upsert(ctx, cfg); err != nil {
		return domain.ServerConfig{}, err
	}

	logger.FromContext(ctx).Info("Configured server",
		"server_id", serverID,
		"channel_id", channelID,
		"give_role", giveRole)
	return cfg, nil
}

// GetServer returns a server config, or nil when the server is not configured.
func (s *service) GetServer(ctx context.Context, serverID string) (*domain.ServerConfig, error) {
	cfg, err := s.servers.Get(ctx, serverID)
	if err != nil {
		if errors.Is(err, domain.ErrServerNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return cfg, nil
}

// ListServers returns every configured server.
func (s *service) ListServers(ctx context.Context) ([]domain.ServerConfig, error) {
	return s.servers.List(ctx)
}

// RemoveServer deletes a server config; the owned people rows cascade.
// Returns the removed config, or nil when none existed.
func (s *service) RemoveServer(ctx context.Context, serverID string) (*domain.ServerConfig, error) {
	cfg, err := s.servers.Delete(ctx, serverID)
	if err != nil {
		return nil, err
	}
	if cfg != nil {
		logger.FromContext(ctx).Info("Removed server", "server_id", serverID)
	}
	return cfg, nil
}

// BotVersion returns the version string from the config table, defaulting
// to "0.0.0" when the row is missing.
func (s *service) BotVersion(ctx context.Context) (string, error) {
	v, err := s.kv.Get(ctx, domain.ConfigKeyVersion)
	if err != nil {
		if errors.Is(err, domain.ErrConfigNotFound) {
			return "0.0.0", nil
		}
		return "", fmt.Errorf("failed to read bot version: %w", err)
	}
	return v, nil
}

// ErrorChannel returns the admin channel ID used for crash reporting.
func (s *service) ErrorChannel(ctx context.Context) (string, error) {
	return s.kv.Get(ctx, domain.ConfigKeyErrorChannel)
}
