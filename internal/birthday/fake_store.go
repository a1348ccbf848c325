package birthday

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/birthmas-bot/birthmas/internal/domain"
)

// FakeStore is a stateful in-memory implementation of the person, server
// and kv repositories for testing. It reproduces the schema-level cascade:
// deleting a server drops its people. Keep it in this package so service
// tests stay integration-style without a database.
type FakeStore struct {
	people  map[string]*domain.Person // keyed by userID + "/" + serverID
	servers map[string]domain.ServerConfig
	config  map[string]string
}

// NewFakeStore creates an empty FakeStore
func NewFakeStore() *FakeStore {
	return &FakeStore{
		people:  make(map[string]*domain.Person),
		servers: make(map[string]domain.ServerConfig),
		config:  make(map[string]string),
	}
}

// SetConfig seeds a config table row.
func (f *FakeStore) SetConfig(name, value string) {
	f.config[name] = value
}

func personKey(userID, serverID string) string {
	return fmt.Sprintf("%s/%s", userID, serverID)
}

func (f *FakeStore) Upsert(ctx context.Context, person *domain.Person) error {
	key := personKey(person.UserID, person.ServerID)
	if existing, ok := f.people[key]; ok {
		existing.Birthdate = person.Birthdate
		person.ID = existing.ID
		return nil
	}
	if person.ID == uuid.Nil {
		person.ID = uuid.New()
	}
	stored := *person
	f.people[key] = &stored
	return nil
}

func (f *FakeStore) GetByUserAndServer(ctx context.Context, userID, serverID string) (*domain.Person, error) {
	if p, ok := f.people[personKey(userID, serverID)]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, domain.ErrBirthdayNotFound
}

func (f *FakeStore) ListAll(ctx context.Context) ([]domain.Person, error) {
	var out []domain.Person
	for _, p := range f.people {
		out = append(out, *p)
	}
	return out, nil
}

func (f *FakeStore) ListByServer(ctx context.Context, serverID string) ([]domain.Person, error) {
	var out []domain.Person
	for _, p := range f.people {
		if p.ServerID == serverID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *FakeStore) ListByMonthDay(ctx context.Context, month time.Month, day int) ([]domain.Person, error) {
	var out []domain.Person
	for _, p := range f.people {
		if p.Birthdate.Month() == month && p.Birthdate.Day() == day {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *FakeStore) DeleteByUserAndServer(ctx context.Context, userID, serverID string) (*domain.Person, error) {
	key := personKey(userID, serverID)
	p, ok := f.people[key]
	if !ok {
		return nil, nil
	}
	delete(f.people, key)
	return p, nil
}

func (f *FakeStore) UpsertServer(ctx context.Context, cfg domain.ServerConfig) error {
	f.servers[cfg.ServerID] = cfg
	return nil
}

func (f *FakeStore) Get(ctx context.Context, serverID string) (*domain.ServerConfig, error) {
	if cfg, ok := f.servers[serverID]; ok {
		return &cfg, nil
	}
	return nil, domain.ErrServerNotFound
}

func (f *FakeStore) List(ctx context.Context) ([]domain.ServerConfig, error) {
	var out []domain.ServerConfig
	for _, cfg := range f.servers {
		out = append(out, cfg)
	}
	return out, nil
}

func (f *FakeStore) Delete(ctx context.Context, serverID string) (*domain.ServerConfig, error) {
	cfg, ok := f.servers[serverID]
	if !ok {
		return nil, nil
	}
	delete(f.servers, serverID)
	// cascade, as the schema would
	for key, p := range f.people {
		if p.ServerID == serverID {
			delete(f.people, key)
		}
	}
	return &cfg, nil
}

func (f *FakeStore) GetValue(ctx context.Context, name string) (string, error) {
	if v, ok := f.config[name]; ok {
		return v, nil
	}
	return "", fmt.Errorf("%w: %s", domain.ErrConfigNotFound, name)
}

// serverRepo and kvRepo adapt FakeStore to the repository interfaces whose
// method names collide with the person repository's.
type serverRepo struct{ *FakeStore }

func (s serverRepo) Upsert(ctx context.Context, cfg domain.ServerConfig) error {
	return s.UpsertServer(ctx, cfg)
}

type kvRepo struct{ *FakeStore }

func (k kvRepo) Get(ctx context.Context, name string) (string, error) {
	return k.GetValue(ctx, name)
}

// NewFakeService wires a Service over a FakeStore.
func NewFakeService(store *FakeStore) Service {
	return NewService(store, serverRepo{store}, kvRepo{store})
}
