package repository

import (
	"context"
	"time"

	"github.com/birthmas-bot/birthmas/internal/domain"
)

// Person defines the interface for birthday persistence.
// A (user_id, server_id) pair is unique; Upsert creates on first write and
// updates the stored date in place afterwards.
type Person interface {
	Upsert(ctx context.Context, person *domain.Person) error
	GetByUserAndServer(ctx context.Context, userID, serverID string) (*domain.Person, error)
	ListAll(ctx context.Context) ([]domain.Person, error)
	ListByServer(ctx context.Context, serverID string) ([]domain.Person, error)
	ListByMonthDay(ctx context.Context, month time.Month, day int) ([]domain.Person, error)
	DeleteByUserAndServer(ctx context.Context, userID, serverID string) (*domain.Person, error)
}
