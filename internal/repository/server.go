package repository

import (
	"context"

	"github.com/birthmas-bot/birthmas/internal/domain"
)

// Server defines the interface for server config persistence.
// Delete cascades to the owned people rows at the storage layer.
type Server interface {
	Upsert(ctx context.Context, cfg domain.ServerConfig) error
	Get(ctx context.Context, serverID string) (*domain.ServerConfig, error)
	List(ctx context.Context) ([]domain.ServerConfig, error)
	Delete(ctx context.Context, serverID string) (*domain.ServerConfig, error)
}
