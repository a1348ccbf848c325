package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/birthmas-bot/birthmas/internal/domain"
)

// ServerRepository implements the server config repository for PostgreSQL
type ServerRepository struct {
	db *pgxpool.Pool
}

// NewServerRepository creates a new ServerRepository
func NewServerRepository(db *pgxpool.Pool) *ServerRepository {
	return &ServerRepository{db: db}
}

// Upsert creates or updates a server config. Idempotent.
func (r *ServerRepository) Upsert(ctx context.Context, cfg domain.ServerConfig) error {
	query := `
		INSERT INTO server_configs (server_id, announcement_channel_id, give_role, role_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (server_id) DO UPDATE
		SET announcement_channel_id = EXCLUDED.announcement_channel_id,
		    give_role = EXCLUDED.give_role,
		    role_id = EXCLUDED.role_id
	`
	_, err := r.db.Exec(ctx, query, cfg.ServerID, cfg.AnnouncementChannelID, cfg.GiveRole, cfg.RoleID)
	if err != nil {
		return fmt.Errorf("failed to upsert server config: %w", err)
	}
	return nil
}

// Get fetches one server config.
func (r *ServerRepository) Get(ctx context.Context, serverID string) (*domain.ServerConfig, error) {
	query := `
		SELECT server_id, announcement_channel_id, give_role, role_id
		FROM server_configs
		WHERE server_id = $1
	`
	var cfg domain.ServerConfig
	err := r.db.QueryRow(ctx, query, serverID).Scan(&cfg.ServerID, &cfg.AnnouncementChannelID, &cfg.GiveRole, &cfg.RoleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrServerNotFound
		}
		return nil, fmt.Errorf("failed to get server config: %w", err)
	}
	return &cfg, nil
}

// List returns every configured server.
func (r *ServerRepository) List(ctx context.Context) ([]domain.ServerConfig, error) {
	query := `
		SELECT server_id, announcement_channel_id, give_role, role_id
		FROM server_configs
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query server configs: %w", err)
	}
	defer rows.Close()

	var configs []domain.ServerConfig
	for rows.Next() {
		var cfg domain.ServerConfig
		if err := rows.Scan(&cfg.ServerID, &cfg.AnnouncementChannelID, &cfg.GiveRole, &cfg.RoleID); err != nil {
			return nil, fmt.Errorf("failed to scan server config: %w", err)
		}
		configs = append(configs, cfg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read server config rows: %w", err)
	}
	return configs, nil
}

// Delete removes a server config and returns the removed row, or nil when
// absent. The owned people rows cascade at the schema level.
func (r *ServerRepository) Delete(ctx context.Context, serverID string) (*domain.ServerConfig, error) {
	query := `
		DELETE FROM server_configs
		WHERE server_id = $1
		RETURNING server_id, announcement_channel_id, give_role, role_id
	`
	var cfg domain.ServerConfig
	err := r.db.QueryRow(ctx, query, serverID).Scan(&cfg.ServerID, &cfg.AnnouncementChannelID, &cfg.GiveRole, &cfg.RoleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to delete server config: %w", err)
	}
	return &cfg, nil
}
