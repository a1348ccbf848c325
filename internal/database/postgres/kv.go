package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/birthmas-bot/birthmas/internal/domain"
)

// KVRepository implements the process-wide config table for PostgreSQL
type KVRepository struct {
	db *pgxpool.Pool
}

// NewKVRepository creates a new KVRepository
func NewKVRepository(db *pgxpool.Pool) *KVRepository {
	return &KVRepository{db: db}
}

// Get returns the value for a config key.
func (r *KVRepository) Get(ctx context.Context, name string) (string, error) {
	var value string
	err := r.db.QueryRow(ctx, `SELECT value FROM config WHERE name = $1`, name).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("%w: %s", domain.ErrConfigNotFound, name)
		}
		return "", fmt.Errorf("failed to get config entry: %w", err)
	}
	return value, nil
}
