package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/birthmas-bot/birthmas/internal/domain"
)

// PersonRepository implements the person repository for PostgreSQL
type PersonRepository struct {
	db *pgxpool.Pool
}

// NewPersonRepository creates a new PersonRepository
func NewPersonRepository(db *pgxpool.Pool) *PersonRepository {
	return &PersonRepository{db: db}
}

// Upsert inserts a new person or updates the stored birthdate in place,
// keyed on the unique (user_id, server_id) pair.
func (r *PersonRepository) Upsert(ctx context.Context, person *domain.Person) error {
	if person.ID == uuid.Nil {
		person.ID = uuid.New()
	}

	query := `
		INSERT INTO people (id, user_id, birthdate, server_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, server_id) DO UPDATE
		SET birthdate = EXCLUDED.birthdate
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query, person.ID, person.UserID, person.Birthdate, person.ServerID).Scan(&person.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert person: %w", err)
	}
	return nil
}

// GetByUserAndServer fetches a single birthday record.
func (r *PersonRepository) GetByUserAndServer(ctx context.Context, userID, serverID string) (*domain.Person, error) {
	query := `
		SELECT id, user_id, birthdate, server_id
		FROM people
		WHERE user_id = $1 AND server_id = $2
	`
	var p domain.Person
	err := r.db.QueryRow(ctx, query, userID, serverID).Scan(&p.ID, &p.UserID, &p.Birthdate, &p.ServerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBirthdayNotFound
		}
		return nil, fmt.Errorf("failed to get person: %w", err)
	}
	return &p, nil
}

// ListAll returns every recorded birthday. Full-table scans are acceptable
// at this bot's scale (tens to low hundreds of rows).
func (r *PersonRepository) ListAll(ctx context.Context) ([]domain.Person, error) {
	query := `SELECT id, user_id, birthdate, server_id FROM people`
	return r.queryPeople(ctx, query)
}

// ListByServer returns the birthdays owned by one server config.
func (r *PersonRepository) ListByServer(ctx context.Context, serverID string) ([]domain.Person, error) {
	query := `
		SELECT id, user_id, birthdate, server_id
		FROM people
		WHERE server_id = $1
	`
	return r.queryPeople(ctx, query, serverID)
}

// ListByMonthDay returns every person whose stored month and day match,
// regardless of the stored (sentinel) year.
func (r *PersonRepository) ListByMonthDay(ctx context.Context, month time.Month, day int) ([]domain.Person, error) {
	query := `
		SELECT id, user_id, birthdate, server_id
		FROM people
		WHERE EXTRACT(MONTH FROM birthdate) = $1 AND EXTRACT(DAY FROM birthdate) = $2
	`
	return r.queryPeople(ctx, query, int(month), day)
}

// DeleteByUserAndServer removes a birthday and returns the removed row,
// or nil when no row existed.
func (r *PersonRepository) DeleteByUserAndServer(ctx context.Context, userID, serverID string) (*domain.Person, error) {
	query := `
		DELETE FROM people
		WHERE user_id = $1 AND server_id = $2
		RETURNING id, user_id, birthdate, server_id
	`
	var p domain.Person
	err := r.db.QueryRow(ctx, query, userID, serverID).Scan(&p.ID, &p.UserID, &p.Birthdate, &p.ServerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to delete person: %w", err)
	}
	return &p, nil
}

func (r *PersonRepository) queryPeople(ctx context.Context, query string, args ...any) ([]domain.Person, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query people: %w", err)
	}
	defer rows.Close()

	var people []domain.Person
	for rows.Next() {
		var p domain.Person
		if err := rows.Scan(&p.ID, &p.UserID, &p.Birthdate, &p.ServerID); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read people rows: %w", err)
	}
	return people, nil
}
