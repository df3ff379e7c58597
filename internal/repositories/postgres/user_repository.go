package postgres

import (
	"context"
	"time"

	"github.com/ishankhire/gt-meal-planning/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository backs the users table: one row per known email, created
// lazily the first time the user touches an authenticated surface.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// FindOrCreate inserts the user if absent and refreshes the name when a
// non-empty one is provided.
func (r *UserRepository) FindOrCreate(ctx context.Context, email, name string) error {
	query := `
        INSERT INTO users (email, name, created_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (email) DO UPDATE
        SET name = CASE WHEN EXCLUDED.name <> '' THEN EXCLUDED.name ELSE users.name END`

	_, err := r.pool.Exec(ctx, query, email, name, time.Now().UTC())
	return err
}

func (r *UserRepository) Get(ctx context.Context, email string) (*models.DigestUser, error) {
	query := `SELECT email, COALESCE(name, '') FROM users WHERE email = $1`

	var user models.DigestUser
	if err := r.pool.QueryRow(ctx, query, email).Scan(&user.Email, &user.Name); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}
