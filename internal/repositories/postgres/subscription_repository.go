package postgres

import (
	"context"
	"errors"

	"github.com/ishankhire/gt-meal-planning/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SubscriptionRepository struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepository(pool *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{pool: pool}
}

func (r *SubscriptionRepository) IsSubscribed(ctx context.Context, email string) (bool, error) {
	var optedIn bool
	err := r.pool.QueryRow(ctx,
		`SELECT opted_in FROM email_subscriptions WHERE email = $1`,
		email,
	).Scan(&optedIn)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return optedIn, nil
}

func (r *SubscriptionRepository) Set(ctx context.Context, email string, optedIn bool) error {
	query := `
        INSERT INTO email_subscriptions (email, opted_in, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (email) DO UPDATE SET
            opted_in = EXCLUDED.opted_in,
            updated_at = NOW()
    `
	_, err := r.pool.Exec(ctx, query, email, optedIn)
	return err
}

func (r *SubscriptionRepository) ListSubscribed(ctx context.Context) ([]models.DigestUser, error) {
	query := `
        SELECT s.email, COALESCE(u.name, '')
        FROM email_subscriptions s
        LEFT JOIN users u ON u.email = s.email
        WHERE s.opted_in
        ORDER BY s.email
    `
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.DigestUser
	for rows.Next() {
		var u models.DigestUser
		if err := rows.Scan(&u.Email, &u.Name); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
