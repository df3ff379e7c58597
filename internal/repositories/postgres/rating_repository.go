package postgres

import (
	"context"

	"github.com/ishankhire/gt-meal-planning/internal/models"
	"github.com/ishankhire/gt-meal-planning/internal/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RatingRepository struct {
	pool *pgxpool.Pool
}

func NewRatingRepository(pool *pgxpool.Pool) *RatingRepository {
	return &RatingRepository{pool: pool}
}

func (r *RatingRepository) GetAll(ctx context.Context, email string) (map[string]models.Rating, error) {
	query := `SELECT food_key, rating FROM food_ratings WHERE email = $1`
	rows, err := r.pool.Query(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ratings := make(map[string]models.Rating)
	for rows.Next() {
		var key, rating string
		if err := rows.Scan(&key, &rating); err != nil {
			return nil, err
		}
		ratings[key] = models.Rating(rating)
	}
	return ratings, rows.Err()
}

func (r *RatingRepository) Set(ctx context.Context, email, foodKey string, rating models.Rating) error {
	if rating == models.RatingNeutral {
		_, err := r.pool.Exec(ctx,
			`DELETE FROM food_ratings WHERE email = $1 AND food_key = $2`,
			email, foodKey,
		)
		return err
	}

	query := `
        INSERT INTO food_ratings (email, food_key, rating, updated_at)
        VALUES ($1, $2, $3, NOW())
        ON CONFLICT (email, food_key) DO UPDATE SET
            rating = EXCLUDED.rating,
            updated_at = NOW()
    `
	_, err := r.pool.Exec(ctx, query, email, foodKey, string(rating))
	return err
}

func (r *RatingRepository) GetLiked(ctx context.Context, email string) ([]string, error) {
	query := `SELECT food_key FROM food_ratings WHERE email = $1 AND rating = 'like'`
	rows, err := r.pool.Query(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var liked []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		liked = append(liked, key)
	}
	return liked, rows.Err()
}

func (r *RatingRepository) Dump(ctx context.Context) ([]repositories.RatingRecord, error) {
	query := `SELECT email, food_key, rating FROM food_ratings ORDER BY email, food_key`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []repositories.RatingRecord
	for rows.Next() {
		var rec repositories.RatingRecord
		var rating string
		if err := rows.Scan(&rec.Email, &rec.FoodKey, &rating); err != nil {
			return nil, err
		}
		rec.Rating = models.Rating(rating)
		records = append(records, rec)
	}
	return records, rows.Err()
}
