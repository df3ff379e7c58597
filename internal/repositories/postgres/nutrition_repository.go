package postgres

import (
	"context"

	"github.com/ishankhire/gt-meal-planning/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NutritionRepository struct {
	pool *pgxpool.Pool
}

func NewNutritionRepository(pool *pgxpool.Pool) *NutritionRepository {
	return &NutritionRepository{pool: pool}
}

func (r *NutritionRepository) GetBatch(ctx context.Context, keys []string) (map[string]models.NutritionEstimate, error) {
	query := `
        SELECT food_key, calories, protein, carbs, fat, tags
        FROM nutrition_cache
        WHERE food_key = ANY($1)
    `
	rows, err := r.pool.Query(ctx, query, keys)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	estimates := make(map[string]models.NutritionEstimate)
	for rows.Next() {
		var key string
		var est models.NutritionEstimate
		err := rows.Scan(
			&key,
			&est.Calories,
			&est.Protein,
			&est.Carbs,
			&est.Fat,
			&est.Tags,
		)
		if err != nil {
			return nil, err
		}
		estimates[key] = est
	}
	return estimates, rows.Err()
}

func (r *NutritionRepository) Upsert(ctx context.Context, key string, estimate models.NutritionEstimate) error {
	query := `
        INSERT INTO nutrition_cache (food_key, calories, protein, carbs, fat, tags, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW())
        ON CONFLICT (food_key) DO UPDATE SET
            calories = EXCLUDED.calories,
            protein = EXCLUDED.protein,
            carbs = EXCLUDED.carbs,
            fat = EXCLUDED.fat,
            tags = EXCLUDED.tags,
            updated_at = NOW()
    `
	_, err := r.pool.Exec(ctx, query,
		key,
		estimate.Calories,
		estimate.Protein,
		estimate.Carbs,
		estimate.Fat,
		estimate.Tags,
	)
	return err
}

func (r *NutritionRepository) GetAll(ctx context.Context) (map[string]models.NutritionEstimate, error) {
	query := `SELECT food_key, calories, protein, carbs, fat, tags FROM nutrition_cache`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	estimates := make(map[string]models.NutritionEstimate)
	for rows.Next() {
		var key string
		var est models.NutritionEstimate
		err := rows.Scan(
			&key,
			&est.Calories,
			&est.Protein,
			&est.Carbs,
			&est.Fat,
			&est.Tags,
		)
		if err != nil {
			return nil, err
		}
		estimates[key] = est
	}
	return estimates, rows.Err()
}
