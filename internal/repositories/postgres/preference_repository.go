package postgres

import (
	"context"
	"errors"

	"github.com/ishankhire/gt-meal-planning/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PreferenceRepository struct {
	pool *pgxpool.Pool
}

func NewPreferenceRepository(pool *pgxpool.Pool) *PreferenceRepository {
	return &PreferenceRepository{pool: pool}
}

func (r *PreferenceRepository) Get(ctx context.Context, email string) (*models.Preferences, error) {
	query := `
        SELECT
            daily_calories, daily_protein, fitness_goal, appetite, taste, restrictions,
            vegetarian, vegan, eggless, gluten_free, no_dairy,
            high_calorie, low_calorie, protein_rich, low_fat, nutrient_rich
        FROM user_preferences
        WHERE email = $1
    `
	var p models.Preferences
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&p.Goals.DailyCalories,
		&p.Goals.DailyProtein,
		&p.Goals.FitnessGoal,
		&p.Goals.Appetite,
		&p.Goals.Taste,
		&p.Goals.Restrictions,
		&p.DietaryFilters.Vegetarian,
		&p.DietaryFilters.Vegan,
		&p.DietaryFilters.Eggless,
		&p.DietaryFilters.GlutenFree,
		&p.DietaryFilters.NoDairy,
		&p.NutritionFilters.HighCalorie,
		&p.NutritionFilters.LowCalorie,
		&p.NutritionFilters.ProteinRich,
		&p.NutritionFilters.LowFat,
		&p.NutritionFilters.NutrientRich,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PreferenceRepository) Upsert(ctx context.Context, email string, prefs models.Preferences) error {
	query := `
        INSERT INTO user_preferences (
            email, daily_calories, daily_protein, fitness_goal, appetite, taste, restrictions,
            vegetarian, vegan, eggless, gluten_free, no_dairy,
            high_calorie, low_calorie, protein_rich, low_fat, nutrient_rich, updated_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, NOW()
        )
        ON CONFLICT (email) DO UPDATE SET
            daily_calories = EXCLUDED.daily_calories,
            daily_protein = EXCLUDED.daily_protein,
            fitness_goal = EXCLUDED.fitness_goal,
            appetite = EXCLUDED.appetite,
            taste = EXCLUDED.taste,
            restrictions = EXCLUDED.restrictions,
            vegetarian = EXCLUDED.vegetarian,
            vegan = EXCLUDED.vegan,
            eggless = EXCLUDED.eggless,
            gluten_free = EXCLUDED.gluten_free,
            no_dairy = EXCLUDED.no_dairy,
            high_calorie = EXCLUDED.high_calorie,
            low_calorie = EXCLUDED.low_calorie,
            protein_rich = EXCLUDED.protein_rich,
            low_fat = EXCLUDED.low_fat,
            nutrient_rich = EXCLUDED.nutrient_rich,
            updated_at = NOW()
    `
	_, err := r.pool.Exec(ctx, query,
		email,
		prefs.Goals.DailyCalories,
		prefs.Goals.DailyProtein,
		prefs.Goals.FitnessGoal,
		prefs.Goals.Appetite,
		prefs.Goals.Taste,
		prefs.Goals.Restrictions,
		prefs.DietaryFilters.Vegetarian,
		prefs.DietaryFilters.Vegan,
		prefs.DietaryFilters.Eggless,
		prefs.DietaryFilters.GlutenFree,
		prefs.DietaryFilters.NoDairy,
		prefs.NutritionFilters.HighCalorie,
		prefs.NutritionFilters.LowCalorie,
		prefs.NutritionFilters.ProteinRich,
		prefs.NutritionFilters.LowFat,
		prefs.NutritionFilters.NutrientRich,
	)
	return err
}
