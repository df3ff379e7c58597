package repositories

import (
	"context"

	"github.com/ishankhire/gt-meal-planning/internal/models"
)

// NutritionRepository is the cache-aside store behind the nutrition resolver.
// Writes are last-write-wins upserts keyed by normalized food name; entries
// are never evicted.
type NutritionRepository interface {
	GetBatch(ctx context.Context, keys []string) (map[string]models.NutritionEstimate, error)
	Upsert(ctx context.Context, key string, estimate models.NutritionEstimate) error
	GetAll(ctx context.Context) (map[string]models.NutritionEstimate, error)
}

// RatingRecord is one stored (user, food) rating, used by the export command.
type RatingRecord struct {
	Email   string
	FoodKey string
	Rating  models.Rating
}

type RatingRepository interface {
	GetAll(ctx context.Context, email string) (map[string]models.Rating, error)
	// Set stores the rating; RatingNeutral deletes the row.
	Set(ctx context.Context, email, foodKey string, rating models.Rating) error
	GetLiked(ctx context.Context, email string) ([]string, error)
	Dump(ctx context.Context) ([]RatingRecord, error)
}

type PreferenceRepository interface {
	Get(ctx context.Context, email string) (*models.Preferences, error)
	Upsert(ctx context.Context, email string, prefs models.Preferences) error
}

// UserRepository keeps one row per known email; users are created lazily on
// first authenticated action.
type UserRepository interface {
	FindOrCreate(ctx context.Context, email, name string) error
	Get(ctx context.Context, email string) (*models.DigestUser, error)
}

type SubscriptionRepository interface {
	IsSubscribed(ctx context.Context, email string) (bool, error)
	Set(ctx context.Context, email string, optedIn bool) error
	ListSubscribed(ctx context.Context) ([]models.DigestUser, error)
}
