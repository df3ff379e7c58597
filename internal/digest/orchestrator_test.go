package digest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ishankhire/gt-meal-planning/internal/models"
	"github.com/ishankhire/gt-meal-planning/internal/nutrition"
	"github.com/ishankhire/gt-meal-planning/internal/recommend"
	"github.com/ishankhire/gt-meal-planning/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	entries map[models.MealType][]models.MenuEntry
	err     error
}

func (s *stubSource) FetchDay(_ context.Context, _ time.Time, meal models.MealType) ([]models.MenuEntry, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.entries[meal], nil
}

type stubStore struct{}

func (stubStore) GetBatch(context.Context, []string) (map[string]models.NutritionEstimate, error) {
	return map[string]models.NutritionEstimate{
		"scrambled eggs": {Calories: 180, Protein: 12, Carbs: 2, Fat: 12},
	}, nil
}
func (stubStore) Upsert(context.Context, string, models.NutritionEstimate) error { return nil }
func (stubStore) GetAll(context.Context) (map[string]models.NutritionEstimate, error) {
	return nil, nil
}

type stubEstimator struct{}

func (stubEstimator) Configured() error { return nil }
func (stubEstimator) Estimate(_ context.Context, items []nutrition.EstimateRequest) ([]nutrition.RawEstimate, error) {
	out := make([]nutrition.RawEstimate, len(items))
	for i := range items {
		out[i] = nutrition.RawEstimate{Calories: 100, Protein: 5, Tags: []string{}}
	}
	return out, nil
}

type stubComposer struct {
	day  *models.DayPlan
	err  error
	seen struct {
		breakfast, lunch, dinner []models.FoodWithNutrition
		called                   bool
	}
}

func (c *stubComposer) ComposeMeal(context.Context, []models.FoodWithNutrition, models.RecommendationGoals, []string) (*models.MealPlan, error) {
	return nil, errors.New("not used")
}

func (c *stubComposer) ComposeDay(_ context.Context, b, l, d []models.FoodWithNutrition, _ models.RecommendationGoals, _ []string) (*models.DayPlan, error) {
	c.seen.called = true
	c.seen.breakfast, c.seen.lunch, c.seen.dinner = b, l, d
	return c.day, c.err
}

type stubPrefs struct {
	prefs *models.Preferences
}

func (s stubPrefs) Get(context.Context, string) (*models.Preferences, error) { return s.prefs, nil }
func (s stubPrefs) Upsert(context.Context, string, models.Preferences) error { return nil }

type stubRatings struct{}

func (stubRatings) GetAll(context.Context, string) (map[string]models.Rating, error) {
	return nil, nil
}
func (stubRatings) Set(context.Context, string, string, models.Rating) error { return nil }
func (stubRatings) GetLiked(context.Context, string) ([]string, error) {
	return []string{"scrambled eggs"}, nil
}
func (stubRatings) Dump(context.Context) ([]repositories.RatingRecord, error) {
	return nil, nil
}

func mealMenu(names ...string) []models.MenuEntry {
	entries := []models.MenuEntry{{IsSectionTitle: true, Text: "Home Zone"}}
	for _, name := range names {
		f := models.Food{Name: name, ServingSize: "1 serving"}
		entries = append(entries, models.MenuEntry{Food: &f})
	}
	return entries
}

func sampleDay() *models.DayPlan {
	meal := func(name string) models.MealPlan {
		return models.MealPlan{
			MealPlan: []models.PlannedItem{{Name: name, Quantity: "1 serving", Calories: 400, Protein: 30}},
			Totals:   models.NutritionTotals{Calories: 400, Protein: 30},
		}
	}
	return &models.DayPlan{
		Breakfast: meal("Scrambled Eggs"),
		Lunch:     meal("Falafel Wrap"),
		Dinner:    meal("Grilled Salmon"),
		DayTotals: models.NutritionTotals{Calories: 1200, Protein: 90},
	}
}

func newTestOrchestrator(source *stubSource, composer *stubComposer) *Orchestrator {
	resolver := nutrition.NewResolver(stubStore{}, stubEstimator{})
	return NewOrchestrator(source, resolver, composer, stubPrefs{}, stubRatings{})
}

func TestBuildDigestComposesWhenMenusExist(t *testing.T) {
	source := &stubSource{entries: map[models.MealType][]models.MenuEntry{
		models.MealBreakfast: mealMenu("Scrambled Eggs"),
		models.MealLunch:     mealMenu("Falafel Wrap"),
		models.MealDinner:    mealMenu("Grilled Salmon"),
	}}
	composer := &stubComposer{day: sampleDay()}
	o := newTestOrchestrator(source, composer)

	target := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	payload, err := o.BuildDigest(context.Background(), models.DigestUser{Email: "buzz@gatech.edu", Name: "Buzz"}, target)
	require.NoError(t, err)

	assert.True(t, composer.seen.called)
	require.Len(t, composer.seen.breakfast, 1)
	// Cached nutrition rides along to the composer.
	assert.Equal(t, 180, composer.seen.breakfast[0].Calories)

	assert.False(t, payload.Fallback())
	assert.NotEmpty(t, payload.ID)
	assert.Equal(t, "buzz@gatech.edu", payload.Recipient)
	assert.Equal(t, "Your NAV Meal Plan for Tuesday, September 1", payload.Subject)
	assert.Contains(t, payload.HTMLBody, "Grilled Salmon")
	assert.Contains(t, payload.HTMLBody, "Hey Buzz!")
}

func TestBuildDigestFallbackWhenAllMenusEmpty(t *testing.T) {
	source := &stubSource{err: errors.New("feed down")}
	composer := &stubComposer{day: sampleDay()}
	o := newTestOrchestrator(source, composer)

	payload, err := o.BuildDigest(context.Background(), models.DigestUser{Email: "buzz@gatech.edu"}, time.Now())
	require.NoError(t, err)

	assert.False(t, composer.seen.called, "composer is skipped when every leg is empty")
	assert.True(t, payload.Fallback())
	assert.Contains(t, payload.HTMLBody, "No menu data available for tomorrow yet")
}

func TestBuildDigestOneLegFailureDoesNotBlock(t *testing.T) {
	source := &stubSource{entries: map[models.MealType][]models.MenuEntry{
		// Breakfast missing entirely; lunch and dinner present.
		models.MealLunch:  mealMenu("Falafel Wrap"),
		models.MealDinner: mealMenu("Grilled Salmon"),
	}}
	composer := &stubComposer{day: sampleDay()}
	o := newTestOrchestrator(source, composer)

	payload, err := o.BuildDigest(context.Background(), models.DigestUser{Email: "buzz@gatech.edu"}, time.Now())
	require.NoError(t, err)

	assert.True(t, composer.seen.called)
	assert.Empty(t, composer.seen.breakfast)
	assert.Len(t, composer.seen.lunch, 1)
	assert.False(t, payload.Fallback())
}

func TestBuildDigestComposerFailureYieldsFallback(t *testing.T) {
	source := &stubSource{entries: map[models.MealType][]models.MenuEntry{
		models.MealBreakfast: mealMenu("Scrambled Eggs"),
	}}
	composer := &stubComposer{err: recommend.ErrNoRecommendation}
	o := newTestOrchestrator(source, composer)

	payload, err := o.BuildDigest(context.Background(), models.DigestUser{Email: "buzz@gatech.edu"}, time.Now())
	require.NoError(t, err, "a failed composition degrades, it does not error")
	assert.True(t, payload.Fallback())
}

func TestRenderHTMLPlanLayout(t *testing.T) {
	html, err := renderHTML("Buzz", time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), sampleDay())
	require.NoError(t, err)

	assert.Contains(t, html, "NAV Meal Planner")
	assert.Contains(t, html, "Tuesday, September 1, 2026")
	assert.Contains(t, html, "Breakfast")
	assert.Contains(t, html, "Falafel Wrap")
	assert.Contains(t, html, "Full Day Totals:")
	assert.Contains(t, html, "1200 cal")
}

func TestRenderHTMLAnonymousGreeting(t *testing.T) {
	html, err := renderHTML("", time.Now(), nil)
	require.NoError(t, err)
	assert.Contains(t, html, "Hey there!")
}
