package digest

import (
	"context"
	"sync"
	"time"

	"github.com/ishankhire/gt-meal-planning/internal/menu"
	"github.com/ishankhire/gt-meal-planning/internal/models"
	"github.com/ishankhire/gt-meal-planning/internal/nutrition"
	"github.com/ishankhire/gt-meal-planning/internal/recommend"
	"github.com/ishankhire/gt-meal-planning/internal/repositories"
	"github.com/lucsky/cuid"
	"github.com/rs/zerolog/log"
)

// Orchestrator assembles one user's full-day digest: tomorrow's three menus
// with nutrition attached, a single day-plan composition over all of them,
// and the rendered payload. Each leg degrades independently so one broken
// meal feed never blocks the digest.
type Orchestrator struct {
	source   menu.Source
	resolver *nutrition.Resolver
	composer recommend.Composer
	prefs    repositories.PreferenceRepository
	ratings  repositories.RatingRepository
}

func NewOrchestrator(
	source menu.Source,
	resolver *nutrition.Resolver,
	composer recommend.Composer,
	prefs repositories.PreferenceRepository,
	ratings repositories.RatingRepository,
) *Orchestrator {
	return &Orchestrator{
		source:   source,
		resolver: resolver,
		composer: composer,
		prefs:    prefs,
		ratings:  ratings,
	}
}

// BuildDigest composes the payload for one recipient and target date. It
// returns an error only when rendering itself fails; missing menus or a
// failed composition produce the fallback payload instead.
func (o *Orchestrator) BuildDigest(ctx context.Context, user models.DigestUser, targetDate time.Time) (*models.DigestPayload, error) {
	goals := models.DefaultGoals()
	if prefs, err := o.prefs.Get(ctx, user.Email); err != nil {
		log.Warn().Err(err).Str("email", user.Email).Msg("preference lookup failed, using defaults")
	} else if prefs != nil {
		goals = prefs.Goals
	}

	liked, err := o.ratings.GetLiked(ctx, user.Email)
	if err != nil {
		log.Warn().Err(err).Str("email", user.Email).Msg("liked foods lookup failed")
		liked = nil
	}

	meals := [3]models.MealType{models.MealBreakfast, models.MealLunch, models.MealDinner}
	var menus [3][]models.FoodWithNutrition
	var wg sync.WaitGroup
	for i, meal := range meals {
		wg.Add(1)
		go func(i int, meal models.MealType) {
			defer wg.Done()
			menus[i] = o.mealWithNutrition(ctx, targetDate, meal)
		}(i, meal)
	}
	wg.Wait()

	var plan *models.DayPlan
	if len(menus[0]) == 0 && len(menus[1]) == 0 && len(menus[2]) == 0 {
		log.Info().Str("email", user.Email).Str("date", targetDate.Format("2006-01-02")).
			Msg("no menu data for target date, sending fallback digest")
	} else {
		plan, err = o.composer.ComposeDay(ctx, menus[0], menus[1], menus[2], goals, liked)
		if err != nil {
			log.Error().Err(err).Str("email", user.Email).Msg("day composition failed, sending fallback digest")
			plan = nil
		}
	}

	html, err := renderHTML(user.Name, targetDate, plan)
	if err != nil {
		return nil, err
	}

	return &models.DigestPayload{
		ID:          cuid.New(),
		Recipient:   user.Email,
		Subject:     "Your NAV Meal Plan for " + targetDate.Format("Monday, January 2"),
		HTMLBody:    html,
		TargetDate:  targetDate,
		Plan:        plan,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// mealWithNutrition fetches one meal's menu and attaches estimates the way
// the browsing path does. Any failure degrades the leg to an empty slice;
// foods the resolver could not estimate keep zero macros rather than being
// dropped, matching the catalog's "absent means unknown" reading.
func (o *Orchestrator) mealWithNutrition(ctx context.Context, date time.Time, meal models.MealType) []models.FoodWithNutrition {
	entries, err := o.source.FetchDay(ctx, date, meal)
	if err != nil {
		log.Warn().Err(err).Str("meal", string(meal)).Msg("menu fetch failed for digest")
		return nil
	}

	var foods []models.Food
	for _, entry := range entries {
		if entry.IsSectionTitle || entry.Food == nil {
			continue
		}
		foods = append(foods, *entry.Food)
	}
	if len(foods) == 0 {
		return nil
	}

	estimates, err := o.resolver.ResolveBatch(ctx, foods)
	if err != nil {
		log.Warn().Err(err).Str("meal", string(meal)).Msg("nutrition resolve failed for digest")
		estimates = map[string]models.NutritionEstimate{}
	}

	out := make([]models.FoodWithNutrition, 0, len(foods))
	for _, food := range foods {
		item := models.FoodWithNutrition{
			Name:        food.Name,
			ServingSize: food.ServingSize,
		}
		if est, ok := estimates[models.NormalizeKey(food.Name)]; ok {
			item.Calories = est.Calories
			item.Protein = est.Protein
			item.Carbs = est.Carbs
			item.Fat = est.Fat
		}
		out = append(out, item)
	}
	return out
}
