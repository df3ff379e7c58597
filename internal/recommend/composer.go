package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/ishankhire/gt-meal-planning/internal/gemini"
	"github.com/ishankhire/gt-meal-planning/internal/models"
	"github.com/rs/zerolog/log"
)

// ErrNoRecommendation is returned whenever a plan cannot be produced: the
// reasoning service is unreachable, misconfigured, or answered outside the
// schema. A partial or invented plan is never an acceptable substitute.
var ErrNoRecommendation = errors.New("could not generate recommendation")

// Composer produces goal-aware plans from the available items of one meal or
// of all three meals of a day.
type Composer interface {
	ComposeMeal(ctx context.Context, items []models.FoodWithNutrition, goals models.RecommendationGoals, likedNames []string) (*models.MealPlan, error)
	ComposeDay(ctx context.Context, breakfast, lunch, dinner []models.FoodWithNutrition, goals models.RecommendationGoals, likedNames []string) (*models.DayPlan, error)
}

// GeminiComposer delegates the creative combination step to the reasoning
// service, constrained by a strict output schema, and validates everything
// that comes back.
type GeminiComposer struct {
	client   *gemini.Client
	validate *validator.Validate
}

func NewGeminiComposer(client *gemini.Client) *GeminiComposer {
	return &GeminiComposer{
		client:   client,
		validate: validator.New(),
	}
}

// Wire types: the model may answer with fractional numbers despite being
// asked for whole values, so decode as floats and round.
type wireItem struct {
	Name     string  `json:"name"`
	Quantity string  `json:"quantity"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

type wireTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

type wireMeal struct {
	MealPlan  []wireItem `json:"mealPlan"`
	Totals    wireTotals `json:"mealPlanTotals"`
	Reasoning string     `json:"mealPlanReasoning"`
	Extras    []wireItem `json:"extras"`
}

type wireDay struct {
	Breakfast wireMeal   `json:"breakfast"`
	Lunch     wireMeal   `json:"lunch"`
	Dinner    wireMeal   `json:"dinner"`
	DayTotals wireTotals `json:"dayTotals"`
}

func (c *GeminiComposer) ComposeMeal(ctx context.Context, items []models.FoodWithNutrition, goals models.RecommendationGoals, likedNames []string) (*models.MealPlan, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no menu items available", ErrNoRecommendation)
	}
	if err := c.client.Configured(); err != nil {
		return nil, err
	}

	prompt := mealPrompt(items, goals, likedNames)

	var wire wireMeal
	if err := c.client.GenerateJSON(ctx, prompt, 0.3, mealSchema, &wire); err != nil {
		log.Error().Err(err).Msg("meal composition call failed")
		return nil, fmt.Errorf("%w: %v", ErrNoRecommendation, err)
	}

	plan := convertMeal(wire)
	if len(plan.MealPlan) == 0 {
		return nil, fmt.Errorf("%w: response contained no items", ErrNoRecommendation)
	}
	if err := c.validate.Struct(plan); err != nil {
		return nil, fmt.Errorf("%w: response failed schema validation: %v", ErrNoRecommendation, err)
	}
	checkTotals("meal", plan)
	return &plan, nil
}

func (c *GeminiComposer) ComposeDay(ctx context.Context, breakfast, lunch, dinner []models.FoodWithNutrition, goals models.RecommendationGoals, likedNames []string) (*models.DayPlan, error) {
	if err := c.client.Configured(); err != nil {
		return nil, err
	}

	prompt := dayPrompt(breakfast, lunch, dinner, goals, likedNames)

	var wire wireDay
	if err := c.client.GenerateJSON(ctx, prompt, 0.3, daySchema, &wire); err != nil {
		log.Error().Err(err).Msg("day composition call failed")
		return nil, fmt.Errorf("%w: %v", ErrNoRecommendation, err)
	}

	day := models.DayPlan{
		Breakfast: convertMeal(wire.Breakfast),
		Lunch:     convertMeal(wire.Lunch),
		Dinner:    convertMeal(wire.Dinner),
		DayTotals: convertTotals(wire.DayTotals),
	}
	if err := c.validate.Struct(day); err != nil {
		return nil, fmt.Errorf("%w: response failed schema validation: %v", ErrNoRecommendation, err)
	}
	// A single meal may come back empty when its menu had nothing to offer;
	// only a day with no items at all is a failed composition.
	if len(day.Breakfast.MealPlan) == 0 && len(day.Lunch.MealPlan) == 0 && len(day.Dinner.MealPlan) == 0 {
		return nil, fmt.Errorf("%w: response contained no items", ErrNoRecommendation)
	}
	if err := ValidateDayVariety(day); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoRecommendation, err)
	}
	for _, meal := range day.Meals() {
		checkTotals(meal.Label, meal.Plan)
	}
	return &day, nil
}

// ValidateDayVariety enforces the dedup policy post-hoc: an item name may
// appear in the mealPlan of at most one of the day's three meals.
func ValidateDayVariety(day models.DayPlan) error {
	seen := make(map[string]string)
	for _, meal := range day.Meals() {
		for _, item := range meal.Plan.MealPlan {
			key := models.NormalizeKey(item.Name)
			if prev, ok := seen[key]; ok && prev != meal.Label {
				return fmt.Errorf("item %q planned for both %s and %s", item.Name, prev, meal.Label)
			}
			seen[key] = meal.Label
		}
	}
	return nil
}

// checkTotals compares the composer's reported totals against the sum of
// line items. Mismatches are logged, not rejected: the totals shown to the
// user stay the composer's own figures.
func checkTotals(label string, plan models.MealPlan) {
	sum := plan.SumLineItems()
	if sum != plan.Totals {
		log.Warn().
			Str("meal", label).
			Interface("reported", plan.Totals).
			Interface("computed", sum).
			Msg("composer totals differ from line item sum")
	}
}

func convertMeal(w wireMeal) models.MealPlan {
	return models.MealPlan{
		MealPlan:  convertItems(w.MealPlan),
		Totals:    convertTotals(w.Totals),
		Reasoning: w.Reasoning,
		Extras:    convertItems(w.Extras),
	}
}

func convertItems(items []wireItem) []models.PlannedItem {
	out := make([]models.PlannedItem, len(items))
	for i, item := range items {
		out[i] = models.PlannedItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Calories: int(math.Round(item.Calories)),
			Protein:  int(math.Round(item.Protein)),
			Carbs:    int(math.Round(item.Carbs)),
			Fat:      int(math.Round(item.Fat)),
		}
	}
	return out
}

func convertTotals(t wireTotals) models.NutritionTotals {
	return models.NutritionTotals{
		Calories: int(math.Round(t.Calories)),
		Protein:  int(math.Round(t.Protein)),
		Carbs:    int(math.Round(t.Carbs)),
		Fat:      int(math.Round(t.Fat)),
	}
}
