package recommend

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ishankhire/gt-meal-planning/internal/models"
)

func formatMenu(items []models.FoodWithNutrition) string {
	if len(items) == 0 {
		return "(No items available)"
	}
	var b strings.Builder
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s (serving: %s) — %d cal, %dg protein, %dg carbs, %dg fat\n",
			i+1, item.Name, item.ServingSize, item.Calories, item.Protein, item.Carbs, item.Fat)
	}
	return strings.TrimRight(b.String(), "\n")
}

func profileBlock(goals models.RecommendationGoals, likedNames []string, appetiteLabel string) string {
	fitness := goals.FitnessGoal
	if fitness == "" {
		fitness = "general health"
	}
	appetite := goals.Appetite
	if appetite == "" {
		appetite = "medium"
	}
	taste := goals.Taste
	if taste == "" {
		taste = models.TasteBalanced
	}
	restrictions := goals.Restrictions
	if restrictions == "" {
		restrictions = "none"
	}

	tasteNote := ""
	if taste == models.TasteTasty {
		tasteNote = " (IMPORTANT: strongly prioritize items that taste great and that students love — nutrition is secondary to enjoyment)"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Student's profile:\n")
	fmt.Fprintf(&b, "- Daily calorie target: %d cal\n", goals.DailyCalories)
	fmt.Fprintf(&b, "- Daily protein target: %dg\n", goals.DailyProtein)
	fmt.Fprintf(&b, "- Goal: %s\n", fitness)
	fmt.Fprintf(&b, "- %s: %s\n", appetiteLabel, appetite)
	fmt.Fprintf(&b, "- Taste preference: %s%s\n", taste, tasteNote)
	fmt.Fprintf(&b, "- Dietary restrictions: %s", restrictions)
	if len(likedNames) > 0 {
		emphasis := " when possible"
		if taste == models.TasteTasty {
			emphasis = " HEAVILY"
		}
		fmt.Fprintf(&b, "\n- Preferred/liked items (prioritize these%s): %s", emphasis, strings.Join(likedNames, ", "))
	}
	return b.String()
}

func mealPrompt(items []models.FoodWithNutrition, goals models.RecommendationGoals, likedNames []string) string {
	return fmt.Sprintf(`You are a meal planning assistant for a college dining hall. A student wants recommendations for THIS MEAL based on their goals. Here are the available menu items with their per-serving nutrition:

%s

%s

Note: Disliked items have already been removed from the list above, so all items shown are acceptable.

Since this is ONE meal of the day, aim for roughly 1/3 of the daily targets unless the student's appetite suggests otherwise.

Rules:
- Quantities should be in common terms (cups, pieces, bowls, slices) not grams
- You can suggest multiple servings of the same item (e.g. "2 pieces" of chicken)
- Scale the nutrition numbers to match the suggested quantity
- The "extras" list should have about 4 items — include both add-ons that complement the meal plan AND alternative items/combinations the student could eat instead to hit similar calorie and protein targets
- Respect dietary restrictions strictly
- Round all numbers to whole values
- Return ONLY the JSON, no explanation`,
		formatMenu(items), profileBlock(goals, likedNames, "Appetite for this meal"))
}

func dayPrompt(breakfast, lunch, dinner []models.FoodWithNutrition, goals models.RecommendationGoals, likedNames []string) string {
	return fmt.Sprintf(`You are a meal planning assistant for a college dining hall. A student wants a FULL DAY meal plan — breakfast, lunch, AND dinner — that is varied and balanced across the whole day. Each meal has a DIFFERENT menu of available items.

=== BREAKFAST MENU ===
%s

=== LUNCH MENU ===
%s

=== DINNER MENU ===
%s

%s

CRITICAL RULES FOR VARIETY:
- Each meal should feature DIFFERENT main items — do NOT repeat the same protein or main dish across meals
- Distribute calories and protein across the day to hit the daily totals (not 1/3 per meal — a lighter breakfast and heavier lunch/dinner is fine)
- If an item appears in multiple meal menus (e.g. always-available items), use it in at most ONE meal
- Make each meal feel like a distinct, complete meal

For each meal, return a mealPlan (main items) and extras (4 add-ons or alternative swaps).

Return ONLY JSON. Round all numbers to whole values. Use common quantity terms (cups, pieces, bowls).`,
		formatMenu(breakfast), formatMenu(lunch), formatMenu(dinner),
		profileBlock(goals, likedNames, "General appetite"))
}

const plannedItemSchema = `{
  "type": "OBJECT",
  "properties": {
    "name": {"type": "STRING"},
    "quantity": {"type": "STRING"},
    "calories": {"type": "NUMBER"},
    "protein": {"type": "NUMBER"},
    "carbs": {"type": "NUMBER"},
    "fat": {"type": "NUMBER"}
  },
  "required": ["name", "quantity", "calories", "protein", "carbs", "fat"]
}`

const totalsSchema = `{
  "type": "OBJECT",
  "properties": {
    "calories": {"type": "NUMBER"},
    "protein": {"type": "NUMBER"},
    "carbs": {"type": "NUMBER"},
    "fat": {"type": "NUMBER"}
  },
  "required": ["calories", "protein", "carbs", "fat"]
}`

var mealSchema = json.RawMessage(fmt.Sprintf(`{
  "type": "OBJECT",
  "properties": {
    "mealPlan": {"type": "ARRAY", "items": %s},
    "mealPlanTotals": %s,
    "mealPlanReasoning": {"type": "STRING"},
    "extras": {"type": "ARRAY", "items": %s}
  },
  "required": ["mealPlan", "mealPlanTotals", "mealPlanReasoning", "extras"]
}`, plannedItemSchema, totalsSchema, plannedItemSchema))

// The per-meal block inside the day schema omits mealPlanReasoning: the day
// view shows plans, not narratives.
var dayMealSchema = fmt.Sprintf(`{
  "type": "OBJECT",
  "properties": {
    "mealPlan": {"type": "ARRAY", "items": %s},
    "mealPlanTotals": %s,
    "extras": {"type": "ARRAY", "items": %s}
  },
  "required": ["mealPlan", "mealPlanTotals", "extras"]
}`, plannedItemSchema, totalsSchema, plannedItemSchema)

var daySchema = json.RawMessage(fmt.Sprintf(`{
  "type": "OBJECT",
  "properties": {
    "breakfast": %s,
    "lunch": %s,
    "dinner": %s,
    "dayTotals": %s
  },
  "required": ["breakfast", "lunch", "dinner", "dayTotals"]
}`, dayMealSchema, dayMealSchema, dayMealSchema, totalsSchema))
