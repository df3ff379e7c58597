package models

import "strings"

// Dietary icon names as they appear in the menu feed.
const (
	IconVegan        = "Vegan"
	IconVegetarian   = "Vegetarian"
	IconEggsAllergen = "Eggs Allergen"
	IconGluten       = "Gluten"
	IconMilk         = "Milk"
)

// Nutritional tag vocabulary assigned by the estimator.
const (
	TagHighCalorie  = "High calorie"
	TagLowCalorie   = "Low calorie"
	TagProteinRich  = "Protein rich"
	TagLowFat       = "Low fat"
	TagNutrientRich = "Nutrient-rich"
)

// Food is a single dining-hall food as published by the menu feed. Identity
// is the normalized name, not the feed's numeric id: ids differ between live
// and injected items and are not stable across fetches.
type Food struct {
	Name        string   `json:"name"`
	ServingSize string   `json:"serving_size"`
	Ingredients string   `json:"ingredients,omitempty"`
	Icons       []string `json:"icons,omitempty"`
}

// HasIcon reports whether the feed tagged the food with the given dietary icon.
func (f Food) HasIcon(name string) bool {
	for _, icon := range f.Icons {
		if icon == name {
			return true
		}
	}
	return false
}

// NormalizeKey canonicalizes a food name into its cache key. Two foods with
// equal keys are the same nutritional entity system-wide. Idempotent.
func NormalizeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NutritionEstimate holds per-serving macros, rounded to whole units before
// storage, plus zero or more tags from the fixed vocabulary above.
type NutritionEstimate struct {
	Calories int      `json:"calories"`
	Protein  int      `json:"protein"`
	Carbs    int      `json:"carbs"`
	Fat      int      `json:"fat"`
	Tags     []string `json:"tags"`
}

// HasTag reports whether the estimate carries the given nutritional tag.
func (n NutritionEstimate) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// FoodWithNutrition is the composer-facing view of a menu item: the food
// plus its resolved per-serving macros.
type FoodWithNutrition struct {
	Name        string `json:"name"`
	Calories    int    `json:"calories"`
	Protein     int    `json:"protein"`
	Carbs       int    `json:"carbs"`
	Fat         int    `json:"fat"`
	ServingSize string `json:"servingSize"`
}
