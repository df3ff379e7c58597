package catalog

import "github.com/ishankhire/gt-meal-planning/internal/models"

// DislikedCategory is the synthetic trailing section that collects foods the
// user rated down. It appears only when non-empty.
const DislikedCategory = "Disliked Items"

// DefaultCategory buckets foods seen before the first section title.
const DefaultCategory = "Other"

// Section is one display group of the built catalog, in category encounter
// order with liked items partitioned to the front.
type Section struct {
	Category string        `json:"category"`
	Items    []models.Food `json:"items"`
}

// Build turns the raw section-grouped menu into the display-ready catalog:
// foods are bucketed under the most recently seen section title, dietary and
// nutrition filters are applied per food, disliked foods move to a trailing
// section, and each section is stably partitioned with liked foods first.
// Deterministic for identical inputs.
func Build(
	entries []models.MenuEntry,
	dietary models.DietaryFilters,
	nutrition models.NutritionFilters,
	estimates map[string]models.NutritionEstimate,
	ratings map[string]models.Rating,
) []Section {
	var sections []Section
	index := make(map[string]int)
	var disliked []models.Food

	category := DefaultCategory
	for _, entry := range entries {
		if entry.IsSectionTitle {
			category = entry.Text
			continue
		}
		if entry.Food == nil {
			continue
		}
		food := *entry.Food
		if !Passes(food, dietary, nutrition, estimates) {
			continue
		}

		if ratings[models.NormalizeKey(food.Name)] == models.RatingDislike {
			disliked = append(disliked, food)
			continue
		}

		i, ok := index[category]
		if !ok {
			i = len(sections)
			index[category] = i
			sections = append(sections, Section{Category: category})
		}
		sections[i].Items = append(sections[i].Items, food)
	}

	for i := range sections {
		sections[i].Items = likedFirst(sections[i].Items, ratings)
	}

	if len(disliked) > 0 {
		sections = append(sections, Section{Category: DislikedCategory, Items: disliked})
	}
	return sections
}

// Passes evaluates the declarative filters for one food, independent of any
// other food. Dietary filters AND-exclude; nutrition filters OR-include.
// A food without a resolved estimate fails whenever a nutrition filter is
// active: pending foods are excluded, not provisionally included.
func Passes(
	food models.Food,
	dietary models.DietaryFilters,
	nutrition models.NutritionFilters,
	estimates map[string]models.NutritionEstimate,
) bool {
	if dietary.Vegan && !food.HasIcon(models.IconVegan) {
		return false
	}
	// Vegan implies vegetarian.
	if dietary.Vegetarian && !food.HasIcon(models.IconVegetarian) && !food.HasIcon(models.IconVegan) {
		return false
	}
	if dietary.Eggless && food.HasIcon(models.IconEggsAllergen) {
		return false
	}
	if dietary.GlutenFree && food.HasIcon(models.IconGluten) {
		return false
	}
	if dietary.NoDairy && food.HasIcon(models.IconMilk) {
		return false
	}

	selected := nutrition.SelectedTags()
	if len(selected) == 0 {
		return true
	}
	est, ok := estimates[models.NormalizeKey(food.Name)]
	if !ok {
		return false
	}
	for _, tag := range selected {
		if est.HasTag(tag) {
			return true
		}
	}
	return false
}

// likedFirst is a stable two-bucket partition: liked foods move to the
// front, relative order within each tier is preserved. Not a full sort.
func likedFirst(items []models.Food, ratings map[string]models.Rating) []models.Food {
	if len(items) < 2 {
		return items
	}
	ordered := make([]models.Food, 0, len(items))
	for _, item := range items {
		if ratings[models.NormalizeKey(item.Name)] == models.RatingLike {
			ordered = append(ordered, item)
		}
	}
	for _, item := range items {
		if ratings[models.NormalizeKey(item.Name)] != models.RatingLike {
			ordered = append(ordered, item)
		}
	}
	return ordered
}
