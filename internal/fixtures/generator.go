package fixtures

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/ishankhire/gt-meal-planning/internal/models"
	"github.com/jaswdr/faker"
)

// MenuGenerator fabricates plausible dining-hall menus so the service can
// run without the live feed. Generation is seeded from the date and meal, so
// repeated fetches of the same day agree with each other.
type MenuGenerator struct{}

var stations = map[models.MealType][]string{
	models.MealBreakfast: {"Breakfast Grill", "Bakery", "Fruit & Yogurt"},
	models.MealLunch:     {"Home Zone", "Mediterranean", "Salad Bar", "Dessert"},
	models.MealDinner:    {"Home Zone", "Sizzle Station", "Vegan Corner", "Dessert"},
}

var stationDishes = map[string][]string{
	"Breakfast Grill": {"Scrambled Eggs", "Turkey Sausage Links", "Hash Browns", "French Toast", "Bacon"},
	"Bakery":          {"Blueberry Muffin", "Croissant", "Cinnamon Roll", "Banana Bread"},
	"Fruit & Yogurt":  {"Greek Yogurt", "Fresh Berries", "Sliced Pineapple", "Fruit Salad"},
	"Home Zone":       {"Herb Roasted Chicken", "Baked Ziti", "Mashed Potatoes", "Green Beans", "Meatloaf"},
	"Mediterranean":   {"Falafel", "Hummus", "Chicken Shawarma", "Tabbouleh", "Pita Bread"},
	"Salad Bar":       {"Garden Salad", "Caesar Salad", "Quinoa Salad"},
	"Sizzle Station":  {"Grilled Salmon", "Flank Steak", "Stir Fry Vegetables", "Jasmine Rice"},
	"Vegan Corner":    {"Tofu Curry", "Roasted Chickpeas", "Coconut Rice", "Sauteed Kale"},
	"Dessert":         {"Chocolate Chip Cookie", "Apple Cobbler", "Brownie", "Soft Serve"},
}

var servingSizes = []string{"1 cup", "0.5 cup", "1 piece", "2 pieces", "1 serving", "4 oz", "6 oz"}

// Day produces the feed-order entry list for one date and meal: section
// titles followed by that station's dishes, a random subset each day.
func (MenuGenerator) Day(date time.Time, meal models.MealType) []models.MenuEntry {
	seed := date.Unix() + int64(len(meal))
	rng := rand.New(rand.NewSource(seed))
	fake := faker.NewWithSeed(rand.NewSource(seed))

	var entries []models.MenuEntry
	id := 1
	for _, station := range stations[meal] {
		entries = append(entries, models.MenuEntry{
			ID:             id,
			IsSectionTitle: true,
			Text:           station,
		})
		id++

		dishes := stationDishes[station]
		count := 2 + rng.Intn(len(dishes)-1)
		for _, j := range rng.Perm(len(dishes))[:count] {
			food := models.Food{
				Name:        dishes[j],
				ServingSize: servingSizes[rng.Intn(len(servingSizes))],
				Icons:       randomIcons(rng),
			}
			if rng.Float64() < 0.5 {
				food.Ingredients = fmt.Sprintf("%s, %s, %s",
					fake.Lorem().Word(), fake.Lorem().Word(), fake.Lorem().Word())
			}
			entries = append(entries, models.MenuEntry{
				ID:   id,
				Food: &food,
				Text: food.Name,
			})
			id++
		}
	}
	return entries
}

func randomIcons(rng *rand.Rand) []string {
	var icons []string
	if rng.Float64() < 0.3 {
		icons = append(icons, models.IconVegan, models.IconVegetarian)
	} else if rng.Float64() < 0.3 {
		icons = append(icons, models.IconVegetarian)
	}
	if rng.Float64() < 0.2 {
		icons = append(icons, models.IconGluten)
	}
	if rng.Float64() < 0.15 {
		icons = append(icons, models.IconMilk)
	}
	if rng.Float64() < 0.1 {
		icons = append(icons, models.IconEggsAllergen)
	}
	return icons
}
