package menu

import "github.com/ishankhire/gt-meal-planning/internal/models"

// Items stocked at every meal but absent from the feed's menu listing.
var alwaysAvailable = []models.Food{
	{Name: "Chocolate Milk", ServingSize: "8 fl oz", Icons: []string{models.IconVegan, models.IconVegetarian}},
	{Name: "Hot Chocolate", ServingSize: "8 fl oz", Icons: []string{models.IconVegetarian}},
	{Name: "Tofu (Raw)", ServingSize: "1 cup", Icons: []string{models.IconVegan, models.IconVegetarian}},
	{Name: "Garbanzo Beans", ServingSize: "1 cup", Icons: []string{models.IconVegan, models.IconVegetarian}},
	{Name: "Cherry Tomatoes", ServingSize: "0.5 cup", Icons: []string{models.IconVegan, models.IconVegetarian}},
	{Name: "Shredded Cheese", ServingSize: "1 tbsp", Icons: []string{models.IconVegetarian}},
	{Name: "Olives", ServingSize: "1 tbsp", Icons: []string{models.IconVegan, models.IconVegetarian}},
}

var breakfastOnly = []models.Food{
	{Name: "Honeydew Melon", ServingSize: "1 cup", Icons: []string{models.IconVegan, models.IconVegetarian}},
	{Name: "Cantaloupe (Musk Melon)", ServingSize: "1 cup", Icons: []string{models.IconVegan, models.IconVegetarian}},
	{Name: "Granola", ServingSize: "1 cup", Icons: []string{models.IconVegan, models.IconVegetarian}},
}

// appendStaticItems adds an "Always Available" section with the injected
// items. IDs come from a local negative sequence so they never collide with
// feed ids; the sequence is per call, keeping ids deterministic per request.
func appendStaticItems(entries []models.MenuEntry, meal models.MealType) []models.MenuEntry {
	nextID := -1

	entries = append(entries, models.MenuEntry{
		ID:             -999,
		IsSectionTitle: true,
		Text:           "Always Available",
	})

	add := func(foods []models.Food) {
		for _, food := range foods {
			f := food
			entries = append(entries, models.MenuEntry{
				ID:   nextID,
				Food: &f,
				Text: f.Name,
			})
			nextID--
		}
	}

	add(alwaysAvailable)
	if meal == models.MealBreakfast {
		add(breakfastOnly)
	}
	return entries
}
