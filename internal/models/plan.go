package models

// PlannedItem is one line of a composed meal: a menu item at a suggested
// human-readable quantity with the macros scaled to match.
type PlannedItem struct {
	Name     string `json:"name" validate:"required"`
	Quantity string `json:"quantity" validate:"required"`
	Calories int    `json:"calories" validate:"min=0"`
	Protein  int    `json:"protein" validate:"min=0"`
	Carbs    int    `json:"carbs" validate:"min=0"`
	Fat      int    `json:"fat" validate:"min=0"`
}

// NutritionTotals sums the macros of a meal or a day.
type NutritionTotals struct {
	Calories int `json:"calories" validate:"min=0"`
	Protein  int `json:"protein" validate:"min=0"`
	Carbs    int `json:"carbs" validate:"min=0"`
	Fat      int `json:"fat" validate:"min=0"`
}

// Add accumulates another totals value.
func (t *NutritionTotals) Add(o NutritionTotals) {
	t.Calories += o.Calories
	t.Protein += o.Protein
	t.Carbs += o.Carbs
	t.Fat += o.Fat
}

// MealPlan is the composer's answer for a single meal: the main plan, its
// reported totals, and ~4 extras (add-ons or swap alternatives). Totals are
// the composer's own figures; SumLineItems recomputes them for validation.
// An empty mealPlan is valid here: within a day plan it means the meal had
// no items to pick from. ComposeMeal rejects it separately.
type MealPlan struct {
	MealPlan  []PlannedItem   `json:"mealPlan" validate:"dive"`
	Totals    NutritionTotals `json:"mealPlanTotals"`
	Reasoning string          `json:"mealPlanReasoning,omitempty"`
	Extras    []PlannedItem   `json:"extras" validate:"dive"`
}

// SumLineItems recomputes the meal totals from the plan's line items.
func (m MealPlan) SumLineItems() NutritionTotals {
	var t NutritionTotals
	for _, item := range m.MealPlan {
		t.Add(NutritionTotals{Calories: item.Calories, Protein: item.Protein, Carbs: item.Carbs, Fat: item.Fat})
	}
	return t
}

// DayPlan is a composed full day. Policy: an item name should not appear in
// the mealPlan of more than one meal; the composer is asked to honor this
// and the caller validates it after the fact.
type DayPlan struct {
	Breakfast MealPlan        `json:"breakfast"`
	Lunch     MealPlan        `json:"lunch"`
	Dinner    MealPlan        `json:"dinner"`
	DayTotals NutritionTotals `json:"dayTotals"`
}

// LabelledMeal pairs a meal plan with its display label.
type LabelledMeal struct {
	Label string
	Plan  MealPlan
}

// Meals returns the day's meals labelled in day order.
func (d DayPlan) Meals() []LabelledMeal {
	return []LabelledMeal{
		{"Breakfast", d.Breakfast},
		{"Lunch", d.Lunch},
		{"Dinner", d.Dinner},
	}
}
