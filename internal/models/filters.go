package models

// DietaryFilters are AND-exclusion filters: a food must satisfy every active
// filter to remain in the catalog.
type DietaryFilters struct {
	Vegetarian bool `json:"vegetarian" mapstructure:"vegetarian"`
	Vegan      bool `json:"vegan" mapstructure:"vegan"`
	Eggless    bool `json:"eggless" mapstructure:"eggless"`
	GlutenFree bool `json:"glutenFree" mapstructure:"gluten_free"`
	NoDairy    bool `json:"noDairy" mapstructure:"no_dairy"`
}

// NutritionFilters are OR-inclusion filters: with any filter active, a food
// must carry at least one of the selected tags to remain.
type NutritionFilters struct {
	HighCalorie  bool `json:"highCalorie" mapstructure:"high_calorie"`
	LowCalorie   bool `json:"lowCalorie" mapstructure:"low_calorie"`
	ProteinRich  bool `json:"proteinRich" mapstructure:"protein_rich"`
	LowFat       bool `json:"lowFat" mapstructure:"low_fat"`
	NutrientRich bool `json:"nutrientRich" mapstructure:"nutrient_rich"`
}

// SelectedTags maps the active filters onto the estimator's tag vocabulary.
func (f NutritionFilters) SelectedTags() []string {
	var tags []string
	if f.HighCalorie {
		tags = append(tags, TagHighCalorie)
	}
	if f.LowCalorie {
		tags = append(tags, TagLowCalorie)
	}
	if f.ProteinRich {
		tags = append(tags, TagProteinRich)
	}
	if f.LowFat {
		tags = append(tags, TagLowFat)
	}
	if f.NutrientRich {
		tags = append(tags, TagNutrientRich)
	}
	return tags
}
