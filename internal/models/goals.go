package models

// Taste preference values.
const (
	TasteBalanced = "balanced"
	TasteTasty    = "tasty"
	TasteStrict   = "strict"
)

// RecommendationGoals is a user's daily targets and composition preferences.
type RecommendationGoals struct {
	DailyCalories int    `json:"dailyCalories" mapstructure:"daily_calories"`
	DailyProtein  int    `json:"dailyProtein" mapstructure:"daily_protein"`
	FitnessGoal   string `json:"fitnessGoal" mapstructure:"fitness_goal"`
	Appetite      string `json:"appetite" mapstructure:"appetite"`
	Taste         string `json:"taste" mapstructure:"taste"`
	Restrictions  string `json:"restrictions" mapstructure:"restrictions"`
}

// DefaultGoals mirrors the targets assumed for users who never saved
// preferences.
func DefaultGoals() RecommendationGoals {
	return RecommendationGoals{
		DailyCalories: 2000,
		DailyProtein:  150,
		Appetite:      "medium",
		Taste:         TasteBalanced,
	}
}

// Preferences bundles everything the preference store keeps per user.
type Preferences struct {
	Goals            RecommendationGoals `json:"goals"`
	DietaryFilters   DietaryFilters      `json:"filters"`
	NutritionFilters NutritionFilters    `json:"nutritionalFilters"`
}
