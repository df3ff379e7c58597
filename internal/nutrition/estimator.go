package nutrition

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ishankhire/gt-meal-planning/internal/gemini"
)

// EstimateRequest describes one food the estimator should analyze.
// Ingredients is optional; empty means the feed published none.
type EstimateRequest struct {
	Name        string
	ServingSize string
	Ingredients string
}

// RawEstimate is one position-aligned estimator result before rounding.
type RawEstimate struct {
	Calories float64  `json:"calories"`
	Protein  float64  `json:"protein"`
	Carbs    float64  `json:"carbs"`
	Fat      float64  `json:"fat"`
	Tags     []string `json:"tags"`
}

// Estimator produces nutrition estimates for a batch of foods. The response
// list is position-aligned to the request: results are matched by index, not
// by name, because the estimator's echo of a name is not trustworthy.
type Estimator interface {
	Configured() error
	Estimate(ctx context.Context, items []EstimateRequest) ([]RawEstimate, error)
}

// GeminiEstimator asks the model for per-serving macros plus tags from the
// fixed vocabulary, in one structured-output call per batch.
type GeminiEstimator struct {
	client *gemini.Client
}

func NewGeminiEstimator(client *gemini.Client) *GeminiEstimator {
	return &GeminiEstimator{client: client}
}

func (e *GeminiEstimator) Configured() error {
	return e.client.Configured()
}

var estimateSchema = json.RawMessage(`{
  "type": "ARRAY",
  "items": {
    "type": "OBJECT",
    "properties": {
      "calories": {"type": "NUMBER"},
      "protein": {"type": "NUMBER"},
      "carbs": {"type": "NUMBER"},
      "fat": {"type": "NUMBER"},
      "tags": {"type": "ARRAY", "items": {"type": "STRING"}}
    },
    "required": ["calories", "protein", "carbs", "fat", "tags"]
  }
}`)

func (e *GeminiEstimator) Estimate(ctx context.Context, items []EstimateRequest) ([]RawEstimate, error) {
	if len(items) == 0 {
		return nil, nil
	}

	var foodList strings.Builder
	for i, item := range items {
		fmt.Fprintf(&foodList, "%d. %q (dining hall serving size: %s)\n", i+1, item.Name, item.ServingSize)
		if item.Ingredients != "" {
			fmt.Fprintf(&foodList, "   Ingredients: %s\n", item.Ingredients)
		}
	}

	prompt := fmt.Sprintf(`For each food item below from a college dining hall, estimate its nutrition for the given serving size. The serving size comes from the dining hall's own data. Use the ingredients list (when provided) to make a more accurate estimate. Return a JSON array with one object per item in the same order.

Also assign one or more nutritional category tags from this list based on the item's nutritional profile:
- "High calorie"
- "Low calorie"
- "Protein rich" — slightly prioritize and have a lower threshold for "high protein" vegetarian/vegan items
- "Low fat"
- "Nutrient-rich"

Include a "tags" array in each object. An item can have multiple tags or none.

%s`, foodList.String())

	var estimates []RawEstimate
	if err := e.client.GenerateJSON(ctx, prompt, 0.1, estimateSchema, &estimates); err != nil {
		return nil, fmt.Errorf("nutrition estimation failed: %w", err)
	}
	return estimates, nil
}
