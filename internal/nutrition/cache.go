package nutrition

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/ishankhire/gt-meal-planning/internal/models"
	"github.com/ishankhire/gt-meal-planning/internal/repositories"
	"github.com/rs/zerolog/log"
)

// Resolver resolves nutrition for a batch of foods cache-aside: known keys
// come from the store, the rest go to the estimator in a single call, and new
// estimates are written back without blocking the caller.
type Resolver struct {
	store     repositories.NutritionRepository
	estimator Estimator

	writes sync.WaitGroup
}

func NewResolver(store repositories.NutritionRepository, estimator Estimator) *Resolver {
	return &Resolver{store: store, estimator: estimator}
}

// ResolveBatch returns estimates keyed by normalized name. A key absent from
// the result means "unknown", never zero: when the estimator call fails the
// cached subset is still returned and the missing keys are simply omitted.
// The only returned error is a configuration error, surfaced before any
// batching work so the caller can short-circuit.
func (r *Resolver) ResolveBatch(ctx context.Context, items []models.Food) (map[string]models.NutritionEstimate, error) {
	results := make(map[string]models.NutritionEstimate)
	if len(items) == 0 {
		return results, nil
	}

	if err := r.estimator.Configured(); err != nil {
		return nil, err
	}

	// Partition into cached and uncached, preserving input order for the
	// estimator request. Duplicate keys collapse to one request line.
	keys := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	ordered := make([]models.Food, 0, len(items))
	for _, item := range items {
		key := models.NormalizeKey(item.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
		ordered = append(ordered, item)
	}

	cached, err := r.store.GetBatch(ctx, keys)
	if err != nil {
		// A store read failure degrades every key to a miss.
		log.Warn().Err(err).Msg("nutrition cache read failed, treating batch as uncached")
		cached = map[string]models.NutritionEstimate{}
	}

	var uncached []models.Food
	for _, item := range ordered {
		key := models.NormalizeKey(item.Name)
		if est, ok := cached[key]; ok {
			results[key] = est
		} else {
			uncached = append(uncached, item)
		}
	}

	// Fully cached: zero external calls.
	if len(uncached) == 0 {
		return results, nil
	}

	reqs := make([]EstimateRequest, len(uncached))
	for i, item := range uncached {
		reqs[i] = EstimateRequest{
			Name:        item.Name,
			ServingSize: item.ServingSize,
			Ingredients: item.Ingredients,
		}
	}

	estimates, err := r.estimator.Estimate(ctx, reqs)
	if err != nil {
		log.Error().Err(err).Int("items", len(uncached)).Msg("estimator call failed, uncached items stay unresolved")
		return results, nil
	}

	// Merge by index: the response is position-aligned to the request, and
	// the estimator's echo of a name is not to be trusted.
	for i := 0; i < len(uncached) && i < len(estimates); i++ {
		key := models.NormalizeKey(uncached[i].Name)
		est := roundEstimate(estimates[i])
		results[key] = est
		r.persist(key, est)
	}

	return results, nil
}

// persist writes an estimate back to the store without blocking or failing
// the response path. A lost write only costs a repeat estimate later.
func (r *Resolver) persist(key string, est models.NutritionEstimate) {
	r.writes.Add(1)
	go func() {
		defer r.writes.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := r.store.Upsert(ctx, key, est); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to cache nutrition estimate")
		}
	}()
}

// Wait blocks until in-flight cache writes finish. Called on shutdown and by
// tests that assert on store contents.
func (r *Resolver) Wait() {
	r.writes.Wait()
}

func roundEstimate(raw RawEstimate) models.NutritionEstimate {
	tags := raw.Tags
	if tags == nil {
		tags = []string{}
	}
	return models.NutritionEstimate{
		Calories: int(math.Round(raw.Calories)),
		Protein:  int(math.Round(raw.Protein)),
		Carbs:    int(math.Round(raw.Carbs)),
		Fat:      int(math.Round(raw.Fat)),
		Tags:     tags,
	}
}
