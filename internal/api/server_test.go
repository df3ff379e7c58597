package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ishankhire/gt-meal-planning/internal/digest"
	"github.com/ishankhire/gt-meal-planning/internal/models"
	"github.com/ishankhire/gt-meal-planning/internal/nutrition"
	"github.com/ishankhire/gt-meal-planning/internal/recommend"
	"github.com/ishankhire/gt-meal-planning/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	entries []models.MenuEntry
	err     error
}

func (f *fakeSource) FetchDay(context.Context, time.Time, models.MealType) ([]models.MenuEntry, error) {
	return f.entries, f.err
}

type fakeEstimator struct {
	configErr error
}

func (f *fakeEstimator) Configured() error { return f.configErr }
func (f *fakeEstimator) Estimate(_ context.Context, items []nutrition.EstimateRequest) ([]nutrition.RawEstimate, error) {
	out := make([]nutrition.RawEstimate, len(items))
	for i := range items {
		out[i] = nutrition.RawEstimate{Calories: 250, Protein: 12, Tags: []string{models.TagProteinRich}}
	}
	return out, nil
}

type fakeNutritionStore struct{}

func (fakeNutritionStore) GetBatch(context.Context, []string) (map[string]models.NutritionEstimate, error) {
	return map[string]models.NutritionEstimate{}, nil
}
func (fakeNutritionStore) Upsert(context.Context, string, models.NutritionEstimate) error { return nil }
func (fakeNutritionStore) GetAll(context.Context) (map[string]models.NutritionEstimate, error) {
	return nil, nil
}

type fakeComposer struct {
	meal *models.MealPlan
	day  *models.DayPlan
	err  error
}

func (f *fakeComposer) ComposeMeal(context.Context, []models.FoodWithNutrition, models.RecommendationGoals, []string) (*models.MealPlan, error) {
	return f.meal, f.err
}

func (f *fakeComposer) ComposeDay(context.Context, []models.FoodWithNutrition, []models.FoodWithNutrition, []models.FoodWithNutrition, models.RecommendationGoals, []string) (*models.DayPlan, error) {
	return f.day, f.err
}

type fakeRatingRepo struct {
	stored map[string]models.Rating
	sets   []struct {
		Key    string
		Rating models.Rating
	}
}

func (f *fakeRatingRepo) GetAll(context.Context, string) (map[string]models.Rating, error) {
	return f.stored, nil
}

func (f *fakeRatingRepo) Set(_ context.Context, _ string, key string, rating models.Rating) error {
	f.sets = append(f.sets, struct {
		Key    string
		Rating models.Rating
	}{key, rating})
	return nil
}

func (f *fakeRatingRepo) GetLiked(context.Context, string) ([]string, error) { return nil, nil }
func (f *fakeRatingRepo) Dump(context.Context) ([]repositories.RatingRecord, error) {
	return nil, nil
}

type fakePrefRepo struct {
	stored map[string]models.Preferences
}

func (f *fakePrefRepo) Get(_ context.Context, email string) (*models.Preferences, error) {
	if p, ok := f.stored[email]; ok {
		return &p, nil
	}
	return nil, nil
}

func (f *fakePrefRepo) Upsert(_ context.Context, email string, prefs models.Preferences) error {
	f.stored[email] = prefs
	return nil
}

type fakeSubRepo struct {
	subs map[string]bool
}

func (f *fakeSubRepo) IsSubscribed(_ context.Context, email string) (bool, error) {
	return f.subs[email], nil
}

func (f *fakeSubRepo) Set(_ context.Context, email string, optedIn bool) error {
	f.subs[email] = optedIn
	return nil
}

func (f *fakeSubRepo) ListSubscribed(context.Context) ([]models.DigestUser, error) {
	return nil, nil
}

type fakeUserRepo struct {
	created []string
}

func (f *fakeUserRepo) FindOrCreate(_ context.Context, email, _ string) error {
	f.created = append(f.created, email)
	return nil
}

func (f *fakeUserRepo) Get(context.Context, string) (*models.DigestUser, error) { return nil, nil }

type fakeDelivery struct {
	sent []*models.DigestPayload
	err  error
}

func (f *fakeDelivery) Send(_ context.Context, p *models.DigestPayload) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, p)
	return nil
}

func (f *fakeDelivery) Close() error { return nil }

type fakeArchiver struct {
	archived []*models.DigestPayload
}

func (f *fakeArchiver) Archive(_ context.Context, p *models.DigestPayload) error {
	f.archived = append(f.archived, p)
	return nil
}

type fixture struct {
	server   *Server
	source   *fakeSource
	composer *fakeComposer
	ratings  *fakeRatingRepo
	prefs    *fakePrefRepo
	subs     *fakeSubRepo
	users    *fakeUserRepo
	delivery *fakeDelivery
	archiver *fakeArchiver
}

func newFixture(estimatorErr error) *fixture {
	f := &fixture{
		source: &fakeSource{entries: []models.MenuEntry{
			{IsSectionTitle: true, Text: "Home Zone"},
			{Food: &models.Food{Name: "Meatloaf", ServingSize: "1 slice"}},
			{Food: &models.Food{Name: "Green Beans", ServingSize: "1/2 cup"}},
		}},
		composer: &fakeComposer{},
		ratings:  &fakeRatingRepo{},
		prefs:    &fakePrefRepo{stored: map[string]models.Preferences{}},
		subs:     &fakeSubRepo{subs: map[string]bool{}},
		users:    &fakeUserRepo{},
		delivery: &fakeDelivery{},
		archiver: &fakeArchiver{},
	}
	resolver := nutrition.NewResolver(fakeNutritionStore{}, &fakeEstimator{configErr: estimatorErr})
	orchestrator := digest.NewOrchestrator(f.source, resolver, f.composer, f.prefs, f.ratings)
	f.server = NewServer(
		f.source, resolver, f.composer,
		f.ratings, f.prefs, f.subs, f.users,
		orchestrator, f.delivery, f.archiver,
		time.Millisecond,
	)
	return f
}

func (f *fixture) do(t *testing.T, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	f := newFixture(nil)
	rec := f.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
}

func TestMenuRequiresMealType(t *testing.T) {
	f := newFixture(nil)
	rec := f.do(t, http.MethodGet, "/api/menu", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMenuRejectsBadDate(t *testing.T) {
	f := newFixture(nil)
	rec := f.do(t, http.MethodGet, "/api/menu?mealType=lunch&date=09-01-2026", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMenuReturnsSections(t *testing.T) {
	f := newFixture(nil)
	rec := f.do(t, http.MethodGet, "/api/menu?mealType=lunch&date=2026-09-01", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "2026-09-01", body["date"])
	assert.Equal(t, "lunch", body["mealType"])
	sections := body["sections"].([]interface{})
	require.Len(t, sections, 1)
	first := sections[0].(map[string]interface{})
	assert.Equal(t, "Home Zone", first["category"])
}

func TestMenuUpstreamFailure(t *testing.T) {
	f := newFixture(nil)
	f.source.err = errors.New("feed down")
	rec := f.do(t, http.MethodGet, "/api/menu?mealType=lunch", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestNutritionResolvesBatch(t *testing.T) {
	f := newFixture(nil)
	rec := f.do(t, http.MethodPost, "/api/nutrition", map[string]interface{}{
		"items": []map[string]string{
			{"name": "Meatloaf", "servingSize": "1 slice"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	results := decode(t, rec)["results"].(map[string]interface{})
	est := results["meatloaf"].(map[string]interface{})
	assert.Equal(t, float64(250), est["calories"])
}

func TestNutritionNotConfigured(t *testing.T) {
	f := newFixture(models.ErrNotConfigured)
	rec := f.do(t, http.MethodPost, "/api/nutrition", map[string]interface{}{
		"items": []map[string]string{{"name": "Meatloaf"}},
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Gemini API key not configured", decode(t, rec)["error"])
}

func TestGetRatingsRequiresEmail(t *testing.T) {
	f := newFixture(nil)
	rec := f.do(t, http.MethodGet, "/api/ratings", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetRatingsLoadsStored(t *testing.T) {
	f := newFixture(nil)
	f.ratings.stored = map[string]models.Rating{"meatloaf": models.RatingLike}

	rec := f.do(t, http.MethodGet, "/api/ratings?email=buzz@gatech.edu", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	ratings := body["ratings"].(map[string]interface{})
	assert.Equal(t, "like", ratings["meatloaf"])
}

func TestSetRatingToggleFlow(t *testing.T) {
	f := newFixture(nil)
	payload := map[string]string{
		"email": "buzz@gatech.edu", "foodName": "Meatloaf", "rating": "like",
	}

	rec := f.do(t, http.MethodPost, "/api/ratings", payload)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "like", decode(t, rec)["rating"])

	// Same rating again clears it.
	rec = f.do(t, http.MethodPost, "/api/ratings", payload)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "", decode(t, rec)["rating"])

	require.Len(t, f.ratings.sets, 2)
	assert.Equal(t, "meatloaf", f.ratings.sets[0].Key)
	assert.Equal(t, models.RatingLike, f.ratings.sets[0].Rating)
	assert.Equal(t, models.RatingNeutral, f.ratings.sets[1].Rating)
}

func TestSetRatingRejectsNeutralAndUnknown(t *testing.T) {
	f := newFixture(nil)
	for _, rating := range []string{"", "love"} {
		rec := f.do(t, http.MethodPost, "/api/ratings", map[string]string{
			"email": "buzz@gatech.edu", "foodName": "Meatloaf", "rating": rating,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
	assert.Empty(t, f.ratings.sets)
}

func TestGetPreferencesDefaults(t *testing.T) {
	f := newFixture(nil)
	rec := f.do(t, http.MethodGet, "/api/preferences?email=buzz@gatech.edu", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	goals := decode(t, rec)["goals"].(map[string]interface{})
	assert.Equal(t, float64(2000), goals["dailyCalories"])
	assert.Equal(t, float64(150), goals["dailyProtein"])
}

func TestPreferencesRoundTrip(t *testing.T) {
	f := newFixture(nil)

	rec := f.do(t, http.MethodPost, "/api/preferences", map[string]interface{}{
		"email":   "buzz@gatech.edu",
		"goals":   map[string]interface{}{"dailyCalories": 2600, "dailyProtein": 190},
		"filters": map[string]bool{"vegetarian": true},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/preferences?email=buzz@gatech.edu", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	goals := body["goals"].(map[string]interface{})
	assert.Equal(t, float64(2600), goals["dailyCalories"])
	filters := body["filters"].(map[string]interface{})
	assert.Equal(t, true, filters["vegetarian"])
}

func TestRecommendRequiresMenuItems(t *testing.T) {
	f := newFixture(nil)
	rec := f.do(t, http.MethodPost, "/api/recommend", map[string]interface{}{
		"menuItems": []interface{}{},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Menu items required", decode(t, rec)["error"])
}

func TestRecommendSuccess(t *testing.T) {
	f := newFixture(nil)
	f.composer.meal = &models.MealPlan{
		MealPlan: []models.PlannedItem{{Name: "Meatloaf", Quantity: "1 slice", Calories: 320}},
		Totals:   models.NutritionTotals{Calories: 320},
	}

	rec := f.do(t, http.MethodPost, "/api/recommend", map[string]interface{}{
		"menuItems": []map[string]interface{}{{"name": "Meatloaf", "calories": 320}},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	plan := decode(t, rec)["recommendation"].(map[string]interface{})
	items := plan["mealPlan"].([]interface{})
	require.Len(t, items, 1)
}

func TestRecommendFailureStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"no recommendation", recommend.ErrNoRecommendation, http.StatusBadGateway},
		{"not configured", models.ErrNotConfigured, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(nil)
			f.composer.err = tc.err
			rec := f.do(t, http.MethodPost, "/api/recommend", map[string]interface{}{
				"menuItems": []map[string]interface{}{{"name": "Meatloaf"}},
			})
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestRecommendDay(t *testing.T) {
	f := newFixture(nil)
	f.composer.day = &models.DayPlan{
		Breakfast: models.MealPlan{MealPlan: []models.PlannedItem{{Name: "Granola", Quantity: "1 cup"}}},
		DayTotals: models.NutritionTotals{Calories: 1800},
	}

	rec := f.do(t, http.MethodPost, "/api/recommend-day", map[string]interface{}{
		"breakfastItems": []map[string]interface{}{{"name": "Granola"}},
		"lunchItems":     []map[string]interface{}{{"name": "Falafel"}},
		"dinnerItems":    []map[string]interface{}{{"name": "Salmon"}},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	plan := decode(t, rec)["recommendation"].(map[string]interface{})
	totals := plan["dayTotals"].(map[string]interface{})
	assert.Equal(t, float64(1800), totals["calories"])
}

func TestDigestStatus(t *testing.T) {
	f := newFixture(nil)
	f.subs.subs["buzz@gatech.edu"] = true

	rec := f.do(t, http.MethodGet, "/api/digest?email=buzz@gatech.edu", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["optedIn"])

	rec = f.do(t, http.MethodGet, "/api/digest", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDigestOptOut(t *testing.T) {
	f := newFixture(nil)
	f.subs.subs["buzz@gatech.edu"] = true

	rec := f.do(t, http.MethodPost, "/api/digest", map[string]interface{}{
		"email": "buzz@gatech.edu", "optIn": false,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, false, body["subscribed"])
	assert.False(t, f.subs.subs["buzz@gatech.edu"])
	assert.Empty(t, f.delivery.sent, "opting out never sends a digest")
	assert.Equal(t, []string{"buzz@gatech.edu"}, f.users.created)
}

func TestDigestOptInSendsImmediately(t *testing.T) {
	f := newFixture(nil)
	f.composer.day = &models.DayPlan{
		Breakfast: models.MealPlan{MealPlan: []models.PlannedItem{{Name: "Granola", Quantity: "1 cup"}}},
	}

	rec := f.do(t, http.MethodPost, "/api/digest", map[string]interface{}{
		"email": "buzz@gatech.edu", "name": "Buzz", "optIn": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, true, body["subscribed"])
	assert.Equal(t, true, body["emailSent"])
	assert.True(t, f.subs.subs["buzz@gatech.edu"])

	require.Len(t, f.delivery.sent, 1)
	assert.Equal(t, "buzz@gatech.edu", f.delivery.sent[0].Recipient)
	assert.Len(t, f.archiver.archived, 1)
}

func TestDigestOptInDeliveryFailureKeepsSubscription(t *testing.T) {
	f := newFixture(nil)
	f.delivery.err = errors.New("broker down")

	rec := f.do(t, http.MethodPost, "/api/digest", map[string]interface{}{
		"email": "buzz@gatech.edu", "optIn": true,
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "failed to send digest", body["error"])
	assert.Equal(t, true, body["subscribed"])
	assert.True(t, f.subs.subs["buzz@gatech.edu"], "a failed send never reverts the opt-in")
}
