package menu

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ishankhire/gt-meal-planning/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedWeekBody = `{
  "days": [
    {
      "date": "2026-09-01",
      "menu_items": [
        {"id": 10, "is_section_title": true, "text": "Home Zone"},
        {
          "id": 11,
          "food": {
            "name": "Herb Roasted Chicken",
            "serving_size_info": {"serving_size_amount": "4", "serving_size_unit": "oz"},
            "icons": {"food_icons": [
              {"synced_name": "Gluten", "enabled": false},
              {"synced_name": "Milk", "enabled": true}
            ]},
            "ingredients": "chicken, rosemary, garlic"
          }
        },
        {
          "id": 12,
          "food": {"name": "Steamed Rice", "serving_size_info": null, "icons": null, "ingredients": null}
        }
      ]
    },
    {"date": "2026-09-02", "menu_items": []}
  ]
}`

func feedServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchDayConvertsFeedEntries(t *testing.T) {
	srv := feedServer(t, feedWeekBody)
	source := NewNutrisliceSource(models.MenuFeedConfig{BaseURL: srv.URL, School: "north-ave-dining-hall"})

	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	entries, err := source.FetchDay(context.Background(), date, models.MealLunch)
	require.NoError(t, err)

	require.True(t, len(entries) > 3)
	assert.True(t, entries[0].IsSectionTitle)
	assert.Equal(t, "Home Zone", entries[0].Text)

	chicken := entries[1].Food
	require.NotNil(t, chicken)
	assert.Equal(t, "Herb Roasted Chicken", chicken.Name)
	assert.Equal(t, "4 oz", chicken.ServingSize)
	assert.Equal(t, "chicken, rosemary, garlic", chicken.Ingredients)
	// Disabled icons are dropped.
	assert.Equal(t, []string{models.IconMilk}, chicken.Icons)

	rice := entries[2].Food
	require.NotNil(t, rice)
	assert.Equal(t, "1 serving", rice.ServingSize, "missing serving info falls back")
}

func TestFetchDayAppendsAlwaysAvailable(t *testing.T) {
	srv := feedServer(t, feedWeekBody)
	source := NewNutrisliceSource(models.MenuFeedConfig{BaseURL: srv.URL, School: "north-ave-dining-hall"})

	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	entries, err := source.FetchDay(context.Background(), date, models.MealLunch)
	require.NoError(t, err)

	var sectionIdx = -1
	for i, e := range entries {
		if e.IsSectionTitle && e.Text == "Always Available" {
			sectionIdx = i
			break
		}
	}
	require.NotEqual(t, -1, sectionIdx, "injected section title present")

	injected := entries[sectionIdx+1:]
	require.NotEmpty(t, injected)
	for _, e := range injected {
		assert.Negative(t, e.ID, "injected items use the negative id sequence")
	}
	assert.Equal(t, "Chocolate Milk", injected[0].Food.Name)
}

func TestFetchDayBreakfastAddsBreakfastOnlyItems(t *testing.T) {
	srv := feedServer(t, feedWeekBody)
	source := NewNutrisliceSource(models.MenuFeedConfig{BaseURL: srv.URL, School: "north-ave-dining-hall"})
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	breakfast, err := source.FetchDay(context.Background(), date, models.MealBreakfast)
	require.NoError(t, err)
	lunch, err := source.FetchDay(context.Background(), date, models.MealLunch)
	require.NoError(t, err)

	has := func(entries []models.MenuEntry, name string) bool {
		for _, e := range entries {
			if e.Food != nil && e.Food.Name == name {
				return true
			}
		}
		return false
	}
	assert.True(t, has(breakfast, "Granola"))
	assert.False(t, has(lunch, "Granola"))
}

func TestFetchDayMissingDateYieldsOnlyInjected(t *testing.T) {
	srv := feedServer(t, feedWeekBody)
	source := NewNutrisliceSource(models.MenuFeedConfig{BaseURL: srv.URL, School: "north-ave-dining-hall"})

	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	entries, err := source.FetchDay(context.Background(), date, models.MealDinner)
	require.NoError(t, err)

	require.NotEmpty(t, entries)
	assert.True(t, entries[0].IsSectionTitle)
	assert.Equal(t, "Always Available", entries[0].Text)
}

func TestFetchDayUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)
	source := NewNutrisliceSource(models.MenuFeedConfig{BaseURL: srv.URL, School: "north-ave-dining-hall"})

	_, err := source.FetchDay(context.Background(), time.Now(), models.MealLunch)
	assert.Error(t, err)
}

func TestDemoSourceIsDeterministicPerDay(t *testing.T) {
	source := NewDemoSource()
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	first, err := source.FetchDay(context.Background(), date, models.MealDinner)
	require.NoError(t, err)
	second, err := source.FetchDay(context.Background(), date, models.MealDinner)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// The injected section rides along on the demo path too.
	var found bool
	for _, e := range first {
		if e.IsSectionTitle && e.Text == "Always Available" {
			found = true
		}
	}
	assert.True(t, found)
}
