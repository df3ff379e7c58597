package menu

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ishankhire/gt-meal-planning/internal/models"
)

// Source fetches the ordered menu sequence for one date and meal type.
// Implementations are read-only collaborators; the caller owns timeouts via ctx.
type Source interface {
	FetchDay(ctx context.Context, date time.Time, meal models.MealType) ([]models.MenuEntry, error)
}

// NutrisliceSource pulls the dining hall's weekly menu feed and injects the
// always-available items the feed does not list.
type NutrisliceSource struct {
	baseURL string
	school  string
	client  *http.Client
}

func NewNutrisliceSource(cfg models.MenuFeedConfig) *NutrisliceSource {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &NutrisliceSource{
		baseURL: cfg.BaseURL,
		school:  cfg.School,
		client:  &http.Client{Timeout: timeout},
	}
}

// Feed DTOs. The feed nests serving size and icons; both flatten into
// models.Food on conversion.
type feedIcon struct {
	SyncedName string `json:"synced_name"`
	Enabled    bool   `json:"enabled"`
}

type feedServingInfo struct {
	Amount *string `json:"serving_size_amount"`
	Unit   *string `json:"serving_size_unit"`
}

type feedFood struct {
	Name        string           `json:"name"`
	ServingInfo *feedServingInfo `json:"serving_size_info"`
	Icons       *struct {
		FoodIcons []feedIcon `json:"food_icons"`
	} `json:"icons"`
	Ingredients *string `json:"ingredients"`
}

type feedMenuItem struct {
	ID             int       `json:"id"`
	Food           *feedFood `json:"food"`
	IsSectionTitle bool      `json:"is_section_title"`
	Text           string    `json:"text"`
}

type feedDay struct {
	Date      string         `json:"date"`
	MenuItems []feedMenuItem `json:"menu_items"`
}

type feedWeek struct {
	Days []feedDay `json:"days"`
}

func (s *NutrisliceSource) FetchDay(ctx context.Context, date time.Time, meal models.MealType) ([]models.MenuEntry, error) {
	url := fmt.Sprintf("%s/menu/api/weeks/school/%s/menu-type/%s/%d/%d/%d/",
		s.baseURL, s.school, meal, date.Year(), int(date.Month()), date.Day())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create menu request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("menu feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("menu feed returned status %d", resp.StatusCode)
	}

	var week feedWeek
	if err := json.NewDecoder(resp.Body).Decode(&week); err != nil {
		return nil, fmt.Errorf("failed to decode menu feed: %w", err)
	}

	want := date.Format("2006-01-02")
	for _, day := range week.Days {
		if day.Date != want {
			continue
		}
		entries := make([]models.MenuEntry, 0, len(day.MenuItems))
		for _, item := range day.MenuItems {
			entries = append(entries, convertFeedItem(item))
		}
		return appendStaticItems(entries, meal), nil
	}

	// Day absent from the feed week: only the injected items are available.
	return appendStaticItems(nil, meal), nil
}

func convertFeedItem(item feedMenuItem) models.MenuEntry {
	entry := models.MenuEntry{
		ID:             item.ID,
		IsSectionTitle: item.IsSectionTitle,
		Text:           item.Text,
	}
	if item.Food == nil {
		return entry
	}

	food := models.Food{
		Name:        item.Food.Name,
		ServingSize: "1 serving",
	}
	if info := item.Food.ServingInfo; info != nil && info.Amount != nil && info.Unit != nil {
		food.ServingSize = fmt.Sprintf("%s %s", *info.Amount, *info.Unit)
	}
	if item.Food.Ingredients != nil {
		food.Ingredients = *item.Food.Ingredients
	}
	if item.Food.Icons != nil {
		for _, icon := range item.Food.Icons.FoodIcons {
			if icon.Enabled {
				food.Icons = append(food.Icons, icon.SyncedName)
			}
		}
	}
	entry.Food = &food
	return entry
}
