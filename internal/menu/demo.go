package menu

import (
	"context"
	"time"

	"github.com/ishankhire/gt-meal-planning/internal/fixtures"
	"github.com/ishankhire/gt-meal-planning/internal/models"
)

// DemoSource serves generated menus instead of the live feed, for local
// development and demos. The injected always-available items are appended
// exactly as on the live path.
type DemoSource struct {
	gen fixtures.MenuGenerator
}

func NewDemoSource() *DemoSource {
	return &DemoSource{}
}

func (s *DemoSource) FetchDay(_ context.Context, date time.Time, meal models.MealType) ([]models.MenuEntry, error) {
	entries := s.gen.Day(date, meal)
	return appendStaticItems(entries, meal), nil
}
