package models

import (
	"fmt"
	"time"
)

// MealType identifies one of the three daily dining-hall meals.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
)

// MealTypes lists the meals in day order.
func MealTypes() []MealType {
	return []MealType{MealBreakfast, MealLunch, MealDinner}
}

// ParseMealType validates a meal type received from a client.
func ParseMealType(s string) (MealType, error) {
	switch MealType(s) {
	case MealBreakfast, MealLunch, MealDinner:
		return MealType(s), nil
	}
	return "", fmt.Errorf("unknown meal type %q", s)
}

// MenuEntry is one element of the feed's ordered menu sequence: either a
// section title or a food. Foods are bucketed under the most recently seen
// section title.
type MenuEntry struct {
	ID             int    `json:"id"`
	Food           *Food  `json:"food"`
	IsSectionTitle bool   `json:"is_section_title"`
	Text           string `json:"text"`
}

// DayMenu is the menu for one date and meal type, in feed order.
type DayMenu struct {
	Date    time.Time
	Meal    MealType
	Entries []MenuEntry
}

// Foods returns the day's food entries, skipping section titles.
func (d DayMenu) Foods() []Food {
	var foods []Food
	for _, entry := range d.Entries {
		if entry.IsSectionTitle || entry.Food == nil {
			continue
		}
		foods = append(foods, *entry.Food)
	}
	return foods
}
