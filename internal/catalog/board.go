package catalog

import (
	"sync"
	"time"

	"github.com/ishankhire/gt-meal-planning/internal/models"
)

// DefaultReorderDelay is how long the ordering state lags the visual state
// after a toggle, so the user sees the styling change before the item moves.
const DefaultReorderDelay = 600 * time.Millisecond

// Board holds one user's rating state as two observable maps derived from
// the same toggle events, offset in time: the visual map updates
// immediately (styling), the sort map updates after a fixed delay
// (ordering). Safe for concurrent use.
type Board struct {
	mu     sync.Mutex
	visual map[string]models.Rating
	sorted map[string]models.Rating
	delay  time.Duration

	// after is swappable so tests can run the scheduled update inline.
	after func(time.Duration, func()) *time.Timer
}

func NewBoard(delay time.Duration) *Board {
	if delay <= 0 {
		delay = DefaultReorderDelay
	}
	return &Board{
		visual: make(map[string]models.Rating),
		sorted: make(map[string]models.Rating),
		delay:  delay,
		after:  time.AfterFunc,
	}
}

// Load replaces both states with the stored ratings, e.g. on session start.
func (b *Board) Load(ratings map[string]models.Rating) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.visual = make(map[string]models.Rating, len(ratings))
	b.sorted = make(map[string]models.Rating, len(ratings))
	for k, v := range ratings {
		if v == models.RatingNeutral {
			continue
		}
		b.visual[k] = v
		b.sorted[k] = v
	}
}

// Toggle applies a rating action for the key and returns the effective new
// rating: requesting the current rating clears it to Neutral, otherwise it
// replaces. The visual state changes before Toggle returns; the sort state
// follows after the configured delay.
func (b *Board) Toggle(foodKey string, requested models.Rating) models.Rating {
	b.mu.Lock()
	defer b.mu.Unlock()

	next := b.visual[foodKey].Toggle(requested)
	if next == models.RatingNeutral {
		delete(b.visual, foodKey)
	} else {
		b.visual[foodKey] = next
	}

	b.after(b.delay, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if next == models.RatingNeutral {
			delete(b.sorted, foodKey)
		} else {
			b.sorted[foodKey] = next
		}
	})
	return next
}

// Visual returns a copy of the immediate (styling) rating state.
func (b *Board) Visual() map[string]models.Rating {
	b.mu.Lock()
	defer b.mu.Unlock()
	return copyRatings(b.visual)
}

// SortOrder returns a copy of the delayed state the catalog ordering uses.
func (b *Board) SortOrder() map[string]models.Rating {
	b.mu.Lock()
	defer b.mu.Unlock()
	return copyRatings(b.sorted)
}

func copyRatings(m map[string]models.Rating) map[string]models.Rating {
	out := make(map[string]models.Rating, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
