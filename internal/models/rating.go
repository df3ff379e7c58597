package models

import "fmt"

// Rating is a user's signal for a food, keyed per (user, cache key).
// Neutral is the absence of a stored rating; it is never persisted.
type Rating string

const (
	RatingNeutral Rating = ""
	RatingLike    Rating = "like"
	RatingDislike Rating = "dislike"
)

// ParseRating validates a rating received from a client. The empty string
// parses to Neutral, which callers treat as "clear the stored rating".
func ParseRating(s string) (Rating, error) {
	switch Rating(s) {
	case RatingNeutral, RatingLike, RatingDislike:
		return Rating(s), nil
	}
	return RatingNeutral, fmt.Errorf("unknown rating %q", s)
}

// Toggle applies the original toggle semantics: requesting the currently
// stored rating clears it to Neutral, anything else replaces it.
func (r Rating) Toggle(requested Rating) Rating {
	if r == requested {
		return RatingNeutral
	}
	return requested
}
