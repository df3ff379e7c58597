package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ishankhire/gt-meal-planning/internal/catalog"
	"github.com/ishankhire/gt-meal-planning/internal/models"
	"github.com/ishankhire/gt-meal-planning/internal/recommend"
	"github.com/rs/zerolog/log"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleMenu returns the filtered, ranked catalog for one meal. Browsing
// never hard-fails on missing nutrition: when estimates cannot be resolved,
// active nutrition filters simply exclude the unresolved items.
func (s *Server) handleMenu(w http.ResponseWriter, r *http.Request) {
	meal, err := models.ParseMealType(r.URL.Query().Get("mealType"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	date := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		date, err = time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
	}

	entries, err := s.source.FetchDay(r.Context(), date, meal)
	if err != nil {
		log.Error().Err(err).Str("meal", string(meal)).Msg("menu fetch failed")
		writeError(w, http.StatusBadGateway, "failed to fetch menu")
		return
	}

	var prefs models.Preferences
	prefs.Goals = models.DefaultGoals()
	ratings := map[string]models.Rating{}
	email := r.URL.Query().Get("email")
	if email != "" {
		if stored, err := s.prefs.Get(r.Context(), email); err != nil {
			log.Warn().Err(err).Str("email", email).Msg("preference lookup failed")
		} else if stored != nil {
			prefs = *stored
		}
		ratings = s.board(r, email).SortOrder()
	}

	estimates := map[string]models.NutritionEstimate{}
	if len(prefs.NutritionFilters.SelectedTags()) > 0 {
		day := models.DayMenu{Date: date, Meal: meal, Entries: entries}
		estimates, err = s.resolver.ResolveBatch(r.Context(), day.Foods())
		if err != nil {
			// Unresolved items are excluded by the active filters.
			log.Warn().Err(err).Msg("nutrition resolve unavailable for menu filtering")
			estimates = map[string]models.NutritionEstimate{}
		}
	}

	sections := catalog.Build(entries, prefs.DietaryFilters, prefs.NutritionFilters, estimates, ratings)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"date":     date.Format("2006-01-02"),
		"mealType": meal,
		"sections": sections,
	})
}

type nutritionRequest struct {
	Items []struct {
		Name        string `json:"name"`
		ServingSize string `json:"servingSize"`
		Ingredients string `json:"ingredients"`
	} `json:"items"`
}

func (s *Server) handleNutrition(w http.ResponseWriter, r *http.Request) {
	var req nutritionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	foods := make([]models.Food, 0, len(req.Items))
	for _, item := range req.Items {
		foods = append(foods, models.Food{
			Name:        item.Name,
			ServingSize: item.ServingSize,
			Ingredients: item.Ingredients,
		})
	}

	results, err := s.resolver.ResolveBatch(r.Context(), foods)
	if err != nil {
		if errors.Is(err, models.ErrNotConfigured) {
			writeError(w, http.StatusInternalServerError, "Gemini API key not configured")
			return
		}
		writeError(w, http.StatusInternalServerError, "nutrition resolution failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

func (s *Server) handleGetRatings(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "email required")
		return
	}
	b := s.board(r, email)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ratings":   b.Visual(),
		"sortOrder": b.SortOrder(),
	})
}

type ratingRequest struct {
	Email    string `json:"email"`
	FoodName string `json:"foodName"`
	Rating   string `json:"rating"`
}

// handleSetRating applies a toggle: requesting the current rating clears it.
// The visual state in the response reflects the change immediately; the menu
// ordering follows after the reorder delay.
func (s *Server) handleSetRating(w http.ResponseWriter, r *http.Request) {
	var req ratingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.FoodName == "" {
		writeError(w, http.StatusBadRequest, "email and foodName required")
		return
	}
	requested, err := models.ParseRating(req.Rating)
	if err != nil || requested == models.RatingNeutral {
		writeError(w, http.StatusBadRequest, "rating must be like or dislike")
		return
	}

	key := models.NormalizeKey(req.FoodName)
	effective := s.board(r, req.Email).Toggle(key, requested)

	if err := s.ratings.Set(r.Context(), req.Email, key, effective); err != nil {
		log.Error().Err(err).Str("email", req.Email).Str("food", key).Msg("failed to persist rating")
		writeError(w, http.StatusInternalServerError, "failed to save rating")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"rating": effective})
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "email required")
		return
	}

	prefs, err := s.prefs.Get(r.Context(), email)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("preference lookup failed")
		writeError(w, http.StatusInternalServerError, "failed to load preferences")
		return
	}
	if prefs == nil {
		prefs = &models.Preferences{Goals: models.DefaultGoals()}
	}
	writeJSON(w, http.StatusOK, prefs)
}

type preferencesRequest struct {
	Email string `json:"email"`
	models.Preferences
}

func (s *Server) handleSetPreferences(w http.ResponseWriter, r *http.Request) {
	var req preferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email required")
		return
	}
	if err := s.prefs.Upsert(r.Context(), req.Email, req.Preferences); err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("failed to save preferences")
		writeError(w, http.StatusInternalServerError, "failed to save preferences")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type recommendRequest struct {
	MenuItems  []models.FoodWithNutrition `json:"menuItems"`
	Goals      models.RecommendationGoals `json:"goals"`
	LikedItems []string                   `json:"likedItems"`
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.MenuItems) == 0 {
		writeError(w, http.StatusBadRequest, "Menu items required")
		return
	}

	plan, err := s.composer.ComposeMeal(r.Context(), req.MenuItems, req.Goals, req.LikedItems)
	if err != nil {
		s.writeComposeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"recommendation": plan})
}

type recommendDayRequest struct {
	BreakfastItems []models.FoodWithNutrition `json:"breakfastItems"`
	LunchItems     []models.FoodWithNutrition `json:"lunchItems"`
	DinnerItems    []models.FoodWithNutrition `json:"dinnerItems"`
	Goals          models.RecommendationGoals `json:"goals"`
	LikedItems     []string                   `json:"likedItems"`
}

func (s *Server) handleRecommendDay(w http.ResponseWriter, r *http.Request) {
	var req recommendDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	plan, err := s.composer.ComposeDay(r.Context(), req.BreakfastItems, req.LunchItems, req.DinnerItems, req.Goals, req.LikedItems)
	if err != nil {
		s.writeComposeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"recommendation": plan})
}

func (s *Server) writeComposeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotConfigured):
		writeError(w, http.StatusInternalServerError, "Gemini API key not configured")
	case errors.Is(err, recommend.ErrNoRecommendation):
		writeError(w, http.StatusBadGateway, recommend.ErrNoRecommendation.Error())
	default:
		writeError(w, http.StatusInternalServerError, "recommendation failed")
	}
}

func (s *Server) handleDigestStatus(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "email required")
		return
	}
	optedIn, err := s.subs.IsSubscribed(r.Context(), email)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("subscription lookup failed")
		writeError(w, http.StatusInternalServerError, "failed to check subscription")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"optedIn": optedIn})
}

type digestRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	OptIn bool   `json:"optIn"`
}

// handleDigestSubscribe flips the subscription flag and, on opt-in, builds
// and sends tomorrow's digest immediately. A failed send is reported but
// never reverts the subscription.
func (s *Server) handleDigestSubscribe(w http.ResponseWriter, r *http.Request) {
	var req digestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email required")
		return
	}

	if err := s.users.FindOrCreate(r.Context(), req.Email, req.Name); err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("failed to upsert user")
		writeError(w, http.StatusInternalServerError, "failed to update subscription")
		return
	}
	if err := s.subs.Set(r.Context(), req.Email, req.OptIn); err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("failed to update subscription")
		writeError(w, http.StatusInternalServerError, "failed to update subscription")
		return
	}
	if !req.OptIn {
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "subscribed": false})
		return
	}

	tomorrow := time.Now().AddDate(0, 0, 1)
	user := models.DigestUser{Email: req.Email, Name: req.Name}
	payload, err := s.orchestrator.BuildDigest(r.Context(), user, tomorrow)
	if err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("failed to build digest")
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error": "failed to build digest", "subscribed": true,
		})
		return
	}

	if err := s.archiver.Archive(r.Context(), payload); err != nil {
		log.Warn().Err(err).Str("id", payload.ID).Msg("digest archive failed")
	}

	if err := s.delivery.Send(r.Context(), payload); err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("digest delivery failed")
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error": "failed to send digest", "subscribed": true,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true, "subscribed": true, "emailSent": true,
	})
}
