package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ishankhire/gt-meal-planning/internal/catalog"
	"github.com/ishankhire/gt-meal-planning/internal/digest"
	"github.com/ishankhire/gt-meal-planning/internal/menu"
	"github.com/ishankhire/gt-meal-planning/internal/nutrition"
	"github.com/ishankhire/gt-meal-planning/internal/recommend"
	"github.com/ishankhire/gt-meal-planning/internal/repositories"
	"github.com/rs/zerolog/log"
)

// Server wires the HTTP surface over the domain components. One rating board
// is kept per user for the session-style toggle behavior.
type Server struct {
	source       menu.Source
	resolver     *nutrition.Resolver
	composer     recommend.Composer
	ratings      repositories.RatingRepository
	prefs        repositories.PreferenceRepository
	subs         repositories.SubscriptionRepository
	users        repositories.UserRepository
	orchestrator *digest.Orchestrator
	delivery     digest.Delivery
	archiver     digest.Archiver

	reorderDelay time.Duration

	mu     sync.Mutex
	boards map[string]*catalog.Board
}

func NewServer(
	source menu.Source,
	resolver *nutrition.Resolver,
	composer recommend.Composer,
	ratings repositories.RatingRepository,
	prefs repositories.PreferenceRepository,
	subs repositories.SubscriptionRepository,
	users repositories.UserRepository,
	orchestrator *digest.Orchestrator,
	delivery digest.Delivery,
	archiver digest.Archiver,
	reorderDelay time.Duration,
) *Server {
	return &Server{
		source:       source,
		resolver:     resolver,
		composer:     composer,
		ratings:      ratings,
		prefs:        prefs,
		subs:         subs,
		users:        users,
		orchestrator: orchestrator,
		delivery:     delivery,
		archiver:     archiver,
		reorderDelay: reorderDelay,
		boards:       make(map[string]*catalog.Board),
	}
}

// Router builds the chi route tree.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/menu", s.handleMenu)
		r.Post("/nutrition", s.handleNutrition)
		r.Get("/ratings", s.handleGetRatings)
		r.Post("/ratings", s.handleSetRating)
		r.Get("/preferences", s.handleGetPreferences)
		r.Post("/preferences", s.handleSetPreferences)
		r.Post("/recommend", s.handleRecommend)
		r.Post("/recommend-day", s.handleRecommendDay)
		r.Get("/digest", s.handleDigestStatus)
		r.Post("/digest", s.handleDigestSubscribe)
	})
	return r
}

// board returns the user's rating board, loading stored ratings on first use.
func (s *Server) board(r *http.Request, email string) *catalog.Board {
	s.mu.Lock()
	b, ok := s.boards[email]
	if !ok {
		b = catalog.NewBoard(s.reorderDelay)
		s.boards[email] = b
	}
	s.mu.Unlock()

	if !ok {
		stored, err := s.ratings.GetAll(r.Context(), email)
		if err != nil {
			log.Warn().Err(err).Str("email", email).Msg("failed to load stored ratings")
			return b
		}
		b.Load(stored)
	}
	return b
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
