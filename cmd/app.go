package cmd

import (
	"context"
	"fmt"

	"github.com/ishankhire/gt-meal-planning/internal/cloudwriter"
	"github.com/ishankhire/gt-meal-planning/internal/digest"
	"github.com/ishankhire/gt-meal-planning/internal/gemini"
	"github.com/ishankhire/gt-meal-planning/internal/menu"
	"github.com/ishankhire/gt-meal-planning/internal/models"
	"github.com/ishankhire/gt-meal-planning/internal/nutrition"
	"github.com/ishankhire/gt-meal-planning/internal/recommend"
	"github.com/ishankhire/gt-meal-planning/internal/repositories/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
)

// app bundles the wired components shared by the serve and digest commands.
type app struct {
	cfg           *models.Config
	pool          *pgxpool.Pool
	source        menu.Source
	resolver      *nutrition.Resolver
	composer      recommend.Composer
	nutritionRepo *postgres.NutritionRepository
	ratingRepo    *postgres.RatingRepository
	prefRepo      *postgres.PreferenceRepository
	subRepo       *postgres.SubscriptionRepository
	userRepo      *postgres.UserRepository
	orchestrator  *digest.Orchestrator
	delivery      digest.Delivery
	archiver      digest.Archiver
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := models.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	a := &app{
		cfg:           cfg,
		pool:          pool,
		nutritionRepo: postgres.NewNutritionRepository(pool),
		ratingRepo:    postgres.NewRatingRepository(pool),
		prefRepo:      postgres.NewPreferenceRepository(pool),
		subRepo:       postgres.NewSubscriptionRepository(pool),
		userRepo:      postgres.NewUserRepository(pool),
	}

	client := gemini.NewClient(cfg.Gemini)
	a.resolver = nutrition.NewResolver(a.nutritionRepo, nutrition.NewGeminiEstimator(client))
	a.composer = recommend.NewGeminiComposer(client)

	if cfg.DemoMode {
		a.source = menu.NewDemoSource()
	} else {
		a.source = menu.NewNutrisliceSource(cfg.MenuFeed)
	}

	a.orchestrator = digest.NewOrchestrator(a.source, a.resolver, a.composer, a.prefRepo, a.ratingRepo)

	if cfg.Kafka.Enabled {
		a.delivery, err = digest.NewKafkaDelivery(cfg.Kafka)
		if err != nil {
			pool.Close()
			return nil, err
		}
	} else {
		a.delivery = digest.ConsoleDelivery{}
	}

	if cfg.Archive.Enabled {
		factory, err := cloudwriter.NewS3WriterFactory(cfg.Archive.Region)
		if err != nil {
			a.close()
			return nil, err
		}
		a.archiver = digest.NewObjectArchiver(factory, cfg.Archive)
	} else {
		a.archiver = digest.NopArchiver{}
	}

	return a, nil
}

func (a *app) close() {
	a.resolver.Wait()
	if a.delivery != nil {
		_ = a.delivery.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
