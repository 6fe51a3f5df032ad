// Package app wires configuration into the matching and shopping use cases.
package app

import (
	"context"
	"fmt"

	"github.com/foodplanner/backend/config"
	"github.com/foodplanner/backend/internal/domain"
	"github.com/foodplanner/backend/internal/infrastructure/cache"
	"github.com/foodplanner/backend/internal/infrastructure/catalog"
	"github.com/foodplanner/backend/internal/infrastructure/sqlite"
	"github.com/foodplanner/backend/internal/usecase"
	"go.uber.org/zap"
)

// App holds the long-lived components shared by the server and the CLI
type App struct {
	DB       *sqlite.DB
	Store    *sqlite.Store
	Catalog  domain.CatalogSource
	Cache    *cache.ProductCache
	Matcher  *usecase.IngredientMatcher
	Shopping *usecase.ShoppingListService
}

// New opens the store, runs migrations and builds the use cases
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sqlite.Open(ctx, cfg.StoreDSN())
	if err != nil {
		return nil, err
	}

	version, dirty, err := sqlite.RunMigrations(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("database ready",
		zap.String("store", cfg.Store.Type),
		zap.Uint("schema_version", version),
		zap.Bool("dirty", dirty))

	store := sqlite.NewStore(db)

	var source domain.CatalogSource = store
	if cfg.Catalog.Source == "http" {
		source = catalog.NewClient(catalog.Config{
			BaseURL:       cfg.Catalog.BaseURL,
			APIKey:        cfg.Catalog.APIKey,
			Timeout:       cfg.Catalog.Timeout,
			RatePerSecond: cfg.Catalog.RatePerSecond,
			Burst:         cfg.Catalog.Burst,
		}, logger)
		logger.Info("using remote catalog", zap.String("base_url", cfg.Catalog.BaseURL))
	}

	scorer, err := usecase.NewScorer(cfg.Matching.FuzzyScorer)
	if err != nil {
		db.Close()
		return nil, err
	}

	var extra map[string][]string
	if cfg.Matching.SynonymsFile != "" {
		extra, err = usecase.LoadSynonymFile(cfg.Matching.SynonymsFile)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to load synonyms: %w", err)
		}
		logger.Info("loaded synonym extensions", zap.Int("groups", len(extra)))
	}

	productCache := cache.NewProductCache()
	matcher := usecase.NewIngredientMatcher(
		source,
		store,
		productCache,
		usecase.NewSynonymResolver(extra),
		usecase.MatcherConfig{
			TopK:           cfg.Matching.TopK,
			MinConfidence:  cfg.Matching.MinConfidence,
			BatchSize:      cfg.Matching.BatchSize,
			UnmatchedLimit: cfg.Matching.UnmatchedLimit,
			Scorer:         scorer,
		},
		logger,
	)

	return &App{
		DB:       db,
		Store:    store,
		Catalog:  source,
		Cache:    productCache,
		Matcher:  matcher,
		Shopping: usecase.NewShoppingListService(matcher, logger),
	}, nil
}

// Close releases the database
func (a *App) Close() error {
	return a.DB.Close()
}
