package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/foodplanner/backend/config"
	"github.com/foodplanner/backend/internal/domain"
	"github.com/foodplanner/backend/internal/infrastructure/catalog"
	"github.com/foodplanner/backend/internal/infrastructure/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Matching: config.MatchingConfig{TopK: 3, MinConfidence: 0.6, BatchSize: 10, FuzzyScorer: "token_sort"},
		Store:    config.StoreConfig{Type: "memory"},
		Catalog:  config.CatalogConfig{Source: "store"},
	}
}

func TestNew_MemoryStore(t *testing.T) {
	ctx := context.Background()

	a, err := New(ctx, memoryConfig(), nil)
	require.NoError(t, err)
	defer a.Close()

	_, isStore := a.Catalog.(*sqlite.Store)
	assert.True(t, isStore)

	require.NoError(t, a.Store.SaveProducts(ctx, []domain.Product{{ID: "p1", Name: "Ketchup", Price: 20}}))

	matches, err := a.Matcher.FindMatches(ctx, "2 tbsp ketchup", 0, 0.6)
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, "p1", matches[0].ProductID)
}

func TestNew_HTTPCatalog(t *testing.T) {
	cfg := memoryConfig()
	cfg.Catalog = config.CatalogConfig{Source: "http", BaseURL: "http://127.0.0.1:1"}

	a, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer a.Close()

	_, isClient := a.Catalog.(*catalog.Client)
	assert.True(t, isClient)
}

func TestNew_SynonymFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "synonyms.yaml")
	require.NoError(t, os.WriteFile(path, []byte("aubergine: [brinjal]\n"), 0644))

	cfg := memoryConfig()
	cfg.Matching.SynonymsFile = path

	a, err := New(ctx, cfg, nil)
	require.NoError(t, err)
	defer a.Close()

	assert.Contains(t, a.Matcher.Synonyms("aubergine"), "brinjal")
}

func TestNew_Errors(t *testing.T) {
	t.Run("unknown scorer", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.Matching.FuzzyScorer = "soundex"

		_, err := New(context.Background(), cfg, nil)
		assert.Error(t, err)
	})

	t.Run("missing synonym file", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.Matching.SynonymsFile = filepath.Join(t.TempDir(), "missing.yaml")

		_, err := New(context.Background(), cfg, nil)
		assert.Error(t, err)
	})
}
