package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("FOODPLANNER_SERVER_PORT")
		os.Unsetenv("FOODPLANNER_SERVER_ENVIRONMENT")
		os.Unsetenv("FOODPLANNER_MATCHING_TOP_K")
		os.Unsetenv("FOODPLANNER_MATCHING_MIN_CONFIDENCE")
		os.Unsetenv("FOODPLANNER_MATCHING_FUZZY_SCORER")
		os.Unsetenv("FOODPLANNER_STORE_TYPE")
		os.Unsetenv("FOODPLANNER_STORE_DSN")
		os.Unsetenv("FOODPLANNER_CATALOG_SOURCE")
		os.Unsetenv("FOODPLANNER_CATALOG_BASE_URL")
		os.Unsetenv("FOODPLANNER_CATALOG_TIMEOUT")
		os.Unsetenv("FOODPLANNER_LOG_LEVEL")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Matching.TopK != 3 {
			t.Errorf("Matching.TopK = %d, want 3", cfg.Matching.TopK)
		}
		if cfg.Matching.MinConfidence != 0.6 {
			t.Errorf("Matching.MinConfidence = %v, want 0.6", cfg.Matching.MinConfidence)
		}
		if cfg.Matching.BatchSize != 50 {
			t.Errorf("Matching.BatchSize = %d, want 50", cfg.Matching.BatchSize)
		}
		if cfg.Matching.UnmatchedLimit != 10000 {
			t.Errorf("Matching.UnmatchedLimit = %d, want 10000", cfg.Matching.UnmatchedLimit)
		}
		if cfg.Matching.FuzzyScorer != "token_sort" {
			t.Errorf("Matching.FuzzyScorer = %s, want token_sort", cfg.Matching.FuzzyScorer)
		}
		if cfg.Store.Type != "sqlite" {
			t.Errorf("Store.Type = %s, want sqlite", cfg.Store.Type)
		}
		if cfg.Catalog.Source != "store" {
			t.Errorf("Catalog.Source = %s, want store", cfg.Catalog.Source)
		}
		if cfg.Catalog.Timeout != 30*time.Second {
			t.Errorf("Catalog.Timeout = %v, want 30s", cfg.Catalog.Timeout)
		}
		if cfg.Log.Level != "info" {
			t.Errorf("Log.Level = %s, want info", cfg.Log.Level)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("FOODPLANNER_SERVER_PORT", "9090")
		os.Setenv("FOODPLANNER_SERVER_ENVIRONMENT", "production")
		os.Setenv("FOODPLANNER_MATCHING_TOP_K", "5")
		os.Setenv("FOODPLANNER_MATCHING_MIN_CONFIDENCE", "0.75")
		os.Setenv("FOODPLANNER_MATCHING_FUZZY_SCORER", "levenshtein")
		os.Setenv("FOODPLANNER_STORE_TYPE", "memory")
		os.Setenv("FOODPLANNER_CATALOG_SOURCE", "http")
		os.Setenv("FOODPLANNER_CATALOG_BASE_URL", "https://catalog.example.com")
		os.Setenv("FOODPLANNER_CATALOG_TIMEOUT", "5s")
		os.Setenv("FOODPLANNER_LOG_LEVEL", "debug")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if !cfg.IsProduction() {
			t.Errorf("IsProduction() = false, want true")
		}
		if cfg.Matching.TopK != 5 {
			t.Errorf("Matching.TopK = %d, want 5", cfg.Matching.TopK)
		}
		if cfg.Matching.MinConfidence != 0.75 {
			t.Errorf("Matching.MinConfidence = %v, want 0.75", cfg.Matching.MinConfidence)
		}
		if cfg.Matching.FuzzyScorer != "levenshtein" {
			t.Errorf("Matching.FuzzyScorer = %s, want levenshtein", cfg.Matching.FuzzyScorer)
		}
		if cfg.StoreDSN() != ":memory:" {
			t.Errorf("StoreDSN() = %s, want :memory:", cfg.StoreDSN())
		}
		if cfg.Catalog.BaseURL != "https://catalog.example.com" {
			t.Errorf("Catalog.BaseURL = %s, want https://catalog.example.com", cfg.Catalog.BaseURL)
		}
		if cfg.Catalog.Timeout != 5*time.Second {
			t.Errorf("Catalog.Timeout = %v, want 5s", cfg.Catalog.Timeout)
		}
		if cfg.Log.Level != "debug" {
			t.Errorf("Log.Level = %s, want debug", cfg.Log.Level)
		}
	})

	t.Run("fails validation when http catalog has no base URL", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("FOODPLANNER_CATALOG_SOURCE", "http")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for missing base URL")
		}
	})

	t.Run("fails validation for invalid store type", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("FOODPLANNER_STORE_TYPE", "postgres")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for invalid store type")
		}
	})
}

func TestLoadFile(t *testing.T) {
	t.Run("reads an explicit yaml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "foodplanner.yaml")
		content := `
matching:
  top_k: 7
  synonyms_file: synonyms.yaml
store:
  type: sqlite
  dsn: /tmp/test.db
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write config file: %v", err)
		}

		cfg, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile() error = %v, want nil", err)
		}
		if cfg.Matching.TopK != 7 {
			t.Errorf("Matching.TopK = %d, want 7", cfg.Matching.TopK)
		}
		if cfg.Matching.SynonymsFile != "synonyms.yaml" {
			t.Errorf("Matching.SynonymsFile = %s, want synonyms.yaml", cfg.Matching.SynonymsFile)
		}
		if cfg.StoreDSN() != "/tmp/test.db" {
			t.Errorf("StoreDSN() = %s, want /tmp/test.db", cfg.StoreDSN())
		}
		// untouched keys keep their defaults
		if cfg.Matching.BatchSize != 50 {
			t.Errorf("Matching.BatchSize = %d, want 50", cfg.Matching.BatchSize)
		}
	})

	t.Run("fails when the explicit file is missing", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
		if err == nil {
			t.Error("LoadFile() error = nil, want error for missing file")
		}
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("returns nil when .env file doesn't exist", func(t *testing.T) {
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		os.Chdir(t.TempDir())

		if err := loadEnvFile(); err != nil {
			t.Errorf("loadEnvFile() error = %v, want nil when file doesn't exist", err)
		}
	})

	t.Run("loads variables from .env file", func(t *testing.T) {
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		os.Chdir(t.TempDir())

		envContent := `
# Comment line
TEST_VAR_1=value1
TEST_VAR_2=value2

# Another comment
TEST_VAR_3=value3
`
		if err := os.WriteFile(".env", []byte(envContent), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		os.Unsetenv("TEST_VAR_1")
		os.Unsetenv("TEST_VAR_2")
		os.Unsetenv("TEST_VAR_3")
		defer func() {
			os.Unsetenv("TEST_VAR_1")
			os.Unsetenv("TEST_VAR_2")
			os.Unsetenv("TEST_VAR_3")
		}()

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_VAR_1") != "value1" {
			t.Errorf("TEST_VAR_1 = %s, want value1", os.Getenv("TEST_VAR_1"))
		}
		if os.Getenv("TEST_VAR_2") != "value2" {
			t.Errorf("TEST_VAR_2 = %s, want value2", os.Getenv("TEST_VAR_2"))
		}
		if os.Getenv("TEST_VAR_3") != "value3" {
			t.Errorf("TEST_VAR_3 = %s, want value3", os.Getenv("TEST_VAR_3"))
		}
	})

	t.Run("doesn't override existing environment variables", func(t *testing.T) {
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		os.Chdir(t.TempDir())

		os.Setenv("TEST_OVERRIDE", "existing-value")
		defer os.Unsetenv("TEST_OVERRIDE")

		if err := os.WriteFile(".env", []byte("TEST_OVERRIDE=new-value"), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_OVERRIDE") != "existing-value" {
			t.Errorf("TEST_OVERRIDE = %s, want existing-value (should not override)", os.Getenv("TEST_OVERRIDE"))
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Matching: MatchingConfig{TopK: 3, MinConfidence: 0.6, BatchSize: 50, FuzzyScorer: "token_sort"},
			Store:    StoreConfig{Type: "sqlite", DSN: "foodplanner.db"},
			Catalog:  CatalogConfig{Source: "store"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid config", func(*Config) {}, false},
		{"zero top_k", func(c *Config) { c.Matching.TopK = 0 }, true},
		{"confidence above one", func(c *Config) { c.Matching.MinConfidence = 1.5 }, true},
		{"zero batch size", func(c *Config) { c.Matching.BatchSize = 0 }, true},
		{"unknown scorer", func(c *Config) { c.Matching.FuzzyScorer = "jaro" }, true},
		{"levenshtein scorer", func(c *Config) { c.Matching.FuzzyScorer = "levenshtein" }, false},
		{"sqlite without DSN", func(c *Config) { c.Store.DSN = "" }, true},
		{"memory store without DSN", func(c *Config) { c.Store = StoreConfig{Type: "memory"} }, false},
		{"unknown catalog source", func(c *Config) { c.Catalog.Source = "ftp" }, true},
		{"http catalog with URL", func(c *Config) { c.Catalog = CatalogConfig{Source: "http", BaseURL: "https://x"} }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
