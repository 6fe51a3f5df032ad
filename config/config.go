package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Matching MatchingConfig `mapstructure:"matching"`
	Store    StoreConfig    `mapstructure:"store"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// MatchingConfig holds ingredient matching configuration
type MatchingConfig struct {
	TopK           int     `mapstructure:"top_k"`
	MinConfidence  float64 `mapstructure:"min_confidence"`
	BatchSize      int     `mapstructure:"batch_size"`
	UnmatchedLimit int     `mapstructure:"unmatched_limit"`
	FuzzyScorer    string  `mapstructure:"fuzzy_scorer"` // "token_sort" or "levenshtein"
	SynonymsFile   string  `mapstructure:"synonyms_file"`
}

// StoreConfig holds persistence configuration
type StoreConfig struct {
	Type string `mapstructure:"type"` // "sqlite" or "memory"
	DSN  string `mapstructure:"dsn"`
}

// CatalogConfig selects where the product catalog is read from
type CatalogConfig struct {
	Source        string        `mapstructure:"source"` // "store" or "http"
	BaseURL       string        `mapstructure:"base_url"`
	APIKey        string        `mapstructure:"api_key"`
	RatePerSecond float64       `mapstructure:"rate_per_second"`
	Burst         int           `mapstructure:"burst"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile loads configuration like Load, reading the given file instead of
// searching the default config paths when path is not empty.
func LoadFile(path string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/foodplanner/")
	}

	// FOODPLANNER_MATCHING_TOP_K -> matching.top_k
	v.SetEnvPrefix("FOODPLANNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads .env from the working directory when present.
// Variables already set in the environment win.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values.
// Every key needs a default so AutomaticEnv can resolve it on Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Matching defaults
	v.SetDefault("matching.top_k", 3)
	v.SetDefault("matching.min_confidence", 0.6)
	v.SetDefault("matching.batch_size", 50)
	v.SetDefault("matching.unmatched_limit", 10000)
	v.SetDefault("matching.fuzzy_scorer", "token_sort")
	v.SetDefault("matching.synonyms_file", "")

	// Store defaults
	v.SetDefault("store.type", "sqlite")
	v.SetDefault("store.dsn", "foodplanner.db")

	// Catalog defaults
	v.SetDefault("catalog.source", "store")
	v.SetDefault("catalog.base_url", "")
	v.SetDefault("catalog.api_key", "")
	v.SetDefault("catalog.rate_per_second", 5.0)
	v.SetDefault("catalog.burst", 10)
	v.SetDefault("catalog.timeout", "30s")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Matching.TopK <= 0 {
		return fmt.Errorf("matching top_k must be positive, got: %d", config.Matching.TopK)
	}

	if config.Matching.MinConfidence < 0 || config.Matching.MinConfidence > 1 {
		return fmt.Errorf("matching min_confidence must be between 0 and 1, got: %v", config.Matching.MinConfidence)
	}

	if config.Matching.BatchSize <= 0 {
		return fmt.Errorf("matching batch_size must be positive, got: %d", config.Matching.BatchSize)
	}

	if config.Matching.FuzzyScorer != "token_sort" && config.Matching.FuzzyScorer != "levenshtein" {
		return fmt.Errorf("fuzzy scorer must be 'token_sort' or 'levenshtein', got: %s", config.Matching.FuzzyScorer)
	}

	if config.Store.Type != "sqlite" && config.Store.Type != "memory" {
		return fmt.Errorf("store type must be 'sqlite' or 'memory', got: %s", config.Store.Type)
	}

	if config.Store.Type == "sqlite" && config.Store.DSN == "" {
		return fmt.Errorf("store DSN is required when store type is 'sqlite'")
	}

	if config.Catalog.Source != "store" && config.Catalog.Source != "http" {
		return fmt.Errorf("catalog source must be 'store' or 'http', got: %s", config.Catalog.Source)
	}

	if config.Catalog.Source == "http" && config.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog base URL is required when catalog source is 'http' (set FOODPLANNER_CATALOG_BASE_URL)")
	}

	return nil
}

// StoreDSN returns the DSN to open, an in-memory database for the memory store
func (c *Config) StoreDSN() string {
	if c.Store.Type == "memory" {
		return ":memory:"
	}
	return c.Store.DSN
}
