package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the trip assistant service.
// Environment variables are parsed from the TRIP_ASSISTANT_ prefix.
type Config struct {
	// Build target selects high-level environment: local, cloud-dev, cloud
	BuildTarget string `envconfig:"BUILD_TARGET" default:"local"`

	// Derived or override catalog driver: postgres | sqlite
	CatalogDriver string `envconfig:"CATALOG_DRIVER" default:"auto"`

	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Catalog database configuration
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"assistant-catalog.db"`

	// Language-model configuration
	ChatModel    string `envconfig:"CHAT_MODEL" default:"gpt-4o-mini"`
	MutatorModel string `envconfig:"MUTATOR_MODEL" default:"gpt-4o"`

	// Embedding configuration
	EmbedProvider string `envconfig:"EMBED_PROVIDER" default:"openai"`
	EmbedModel    string `envconfig:"EMBED_MODEL" default:"text-embedding-ada-002"`

	// Activity lookup tuning. Matches must score strictly above the
	// threshold; at most SearchLimit matches are returned.
	SimilarityThreshold float64 `envconfig:"SIMILARITY_THRESHOLD" default:"0.85"`
	SearchLimit         int     `envconfig:"SEARCH_LIMIT" default:"5"`

	// Conversation context policy: the model sees the system turn plus at
	// most this many trailing turns. The stored transcript is not trimmed.
	ContextWindowTurns int `envconfig:"CONTEXT_WINDOW_TURNS" default:"40"`

	// Deadline applied to every external call (model, embedding, database).
	ExternalCallTimeout time.Duration `envconfig:"EXTERNAL_CALL_TIMEOUT" default:"45s"`
}

// ResolveDefaults validates BuildTarget and derives CatalogDriver when it is
// "auto" or empty.
func (c *Config) ResolveDefaults() error {
	var defaultDriver string

	switch c.BuildTarget {
	case "local":
		defaultDriver = "sqlite"
	case "cloud-dev", "cloud":
		defaultDriver = "postgres"
	default:
		return fmt.Errorf("unsupported BUILD_TARGET: %s", c.BuildTarget)
	}

	if c.CatalogDriver == "" || c.CatalogDriver == "auto" {
		c.CatalogDriver = defaultDriver
	}

	allowed := map[string]bool{"postgres": true, "sqlite": true}
	if !allowed[c.CatalogDriver] {
		return fmt.Errorf("unsupported CATALOG_DRIVER: %s", c.CatalogDriver)
	}
	if c.CatalogDriver == "postgres" && c.PostgresDSN == "" {
		return fmt.Errorf("POSTGRES_DSN is required for the postgres catalog driver")
	}
	if c.SearchLimit <= 0 {
		return fmt.Errorf("SEARCH_LIMIT must be positive, got %d", c.SearchLimit)
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold >= 1 {
		return fmt.Errorf("SIMILARITY_THRESHOLD must be in [0,1), got %f", c.SimilarityThreshold)
	}
	return nil
}

// New creates a new Config by parsing environment variables.
// Variables are prefixed with TRIP_ASSISTANT_, for example
// TRIP_ASSISTANT_HTTP_PORT or TRIP_ASSISTANT_POSTGRES_DSN.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("TRIP_ASSISTANT", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("catalog_driver", cfg.CatalogDriver).
		Str("environment", string(cfg.Environment)).
		Int("port", cfg.HTTPPort).
		Str("chat_model", cfg.ChatModel).
		Str("embed_provider", cfg.EmbedProvider).
		Str("embed_model", cfg.EmbedModel).
		Float64("similarity_threshold", cfg.SimilarityThreshold).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config specifically for testing.
func NewForTesting() *Config {
	cfg := &Config{
		Environment:         EnvTesting,
		BuildTarget:         "local",
		CatalogDriver:       "sqlite",
		SQLitePath:          ":memory:",
		HTTPPort:            8080,
		ChatModel:           "gpt-4o-mini",
		MutatorModel:        "gpt-4o",
		EmbedProvider:       "openai",
		EmbedModel:          "text-embedding-ada-002",
		SimilarityThreshold: 0.85,
		SearchLimit:         5,
		ContextWindowTurns:  40,
		ExternalCallTimeout: 45 * time.Second,
	}
	return cfg
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
