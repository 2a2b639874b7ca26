package factory

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tripweaver/assistant/internal/catalog"
	catpg "github.com/tripweaver/assistant/internal/catalog/postgres"
	catlite "github.com/tripweaver/assistant/internal/catalog/sqlite"
	"github.com/tripweaver/assistant/internal/config"
)

// NewCatalogStore opens the catalog backend selected by cfg.CatalogDriver.
// Postgres is the deployment target; SQLite serves local development with
// in-process scoring.
func NewCatalogStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (catalog.Store, error) {
	switch cfg.CatalogDriver {
	case "postgres":
		dsn := cfg.PostgresDSN
		if dsn == "" {
			return nil, fmt.Errorf("TRIP_ASSISTANT_POSTGRES_DSN is required when CATALOG_DRIVER=postgres")
		}
		db, err := catpg.Open(dsn)
		if err != nil {
			return nil, err
		}
		log.Info().Str("driver", cfg.CatalogDriver).Msg("catalog store ready")
		return catpg.NewWithDB(db)
	case "sqlite":
		s, err := catlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info().Str("driver", cfg.CatalogDriver).Str("path", cfg.SQLitePath).Msg("catalog store ready")
		return s, nil
	default:
		return nil, fmt.Errorf("unknown CATALOG_DRIVER: %s", cfg.CatalogDriver)
	}
}
