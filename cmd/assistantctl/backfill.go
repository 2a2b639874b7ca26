package main

import (
	"context"
	"fmt"
	"io"

	"github.com/tripweaver/assistant/internal/catalog"
	"github.com/tripweaver/assistant/internal/config"
	"github.com/tripweaver/assistant/internal/factory"
	"github.com/tripweaver/assistant/internal/logger"
)

// runBackfill embeds every catalog activity that has no stored vector yet.
// It talks to the catalog directly rather than through the service so it can
// run before the service is up.
func runBackfill(ctx context.Context, out io.Writer) error {
	log := logger.NewConsole("assistantctl")

	cfg, err := config.New()
	if err != nil {
		return err
	}

	store, err := factory.NewCatalogStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	embedder, err := factory.NewEmbeddingProvider(ctx, cfg, log)
	if err != nil {
		return err
	}

	pending, err := store.ListActivitiesMissingEmbedding(ctx)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		fmt.Fprintln(out, "all activities already embedded")
		return nil
	}

	var failed int
	for _, row := range pending {
		// Destination-qualified like the lookup query phrase, so stored and
		// query vectors live in the same space.
		text := fmt.Sprintf("%s, %s in %s", row.Activity.Name, row.Activity.Description, row.DestinationName)
		vec, err := embedder.Embed(ctx, text)
		if err != nil {
			log.Error().Err(err).Int64("activity_id", row.Activity.ID).Msg("embed failed")
			failed++
			continue
		}
		if err := store.UpdateActivityEmbedding(ctx, row.Activity.ID, vec); err != nil {
			log.Error().Err(err).Int64("activity_id", row.Activity.ID).Msg("update failed")
			failed++
			continue
		}
		fmt.Fprintf(out, "embedded %d: %s\n", row.Activity.ID, row.Activity.Name)
	}

	fmt.Fprintf(out, "done: %d embedded, %d failed\n", len(pending)-failed, failed)
	if failed > 0 {
		return fmt.Errorf("%d activities failed to embed", failed)
	}
	return nil
}

func printSchema(out io.Writer) {
	fmt.Fprint(out, catalog.SchemaSQL())
}
