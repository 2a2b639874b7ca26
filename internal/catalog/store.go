// Package catalog exposes the travel catalog: destinations, hotels, and
// activities with their embeddings.
package catalog

import (
	"context"

	"github.com/tripweaver/assistant/internal/model"
)

// BackfillRow is an activity awaiting an embedding, joined with its
// destination name for prompt construction.
type BackfillRow struct {
	Activity        model.Activity
	DestinationName string
}

// Store is the catalog access boundary. Name resolution is case-insensitive
// and fails explicitly on zero or multiple matches; similarity search orders
// descending and keeps only rows strictly above the threshold.
type Store interface {
	ResolveDestination(ctx context.Context, name string) (*model.Destination, error)
	SearchActivities(ctx context.Context, destinationID int64, queryVec []float32, threshold float64, limit int) ([]model.ActivityMatch, error)
	HotelsForDestination(ctx context.Context, destinationID int64) ([]model.Hotel, error)

	// Backfill support: activities whose embedding has not been computed yet,
	// and writing a computed vector back.
	ListActivitiesMissingEmbedding(ctx context.Context) ([]BackfillRow, error)
	UpdateActivityEmbedding(ctx context.Context, activityID int64, vec []float32) error

	HealthCheck(ctx context.Context) error
	Close() error
}
