// Package lookup resolves free-text activity phrases into known catalog
// activities by embedding similarity.
package lookup

import (
	"context"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/tripweaver/assistant/internal/catalog"
	"github.com/tripweaver/assistant/internal/embeddings"
	"github.com/tripweaver/assistant/internal/model"
)

// Service performs the destination-scoped similarity search. Query
// embeddings are cached briefly so repeated phrasing does not re-bill the
// embedding API.
type Service struct {
	store     catalog.Store
	emb       embeddings.Provider
	cache     *gocache.Cache
	threshold float64
	limit     int
}

func New(store catalog.Store, emb embeddings.Provider, threshold float64, limit int) *Service {
	return &Service{
		store:     store,
		emb:       emb,
		cache:     gocache.New(10*time.Minute, 20*time.Minute),
		threshold: threshold,
		limit:     limit,
	}
}

// Search returns matching activities ordered by descending similarity. An
// empty result is not an error. Destination resolution failures surface as
// model.ErrNotFound or model.ErrAmbiguous so the caller can ask the user to
// clarify.
func (s *Service) Search(ctx context.Context, activity, destination string) ([]model.ActivityMatch, error) {
	if strings.TrimSpace(activity) == "" {
		return nil, errors.Wrap(model.ErrValidation, "activity is required")
	}
	if strings.TrimSpace(destination) == "" {
		return nil, errors.Wrap(model.ErrValidation, "destination is required")
	}

	dest, err := s.store.ResolveDestination(ctx, destination)
	if err != nil {
		return nil, err
	}

	vec, err := s.queryEmbedding(ctx, activity, dest.Name)
	if err != nil {
		return nil, err
	}

	return s.store.SearchActivities(ctx, dest.ID, vec, s.threshold, s.limit)
}

// SearchNames is Search reduced to activity names, the shape the assistant
// reports back to the user.
func (s *Service) SearchNames(ctx context.Context, activity, destination string) ([]string, error) {
	matches, err := s.Search(ctx, activity, destination)
	if err != nil {
		return nil, err
	}
	return lo.Map(matches, func(m model.ActivityMatch, _ int) string { return m.Name }), nil
}

func (s *Service) queryEmbedding(ctx context.Context, activity, destinationName string) ([]float32, error) {
	phrase := fmt.Sprintf("%s in %s", activity, destinationName)
	if cached, ok := s.cache.Get(phrase); ok {
		return cached.([]float32), nil
	}
	vec, err := s.emb.Embed(ctx, phrase)
	if err != nil {
		return nil, err
	}
	s.cache.Set(phrase, vec, gocache.DefaultExpiration)
	return vec, nil
}
