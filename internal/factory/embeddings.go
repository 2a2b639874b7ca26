package factory

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tripweaver/assistant/internal/config"
	emb "github.com/tripweaver/assistant/internal/embeddings"
	embollama "github.com/tripweaver/assistant/internal/embeddings/ollama"
	embopenai "github.com/tripweaver/assistant/internal/embeddings/openai"
)

// NewEmbeddingProvider creates an embedding provider based on config.
// Launches an async warmup probe; returns the provider immediately so
// startup is not blocked on an external call.
func NewEmbeddingProvider(ctx context.Context, cfg *config.Config, log zerolog.Logger) (emb.Provider, error) {
	var provider emb.Provider

	switch cfg.EmbedProvider {
	case "", "openai":
		p, err := embopenai.New(cfg.EmbedModel)
		if err != nil {
			return nil, err
		}
		provider = p
	case "ollama":
		provider = embollama.New(cfg.EmbedModel)
	default:
		log.Warn().Str("provider", cfg.EmbedProvider).Msg("unknown embedding provider; using openai")
		p, err := embopenai.New(cfg.EmbedModel)
		if err != nil {
			return nil, err
		}
		provider = p
	}

	go func() {
		warmupCtx, cancel := context.WithTimeout(ctx, cfg.ExternalCallTimeout)
		defer cancel()

		if vec, err := provider.Embed(warmupCtx, "factory-warmup-check"); err != nil || len(vec) == 0 {
			log.Warn().Err(err).Int("vec_len", len(vec)).
				Str("provider", cfg.EmbedProvider).Str("model", cfg.EmbedModel).
				Msg("embedding provider warmup failed")
		} else {
			log.Debug().Str("provider", cfg.EmbedProvider).Str("model", cfg.EmbedModel).
				Msg("embedding provider warmup completed")
		}
	}()

	return provider, nil
}
