// Package embeddings defines the vector-embedding boundary.
package embeddings

import "context"

// Provider produces vector representations for text. Dimensionality is fixed
// per model; callers must not mix vectors from different models.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
