// Package openai provides an embeddings.Provider backed by the OpenAI API.
package openai

import (
	"context"
	"fmt"
	"os"

	oa "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/pkg/errors"

	"github.com/tripweaver/assistant/internal/model"
)

type Provider struct {
	client oa.Client
	model  string
}

// New reads OPENAI_API_KEY from the environment.
func New(embedModel string) (*Provider, error) {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	return &Provider{client: oa.NewClient(option.WithAPIKey(key)), model: embedModel}, nil
}

func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("empty text")
	}

	resp, err := p.client.Embeddings.New(ctx, oa.EmbeddingNewParams{
		Model: oa.EmbeddingModel(p.model),
		Input: oa.EmbeddingNewParamsInputUnion{OfString: oa.String(text)},
	})
	if err != nil {
		return nil, errors.Wrap(model.ErrExternal, err.Error())
	}
	if len(resp.Data) == 0 {
		return nil, errors.Wrap(model.ErrExternal, "embedding response is empty")
	}

	raw := resp.Data[0].Embedding
	vec := make([]float32, len(raw))
	for i, v := range raw {
		vec[i] = float32(v)
	}
	return vec, nil
}
