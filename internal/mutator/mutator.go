// Package mutator rewrites an itinerary document from a natural-language
// change description with a single model call.
package mutator

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/tripweaver/assistant/internal/llm"
	"github.com/tripweaver/assistant/internal/model"
)

const promptTemplate = `You are a helpful AI assistant for a travel company.
Your task is to understand the itinerary and the changes requested by the
traveler, apply those changes, and return the complete updated itinerary.
Return the full document, not a diff.

original_itinerary: %s
changes_required: %s

updated_itinerary:`

// Mutator is stateless; each Apply call is independent. It does not retry
// and does not validate the returned document - both belong to the caller.
type Mutator struct {
	client llm.ChatClient
	model  string
}

func New(client llm.ChatClient, chatModel string) *Mutator {
	return &Mutator{client: client, model: chatModel}
}

// Apply returns the rewritten itinerary. Both arguments are required.
func (m *Mutator) Apply(ctx context.Context, itinerary, changeDescription string) (string, error) {
	if strings.TrimSpace(itinerary) == "" {
		return "", errors.Wrap(model.ErrValidation, "itinerary is required")
	}
	if strings.TrimSpace(changeDescription) == "" {
		return "", errors.Wrap(model.ErrValidation, "change description is required")
	}

	messages := []llm.Message{{
		Role:    "system",
		Content: fmt.Sprintf(promptTemplate, itinerary, changeDescription),
	}}

	out, err := m.client.Complete(ctx, m.model, messages, nil)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out.Content) == "" {
		return "", errors.Wrap(model.ErrExternal, "mutator returned an empty document")
	}
	return out.Content, nil
}
