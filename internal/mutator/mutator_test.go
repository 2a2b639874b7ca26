package mutator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tripweaver/assistant/internal/llm"
	"github.com/tripweaver/assistant/internal/model"
)

type stubClient struct {
	completion *llm.Completion
	err        error
	gotModel   string
	gotPrompt  string
}

func (s *stubClient) Complete(ctx context.Context, chatModel string, messages []llm.Message, tools []llm.Tool) (*llm.Completion, error) {
	s.gotModel = chatModel
	if len(messages) > 0 {
		s.gotPrompt = messages[0].Content
	}
	return s.completion, s.err
}

func TestApplyEmbedsBothInputs(t *testing.T) {
	client := &stubClient{completion: &llm.Completion{Content: `{"day_1":"updated"}`}}
	m := New(client, "gpt-4o")

	out, err := m.Apply(context.Background(), `{"day_1":"original"}`, "swap day 1 and day 2")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if out != `{"day_1":"updated"}` {
		t.Fatalf("unexpected document: %q", out)
	}
	if client.gotModel != "gpt-4o" {
		t.Fatalf("wrong model: %s", client.gotModel)
	}
	if !strings.Contains(client.gotPrompt, `{"day_1":"original"}`) ||
		!strings.Contains(client.gotPrompt, "swap day 1 and day 2") {
		t.Fatal("prompt missing verbatim inputs")
	}
}

func TestApplyRequiresInputs(t *testing.T) {
	m := New(&stubClient{}, "gpt-4o")

	if _, err := m.Apply(context.Background(), "", "change"); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := m.Apply(context.Background(), "{}", "  "); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestApplyPropagatesModelFailure(t *testing.T) {
	client := &stubClient{err: model.ErrExternal}
	m := New(client, "gpt-4o")

	if _, err := m.Apply(context.Background(), "{}", "change"); !errors.Is(err, model.ErrExternal) {
		t.Fatalf("expected external error, got %v", err)
	}
}

func TestApplyRejectsEmptyModelOutput(t *testing.T) {
	client := &stubClient{completion: &llm.Completion{Content: "  "}}
	m := New(client, "gpt-4o")

	if _, err := m.Apply(context.Background(), "{}", "change"); !errors.Is(err, model.ErrExternal) {
		t.Fatalf("expected external error for empty output, got %v", err)
	}
}
