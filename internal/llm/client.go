// Package llm defines the chat-completion boundary used by the assistant.
package llm

import (
	"context"
	"encoding/json"
)

// Message is one chat message sent to or returned by the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Tool describes a callable tool advertised to the model. Parameters is a
// JSON-schema object.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
}

// ToolCall is a model-issued request to invoke a named tool.
type ToolCall struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

// Completion is the model's reply: free text, tool calls, or both.
// ToolCalls preserve the order the model returned them.
type Completion struct {
	Content   string
	ToolCalls []ToolCall
}

// ChatClient produces a completion for an ordered transcript and a tool
// catalog. Implementations run at temperature 0.
type ChatClient interface {
	Complete(ctx context.Context, model string, messages []Message, tools []Tool) (*Completion, error)
}
