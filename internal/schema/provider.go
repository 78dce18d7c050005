package schema

import (
	"context"
	"encoding/json"
)

// ChatOptions configures a single completion request.
type ChatOptions struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

func NewChatOptions(model string, maxTokens int, temperature float64) ChatOptions {
	return ChatOptions{
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
}

// CompletionProvider is the chat-completion endpoint the agent talks to.
// It accepts an ordered list of turns and returns one completion text.
type CompletionProvider interface {
	Complete(ctx context.Context, turns []Turn, opts ChatOptions) (string, error)
	DefaultModel() string
}

// ToolDefinition describes one tool offered to the model.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  json.RawMessage // JSON Schema object
}

// ToolCall is one tool invocation requested by the model. Arguments is the
// raw JSON object the model produced.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// Completion is a model reply that either answers or asks for tool calls.
type Completion struct {
	Content   string
	ToolCalls []ToolCall
}

// ToolCallingProvider is a CompletionProvider that can offer tools to the
// model and report the calls it asks for.
type ToolCallingProvider interface {
	CompletionProvider
	CompleteWithTools(ctx context.Context, turns []Turn, tools []ToolDefinition, opts ChatOptions) (Completion, error)
}
