package providers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/nexithium/nexithium/internal/schema"
	"github.com/nexithium/nexithium/internal/shared/llmutils"
)

const (
	DefaultAPIBase = "https://api.openai.com/v1"
	DefaultTimeout = 60 * time.Second
)

// OpenAIProvider sends chat completions to any OpenAI-compatible endpoint.
// Requests are never retried.
type OpenAIProvider struct {
	apiKey       string
	apiBase      string
	defaultModel string
	client       openai.Client
}

var _ schema.ToolCallingProvider = (*OpenAIProvider)(nil)

// NewOpenAIProvider constructs a provider from raw config values.
// An empty apiBase selects the public OpenAI API.
func NewOpenAIProvider(apiKey, apiBase, defaultModel string, timeout time.Duration) *OpenAIProvider {
	base := strings.TrimRight(llmutils.StringOrDefault(apiBase, DefaultAPIBase), "/") + "/"
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(base),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(timeout),
	)

	return &OpenAIProvider{
		apiKey:       apiKey,
		apiBase:      base,
		defaultModel: defaultModel,
		client:       client,
	}
}

func (p *OpenAIProvider) DefaultModel() string { return p.defaultModel }
func (p *OpenAIProvider) APIBase() string      { return p.apiBase }

// Complete implements schema.CompletionProvider. Every failure is returned as
// a *CompletionError.
func (p *OpenAIProvider) Complete(ctx context.Context, turns []schema.Turn, opts schema.ChatOptions) (string, error) {
	completion, err := p.CompleteWithTools(ctx, turns, nil, opts)
	if err != nil {
		return "", err
	}
	return completion.Content, nil
}

// CompleteWithTools implements schema.ToolCallingProvider. With no tools the
// request carries no tools field.
func (p *OpenAIProvider) CompleteWithTools(
	ctx context.Context,
	turns []schema.Turn,
	tools []schema.ToolDefinition,
	opts schema.ChatOptions,
) (schema.Completion, error) {
	model := llmutils.StringOrDefault(opts.Model, p.defaultModel)
	if p.apiKey == "" {
		return schema.Completion{}, &CompletionError{Model: model, Err: ErrNoAPIKey}
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: toOpenAIMessages(turns),
		Tools:    toOpenAITools(tools),
	}
	if opts.Temperature >= 0 {
		params.Temperature = openai.Float(opts.Temperature)
	}
	if opts.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(opts.MaxTokens))
	}

	slog.Debug("Sending completion", "model", model, "turns", len(turns), "tools", len(tools))

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		cerr := &CompletionError{Model: model, Err: err}
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			cerr.StatusCode = apiErr.StatusCode
		}
		slog.Warn("Completion failed", "model", model, "err", err)
		return schema.Completion{}, cerr
	}

	if len(completion.Choices) == 0 {
		return schema.Completion{}, &CompletionError{Model: model, Err: ErrEmptyCompletion}
	}

	msg := completion.Choices[0].Message
	out := schema.Completion{Content: strings.TrimSpace(llmutils.StripThink(msg.Content))}
	for _, tc := range msg.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, schema.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	slog.Debug("Completion received", "model", model, "chars", len(out.Content), "tool_calls", len(out.ToolCalls))
	return out, nil
}

// toOpenAIMessages converts turns to the SDK message union; unknown roles are skipped.
func toOpenAIMessages(turns []schema.Turn) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(turns))
	for _, t := range turns {
		switch t.Role {
		case schema.RoleSystem:
			messages = append(messages, openai.SystemMessage(t.Content))
		case schema.RoleUser:
			messages = append(messages, openai.UserMessage(t.Content))
		case schema.RoleAssistant:
			if len(t.ToolCalls) == 0 {
				messages = append(messages, openai.AssistantMessage(t.Content))
				continue
			}
			messages = append(messages, assistantToolCalls(t))
		case schema.RoleTool:
			messages = append(messages, openai.ToolMessage(t.Content, t.ToolCallID))
		}
	}
	return messages
}

func assistantToolCalls(t schema.Turn) openai.ChatCompletionMessageParamUnion {
	calls := make([]openai.ChatCompletionMessageToolCallParam, 0, len(t.ToolCalls))
	for _, tc := range t.ToolCalls {
		calls = append(calls, openai.ChatCompletionMessageToolCallParam{
			ID: tc.ID,
			Function: openai.ChatCompletionMessageToolCallFunctionParam{
				Name:      tc.Name,
				Arguments: tc.Arguments,
			},
		})
	}
	assistant := openai.ChatCompletionAssistantMessageParam{ToolCalls: calls}
	if t.Content != "" {
		assistant.Content.OfString = openai.String(t.Content)
	}
	return openai.ChatCompletionMessageParamUnion{OfAssistant: &assistant}
}

// toOpenAITools converts tool definitions to function tools. A schema that
// does not decode to an object is sent as an empty object schema.
func toOpenAITools(defs []schema.ToolDefinition) []openai.ChatCompletionToolParam {
	if len(defs) == 0 {
		return nil
	}
	out := make([]openai.ChatCompletionToolParam, 0, len(defs))
	for _, def := range defs {
		var params openai.FunctionParameters
		if err := json.Unmarshal(def.Parameters, &params); err != nil || params == nil {
			params = openai.FunctionParameters{"type": "object", "properties": map[string]any{}}
		}
		out = append(out, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        def.Name,
				Description: openai.String(def.Description),
				Parameters:  params,
			},
		})
	}
	return out
}
