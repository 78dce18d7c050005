// Package agent composes a system prompt, a conversation window and the tool
// registry into completion requests, and renders every failure as text.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/nexithium/nexithium/internal/providers"
	"github.com/nexithium/nexithium/internal/schema"
	"github.com/nexithium/nexithium/internal/tools"
)

const (
	DefaultModel        = "gpt-4"
	DefaultTemperature  = 0.7
	DefaultMaxTokens    = 1024
	DefaultMemoryWindow = 20
	DefaultTimeout      = 60 * time.Second
	// MaxToolRounds bounds the model ↔ tool exchanges of one request.
	MaxToolRounds = 5
)

// DefaultSettings returns the sampling parameters used when none are configured.
func DefaultSettings() schema.AgentSettings {
	return schema.NewAgentSettings(DefaultModel, DefaultTemperature, DefaultMaxTokens, DefaultMemoryWindow, DefaultTimeout)
}

// Agent is created once per process (or per interface). Its memory reference
// may be swapped per user session with SetMemory; adapters serving several
// users at once pass the memory explicitly to RunWith and Exchange instead.
type Agent struct {
	name         string
	systemPrompt string
	tools        *tools.Registry
	provider     schema.CompletionProvider
	settings     schema.AgentSettings

	mu     sync.RWMutex
	memory schema.Memory
}

// New creates an agent. registry and mem may be nil.
func New(
	name, systemPrompt string,
	registry *tools.Registry,
	provider schema.CompletionProvider,
	settings schema.AgentSettings,
	mem schema.Memory,
) *Agent {
	if registry == nil {
		registry = tools.NewRegistry()
	}
	if settings.MemoryWindow <= 0 {
		settings.MemoryWindow = DefaultMemoryWindow
	}
	return &Agent{
		name:         name,
		systemPrompt: strings.TrimSpace(systemPrompt),
		tools:        registry,
		provider:     provider,
		settings:     settings,
		memory:       mem,
	}
}

func (a *Agent) Name() string                        { return a.name }
func (a *Agent) Settings() schema.AgentSettings      { return a.settings }
func (a *Agent) Registry() *tools.Registry           { return a.tools }
func (a *Agent) Provider() schema.CompletionProvider { return a.provider }

// SetMemory swaps the memory reference used by BuildRequest and Run.
func (a *Agent) SetMemory(m schema.Memory) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.memory = m
}

func (a *Agent) Memory() schema.Memory {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.memory
}

// Tools returns the registered tool names in registration order.
func (a *Agent) Tools() []string {
	return a.tools.Names()
}

// BuildRequest returns the system turn, the most recent MemoryWindow turns of
// the agent's memory and the user turn, in that order. Memory is not modified.
func (a *Agent) BuildRequest(input string) []schema.Turn {
	return a.buildRequest(a.Memory(), input)
}

func (a *Agent) buildRequest(mem schema.Memory, input string) []schema.Turn {
	var history []schema.Turn
	if mem != nil {
		history = schema.LastTurns(mem.Get(), a.settings.MemoryWindow)
	}

	turns := make([]schema.Turn, 0, len(history)+2)
	turns = append(turns, schema.NewSystemTurn(a.systemPrompt))
	for _, t := range history {
		// The request carries exactly one system turn.
		if t.Role == schema.RoleSystem {
			continue
		}
		turns = append(turns, t)
	}
	return append(turns, schema.NewUserTurn(input))
}

// Complete sends the request built from the agent's memory and returns the
// reply, or a *providers.CompletionError.
func (a *Agent) Complete(ctx context.Context, input string) (string, error) {
	return a.complete(ctx, a.Memory(), input)
}

func (a *Agent) complete(ctx context.Context, mem schema.Memory, input string) (string, error) {
	model := a.settings.Model
	if a.provider == nil {
		return "", &providers.CompletionError{Model: model, Err: errors.New("no completion provider configured")}
	}
	if model == "" {
		model = a.provider.DefaultModel()
	}

	if a.settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.settings.Timeout)
		defer cancel()
	}

	turns := a.buildRequest(mem, input)
	opts := schema.NewChatOptions(model, a.settings.MaxTokens, a.settings.Temperature)

	var reply string
	var err error
	if tp, ok := a.provider.(schema.ToolCallingProvider); ok && a.tools.Len() > 0 {
		reply, err = a.runTools(ctx, tp, turns, opts)
	} else {
		reply, err = a.provider.Complete(ctx, turns, opts)
	}
	if err != nil {
		var cerr *providers.CompletionError
		if errors.As(err, &cerr) {
			return "", err
		}
		return "", &providers.CompletionError{Model: model, Err: err}
	}
	return strings.TrimSpace(reply), nil
}

// runTools offers the registry to the model and executes the calls it asks
// for until it answers in text or MaxToolRounds is reached.
func (a *Agent) runTools(ctx context.Context, p schema.ToolCallingProvider, turns []schema.Turn, opts schema.ChatOptions) (string, error) {
	defs := a.tools.Definitions()
	for i := 0; i < MaxToolRounds; i++ {
		resp, err := p.CompleteWithTools(ctx, turns, defs, opts)
		if err != nil {
			return "", err
		}
		if len(resp.ToolCalls) == 0 {
			return resp.Content, nil
		}

		turns = append(turns, schema.NewToolCallTurn(resp.Content, resp.ToolCalls))
		for _, tc := range resp.ToolCalls {
			var result string
			if args, err := schema.ParseArgs(tc.Arguments); err != nil {
				result = fmt.Sprintf("❌ Invalid arguments for %s: %v", tc.Name, err)
			} else {
				result = a.InvokeTool(ctx, tc.Name, args)
			}
			turns = append(turns, schema.NewToolResultTurn(tc.ID, result))
		}
	}
	return "I've reached the maximum number of tool calls without a final answer.", nil
}

// Run is Complete with every failure rendered as "❌ Error: <msg>".
// It never returns an error and does not touch memory.
func (a *Agent) Run(ctx context.Context, input string) string {
	return a.RunWith(ctx, a.Memory(), input)
}

// RunWith is Run against an explicitly supplied memory.
func (a *Agent) RunWith(ctx context.Context, mem schema.Memory, input string) string {
	reply, err := a.complete(ctx, mem, input)
	if err != nil {
		slog.Warn("Agent run failed", "agent", a.name, "err", err)
		return renderError(err)
	}
	return reply
}

// Exchange runs input against mem and then records the user turn and the
// reply in mem. Persistence failures are logged; the reply is still returned.
func (a *Agent) Exchange(ctx context.Context, mem schema.Memory, input string) string {
	reply := a.RunWith(ctx, mem, input)
	Record(mem, input, reply)
	return reply
}

// Record appends one user/assistant pair to mem, logging any failure.
func Record(mem schema.Memory, input, reply string) {
	if mem == nil {
		return
	}
	if err := mem.Add(schema.RoleUser, input); err != nil {
		slog.Warn("Memory write failed", "role", schema.RoleUser, "err", err)
		return
	}
	if err := mem.Add(schema.RoleAssistant, reply); err != nil {
		slog.Warn("Memory write failed", "role", schema.RoleAssistant, "err", err)
	}
}

// InvokeTool runs a registered tool and returns its text. Unknown tools and
// tool failures are rendered as text; it never returns an error.
func (a *Agent) InvokeTool(ctx context.Context, name string, args schema.Args) string {
	out, err := a.tools.Invoke(ctx, name, args)
	if err == nil {
		return out
	}

	if errors.Is(err, tools.ErrToolNotFound) {
		return fmt.Sprintf("❌ Tool '%s' not found", name)
	}

	slog.Warn("Tool failed", "name", name, "err", err)
	var execErr *tools.ExecutionError
	if errors.As(err, &execErr) {
		return fmt.Sprintf("⚠️ Tool error: %v", execErr.Err)
	}
	return fmt.Sprintf("⚠️ Tool error: %v", err)
}

func renderError(err error) string {
	var cerr *providers.CompletionError
	if errors.As(err, &cerr) {
		if cerr.StatusCode == 0 {
			return fmt.Sprintf("❌ Error: %v", cerr.Err)
		}
	}
	return fmt.Sprintf("❌ Error: %v", err)
}
