package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nexithium/nexithium/internal/schema"
)

// ToolName is the canonical name of a built-in tool.
type ToolName string

const (
	ToolGetPrice         ToolName = "get_price"
	ToolGoogleSearch     ToolName = "google_search"
	ToolTavilyNews       ToolName = "tavily_news"
	ToolTokenTrend       ToolName = "token_trend"
	ToolTokenDescription ToolName = "token_description"
	ToolTokenMarketData  ToolName = "token_market_data"
)

// Registry maps tool names to tools. It is built once at startup and handed
// to every agent; registration after that is allowed but not expected.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]schema.Tool
	order []string
}

// NewRegistry creates a registry holding ts, in the given order.
func NewRegistry(ts ...schema.Tool) *Registry {
	r := &Registry{tools: make(map[string]schema.Tool, len(ts))}
	for _, t := range ts {
		r.Register(t)
	}
	return r
}

// Register stores t under t.Name(), silently replacing any previous tool with
// the same name. The first registration position is kept on overwrite.
func (r *Registry) Register(t schema.Tool) schema.Tool {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := t.Name()
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = t

	return t
}

// Resolve returns the tool registered under name or a *NotFoundError.
func (r *Registry) Resolve(name string) (schema.Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return t, nil
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Invoke resolves name and executes it. Failures raised by the tool, including
// panics, come back as *ExecutionError.
func (r *Registry) Invoke(ctx context.Context, name string, args schema.Args) (result string, err error) {
	t, err := r.Resolve(name)
	if err != nil {
		return "", err
	}

	slog.Info("Tool call", "name", name, "args", args.String())

	defer func() {
		if p := recover(); p != nil {
			result = ""
			err = &ExecutionError{Tool: name, Err: fmt.Errorf("panic: %v", p)}
		}
	}()

	out, execErr := t.Execute(ctx, args)
	if execErr != nil {
		return "", &ExecutionError{Tool: name, Err: execErr}
	}
	return out, nil
}

// Definitions describes every registered tool, in registration order, for
// providers that offer tools to the model.
func (r *Registry) Definitions() []schema.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]schema.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		params := t.Parameters()
		if !json.Valid(params) {
			params = json.RawMessage(`{"type":"object","properties":{}}`)
		}
		list = append(list, schema.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  params,
		})
	}
	return list
}
