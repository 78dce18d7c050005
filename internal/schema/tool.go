package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Args carries the text arguments of one tool invocation. Adapters that split
// a command line fill Positional; structured callers (REST, model tool calls)
// fill Named.
type Args struct {
	Positional []string
	Named      map[string]string
}

// PositionalArgs builds Args from a list of positional values.
func PositionalArgs(values ...string) Args {
	return Args{Positional: values}
}

// NamedArgs builds Args from key/value pairs.
func NamedArgs(named map[string]string) Args {
	return Args{Named: named}
}

// ParseArgs decodes the JSON object of a model tool call into named Args.
// Non-string values keep their JSON text, so 2 becomes "2".
func ParseArgs(raw string) (Args, error) {
	if strings.TrimSpace(raw) == "" {
		return Args{}, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return Args{}, fmt.Errorf("parse tool arguments: %w", err)
	}
	named := make(map[string]string, len(fields))
	for k, v := range fields {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			named[k] = s
			continue
		}
		if string(v) != "null" {
			named[k] = string(v)
		}
	}
	return NamedArgs(named), nil
}

// Arg resolves one argument: the named value wins, then the positional value
// at pos, then fallback. Blank values count as missing.
func (a Args) Arg(name string, pos int, fallback string) string {
	if v := strings.TrimSpace(a.Named[name]); v != "" {
		return v
	}
	if pos >= 0 && pos < len(a.Positional) {
		if v := strings.TrimSpace(a.Positional[pos]); v != "" {
			return v
		}
	}
	return fallback
}

// Rest joins every positional argument from pos onwards with single spaces.
// Useful for free-text arguments such as search queries.
func (a Args) Rest(name string, pos int, fallback string) string {
	if v := strings.TrimSpace(a.Named[name]); v != "" {
		return v
	}
	if pos >= 0 && pos < len(a.Positional) {
		if v := strings.TrimSpace(strings.Join(a.Positional[pos:], " ")); v != "" {
			return v
		}
	}
	return fallback
}

// String renders the arguments for logs, e.g. `btc query=solana`.
func (a Args) String() string {
	parts := append([]string(nil), a.Positional...)
	keys := make([]string, 0, len(a.Named))
	for k := range a.Named {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, k+"="+a.Named[k])
	}
	return strings.Join(parts, " ")
}

// Tool is the capability every registered lookup function satisfies.
type Tool interface {
	Name() string
	Description() string
	// Parameters returns the JSON Schema (as raw JSON bytes) for this tool's parameters.
	Parameters() json.RawMessage
	// Execute runs the lookup. User-visible failures (missing data, HTTP
	// errors) are returned as text; a non-nil error means the tool itself
	// could not run.
	Execute(ctx context.Context, args Args) (string, error)
}
