// Package providers implements schema.CompletionProvider on top of
// OpenAI-compatible chat completion endpoints.
package providers

import (
	"time"

	"github.com/nexithium/nexithium/internal/schema"
)

// Params are the raw values needed to construct a schema.CompletionProvider.
// Extracted from config.Config by the caller to avoid an import cycle.
type Params struct {
	APIKey       string
	APIBase      string
	DefaultModel string
	Timeout      time.Duration
}

// New creates the completion provider for the given params.
func New(p Params) schema.CompletionProvider {
	return NewOpenAIProvider(p.APIKey, p.APIBase, p.DefaultModel, p.Timeout)
}
