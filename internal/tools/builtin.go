package tools

import (
	"time"

	"github.com/nexithium/nexithium/internal/schema"
	"github.com/nexithium/nexithium/internal/shared/llmutils"
)

// Args is re-exported so tool implementations read naturally.
type Args = schema.Args

// BuiltinOptions carries the endpoints and keys the built-in tools need.
// Empty URLs fall back to the public APIs.
type BuiltinOptions struct {
	CoinGeckoURL string
	SerperURL    string
	SerperAPIKey string
	TavilyURL    string
	TavilyAPIKey string
	Timeout      time.Duration
}

// NewBuiltinRegistry returns a registry holding the six built-in lookup tools,
// all sharing one HTTP client.
func NewBuiltinRegistry(opts BuiltinOptions) *Registry {
	api := newAPIClient(opts.Timeout)
	coingecko := llmutils.StringOrDefault(opts.CoinGeckoURL, DefaultCoinGeckoURL)

	return NewRegistry(
		NewPriceTool(coingecko, api),
		NewGoogleSearchTool(llmutils.StringOrDefault(opts.SerperURL, DefaultSerperURL), opts.SerperAPIKey, api),
		NewNewsTool(llmutils.StringOrDefault(opts.TavilyURL, DefaultTavilyURL), opts.TavilyAPIKey, api),
		NewTrendTool(coingecko, api),
		NewDescriptionTool(coingecko, api),
		NewMarketDataTool(coingecko, api),
	)
}
