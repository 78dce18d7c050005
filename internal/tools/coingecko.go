package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// DefaultCoinGeckoURL is the public CoinGecko v3 API.
const DefaultCoinGeckoURL = "https://api.coingecko.com/api/v3"

const descriptionMaxChars = 500

// symbolIDs maps common ticker symbols to CoinGecko coin ids.
var symbolIDs = map[string]string{
	"btc":   "bitcoin",
	"eth":   "ethereum",
	"sol":   "solana",
	"avax":  "avalanche",
	"doge":  "dogecoin",
	"link":  "chainlink",
	"ada":   "cardano",
	"matic": "matic-network",
}

// CoinID resolves a ticker symbol or coin id to a CoinGecko coin id.
func CoinID(symbol string) string {
	id := strings.ToLower(strings.TrimSpace(symbol))
	if mapped, ok := symbolIDs[id]; ok {
		return mapped
	}
	return id
}

// ---------------------------------------------------------------------------
// PriceTool
// ---------------------------------------------------------------------------

// PriceTool fetches the current USD price of a token.
type PriceTool struct {
	baseURL string
	api     *apiClient
}

func NewPriceTool(baseURL string, api *apiClient) *PriceTool {
	return &PriceTool{baseURL: strings.TrimRight(baseURL, "/"), api: api}
}

func (t *PriceTool) Name() string { return string(ToolGetPrice) }
func (t *PriceTool) Description() string {
	return "Fetch the current USD price for a token symbol (BTC, ETH, SOL...) or CoinGecko id."
}
func (t *PriceTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"symbol": {
				"type": "string",
				"description": "Token symbol or CoinGecko id, e.g. BTC or bitcoin"
			}
		},
		"required": ["symbol"]
	}`)
}

func (t *PriceTool) Execute(ctx context.Context, args Args) (string, error) {
	symbol := args.Arg("symbol", 0, "")
	if symbol == "" {
		return "❌ Error fetching price: symbol is required", nil
	}
	id := CoinID(symbol)
	display := strings.ToUpper(symbol)

	var data map[string]map[string]*float64
	query := url.Values{"ids": {id}, "vs_currencies": {"usd"}}
	if err := t.api.getJSON(ctx, t.baseURL+"/simple/price", query, nil, &data); err != nil {
		return fmt.Sprintf("❌ Error fetching price: %v", err), nil
	}

	price := data[id]["usd"]
	if price == nil {
		return fmt.Sprintf("⚠️ Price not available for *%s*.", display), nil
	}
	return fmt.Sprintf("💰 *%s* is trading at *$%.2f USD*.", display, *price), nil
}

// ---------------------------------------------------------------------------
// TrendTool
// ---------------------------------------------------------------------------

// TrendTool reports the percentage move of a token over the last two days.
type TrendTool struct {
	baseURL string
	api     *apiClient
}

func NewTrendTool(baseURL string, api *apiClient) *TrendTool {
	return &TrendTool{baseURL: strings.TrimRight(baseURL, "/"), api: api}
}

func (t *TrendTool) Name() string { return string(ToolTokenTrend) }
func (t *TrendTool) Description() string {
	return "Analyze the 2-day price trend of a token: percent change and direction."
}
func (t *TrendTool) Parameters() json.RawMessage {
	return tokenIDParameters
}

func (t *TrendTool) Execute(ctx context.Context, args Args) (string, error) {
	id := CoinID(args.Arg("token_id", 0, "solana"))

	var data struct {
		Prices [][]float64 `json:"prices"`
	}
	query := url.Values{"vs_currency": {"usd"}, "days": {"2"}}
	endpoint := t.baseURL + "/coins/" + url.PathEscape(id) + "/market_chart"
	if err := t.api.getJSON(ctx, endpoint, query, nil, &data); err != nil {
		return fmt.Sprintf("❌ Trend error: %v", err), nil
	}

	if len(data.Prices) < 2 || len(data.Prices[0]) < 2 || len(data.Prices[len(data.Prices)-1]) < 2 {
		return fmt.Sprintf("No trend data for %s.", id), nil
	}
	first := data.Prices[0][1]
	last := data.Prices[len(data.Prices)-1][1]
	if first == 0 {
		return fmt.Sprintf("No trend data for %s.", id), nil
	}

	change := (last - first) / first * 100
	direction := "downward 📉"
	if change > 0 {
		direction = "upward 📈"
	}
	return fmt.Sprintf("%s trend over 2 days: %s (%.2f%%).", capitalize(id), direction, change), nil
}

// ---------------------------------------------------------------------------
// DescriptionTool
// ---------------------------------------------------------------------------

// DescriptionTool returns the project description CoinGecko holds for a coin.
type DescriptionTool struct {
	baseURL string
	api     *apiClient
}

func NewDescriptionTool(baseURL string, api *apiClient) *DescriptionTool {
	return &DescriptionTool{baseURL: strings.TrimRight(baseURL, "/"), api: api}
}

func (t *DescriptionTool) Name() string { return string(ToolTokenDescription) }
func (t *DescriptionTool) Description() string {
	return "Retrieve a short project description for a token."
}
func (t *DescriptionTool) Parameters() json.RawMessage {
	return tokenIDParameters
}

func (t *DescriptionTool) Execute(ctx context.Context, args Args) (string, error) {
	id := CoinID(args.Arg("token_id", 0, "solana"))

	var data struct {
		Description struct {
			En string `json:"en"`
		} `json:"description"`
	}
	endpoint := t.baseURL + "/coins/" + url.PathEscape(id)
	if err := t.api.getJSON(ctx, endpoint, nil, nil, &data); err != nil {
		return fmt.Sprintf("❌ Description error: %v", err), nil
	}

	desc := strings.ReplaceAll(strings.TrimSpace(data.Description.En), "\r\n", " ")
	desc = htmlToText(desc)
	if desc == "" {
		return "No description available.", nil
	}
	return truncateRunes(desc, descriptionMaxChars) + "...", nil
}

// ---------------------------------------------------------------------------
// MarketDataTool
// ---------------------------------------------------------------------------

// MarketDataTool summarises price, market cap, volume and 24h change.
type MarketDataTool struct {
	baseURL string
	api     *apiClient
}

func NewMarketDataTool(baseURL string, api *apiClient) *MarketDataTool {
	return &MarketDataTool{baseURL: strings.TrimRight(baseURL, "/"), api: api}
}

func (t *MarketDataTool) Name() string { return string(ToolTokenMarketData) }
func (t *MarketDataTool) Description() string {
	return "Return market cap, 24h volume and 24h price change for a token."
}
func (t *MarketDataTool) Parameters() json.RawMessage {
	return tokenIDParameters
}

type marketItem struct {
	Name          string   `json:"name"`
	Symbol        string   `json:"symbol"`
	CurrentPrice  *float64 `json:"current_price"`
	MarketCap     *float64 `json:"market_cap"`
	TotalVolume   *float64 `json:"total_volume"`
	PriceChange24 *float64 `json:"price_change_percentage_24h"`
}

// missing names the first figure CoinGecko left null or absent.
func (m marketItem) missing() string {
	for _, f := range []struct {
		name string
		v    *float64
	}{
		{"current_price", m.CurrentPrice},
		{"market_cap", m.MarketCap},
		{"total_volume", m.TotalVolume},
		{"price_change_percentage_24h", m.PriceChange24},
	} {
		if f.v == nil {
			return f.name
		}
	}
	return ""
}

func (t *MarketDataTool) Execute(ctx context.Context, args Args) (string, error) {
	id := CoinID(args.Arg("token_id", 0, "solana"))

	var items []marketItem
	query := url.Values{"vs_currency": {"usd"}, "ids": {id}}
	if err := t.api.getJSON(ctx, t.baseURL+"/coins/markets", query, nil, &items); err != nil {
		return fmt.Sprintf("❌ Market data error: %v", err), nil
	}
	if len(items) == 0 {
		return "No market data found.", nil
	}

	m := items[0]
	if field := m.missing(); field != "" {
		return fmt.Sprintf("❌ Market data error: %s not available for %s", field, id), nil
	}
	return fmt.Sprintf("*%s* (%s)\n• Price: $%s\n• Market Cap: $%s\n• 24h Vol: $%s\n• 24h Change: %.2f%%",
		m.Name,
		strings.ToUpper(m.Symbol),
		formatThousands(*m.CurrentPrice),
		formatThousands(*m.MarketCap),
		formatThousands(*m.TotalVolume),
		*m.PriceChange24,
	), nil
}

var tokenIDParameters = json.RawMessage(`{
	"type": "object",
	"properties": {
		"token_id": {
			"type": "string",
			"description": "CoinGecko coin id or symbol (default solana)"
		}
	}
}`)
