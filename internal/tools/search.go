package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

const (
	DefaultSerperURL = "https://google.serper.dev"
	DefaultTavilyURL = "https://api.tavily.ai"

	searchMaxResults = 3
)

// ---------------------------------------------------------------------------
// GoogleSearchTool
// ---------------------------------------------------------------------------

// GoogleSearchTool returns the top organic results from Serper.dev.
type GoogleSearchTool struct {
	baseURL string
	apiKey  string
	api     *apiClient
}

// NewGoogleSearchTool creates a GoogleSearchTool. apiKey is SERPER_API_KEY.
func NewGoogleSearchTool(baseURL, apiKey string, api *apiClient) *GoogleSearchTool {
	return &GoogleSearchTool{baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, api: api}
}

func (t *GoogleSearchTool) Name() string { return string(ToolGoogleSearch) }
func (t *GoogleSearchTool) Description() string {
	return "Search the web. Returns the top 3 titles and links."
}
func (t *GoogleSearchTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"query": {
				"type": "string",
				"description": "Search query"
			}
		},
		"required": ["query"]
	}`)
}

func (t *GoogleSearchTool) Execute(ctx context.Context, args Args) (string, error) {
	if t.apiKey == "" {
		return "⚠️ SERPER_API_KEY not set in environment.", nil
	}
	query := args.Rest("query", 0, "")
	if query == "" {
		return "❌ Search error: query is required", nil
	}

	var data struct {
		Organic []struct {
			Title string `json:"title"`
			Link  string `json:"link"`
		} `json:"organic"`
	}
	headers := map[string]string{"X-API-KEY": t.apiKey}
	if err := t.api.postJSON(ctx, t.baseURL+"/search", map[string]string{"q": query}, headers, &data); err != nil {
		return fmt.Sprintf("❌ Search error: %v", err), nil
	}

	if len(data.Organic) == 0 {
		return "🔍 No results found.", nil
	}

	var sb strings.Builder
	sb.WriteString("📄 *Top search results:*\n")
	for i, item := range data.Organic {
		if i >= searchMaxResults {
			break
		}
		sb.WriteString(fmt.Sprintf("- [%s](%s)\n", item.Title, item.Link))
	}
	return sb.String(), nil
}

// ---------------------------------------------------------------------------
// NewsTool
// ---------------------------------------------------------------------------

// NewsTool fetches recent headlines from Tavily.
type NewsTool struct {
	baseURL string
	apiKey  string
	api     *apiClient
}

// NewNewsTool creates a NewsTool. apiKey is TAVILY_API_KEY.
func NewNewsTool(baseURL, apiKey string, api *apiClient) *NewsTool {
	return &NewsTool{baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, api: api}
}

func (t *NewsTool) Name() string        { return string(ToolTavilyNews) }
func (t *NewsTool) Description() string { return "Fetch the latest crypto news headlines." }
func (t *NewsTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"query": {
				"type": "string",
				"description": "News topic (default: crypto news)"
			}
		}
	}`)
}

func (t *NewsTool) Execute(ctx context.Context, args Args) (string, error) {
	if t.apiKey == "" {
		return "⚠️ TAVILY_API_KEY not set in environment.", nil
	}
	query := args.Rest("query", 0, "crypto news")

	var data struct {
		Articles []struct {
			Title string `json:"title"`
			URL   string `json:"url"`
		} `json:"articles"`
	}
	params := url.Values{"q": {query}, "limit": {fmt.Sprint(searchMaxResults)}}
	headers := map[string]string{"Authorization": "Bearer " + t.apiKey}
	if err := t.api.getJSON(ctx, t.baseURL+"/v1/news", params, headers, &data); err != nil {
		return fmt.Sprintf("❌ News error: %v", err), nil
	}

	if len(data.Articles) == 0 {
		return "📰 No news found.", nil
	}

	var sb strings.Builder
	sb.WriteString("📰 *Recent news:*\n")
	for _, art := range data.Articles {
		sb.WriteString(fmt.Sprintf("- [%s](%s)\n", art.Title, art.URL))
	}
	return sb.String(), nil
}
