package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/nexithium/nexithium/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleSearchTool(t *testing.T) {
	base, api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "serper-key", r.Header.Get("X-API-KEY"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "solana firedancer", body["q"])

		_, _ = w.Write([]byte(`{"organic":[
			{"title":"One","link":"https://one"},
			{"title":"Two","link":"https://two"},
			{"title":"Three","link":"https://three"},
			{"title":"Four","link":"https://four"}]}`))
	})

	tool := NewGoogleSearchTool(base, "serper-key", api)
	out, err := tool.Execute(context.Background(), schema.PositionalArgs("solana", "firedancer"))
	require.NoError(t, err)
	assert.Equal(t, "📄 *Top search results:*\n- [One](https://one)\n- [Two](https://two)\n- [Three](https://three)\n", out)
}

func TestGoogleSearchTool_MissingKey(t *testing.T) {
	out, err := NewGoogleSearchTool("http://unused", "", newAPIClient(0)).
		Execute(context.Background(), schema.PositionalArgs("btc"))
	require.NoError(t, err)
	assert.Equal(t, "⚠️ SERPER_API_KEY not set in environment.", out)
}

func TestGoogleSearchTool_NoResults(t *testing.T) {
	base, api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"organic":[]}`))
	})

	out, err := NewGoogleSearchTool(base, "k", api).Execute(context.Background(), schema.PositionalArgs("zzz"))
	require.NoError(t, err)
	assert.Equal(t, "🔍 No results found.", out)
}

func TestNewsTool(t *testing.T) {
	base, api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/news", r.URL.Path)
		assert.Equal(t, "crypto news", r.URL.Query().Get("q"))
		assert.Equal(t, "3", r.URL.Query().Get("limit"))
		assert.Equal(t, "Bearer tavily-key", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"articles":[{"title":"ETF flows","url":"https://news/1"}]}`))
	})

	out, err := NewNewsTool(base, "tavily-key", api).Execute(context.Background(), schema.Args{})
	require.NoError(t, err)
	assert.Equal(t, "📰 *Recent news:*\n- [ETF flows](https://news/1)\n", out)
}

func TestNewsTool_Errors(t *testing.T) {
	out, err := NewNewsTool("http://unused", "", newAPIClient(0)).Execute(context.Background(), schema.Args{})
	require.NoError(t, err)
	assert.Equal(t, "⚠️ TAVILY_API_KEY not set in environment.", out)

	base, api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})
	out, err = NewNewsTool(base, "k", api).Execute(context.Background(), schema.Args{})
	require.NoError(t, err)
	assert.Contains(t, out, "❌ News error:")
}
