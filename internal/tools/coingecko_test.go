package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nexithium/nexithium/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T, handler http.HandlerFunc) (string, *apiClient) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv.URL, newAPIClient(time.Second)
}

func TestCoinID(t *testing.T) {
	assert.Equal(t, "bitcoin", CoinID("BTC"))
	assert.Equal(t, "matic-network", CoinID(" matic "))
	assert.Equal(t, "xyz", CoinID("XYZ"))
}

func TestPriceTool_Success(t *testing.T) {
	base, api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "bitcoin", r.URL.Query().Get("ids"))
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		_, _ = w.Write([]byte(`{"bitcoin":{"usd":64000}}`))
	})

	out, err := NewPriceTool(base, api).Execute(context.Background(), schema.PositionalArgs("btc"))
	require.NoError(t, err)
	assert.Equal(t, "💰 *BTC* is trading at *$64000.00 USD*.", out)
}

func TestPriceTool_NotAvailable(t *testing.T) {
	base, api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	out, err := NewPriceTool(base, api).Execute(context.Background(), schema.PositionalArgs("XYZ"))
	require.NoError(t, err)
	assert.Equal(t, "⚠️ Price not available for *XYZ*.", out)
	assert.Contains(t, out, "not available")
}

func TestPriceTool_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte(`{"bitcoin":{"usd":1}}`))
	}))
	defer srv.Close()

	tool := NewPriceTool(srv.URL, newAPIClient(50*time.Millisecond))
	out, err := tool.Execute(context.Background(), schema.PositionalArgs("BTC"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "❌ Error fetching price:"), out)
}

func TestPriceTool_HTTPError(t *testing.T) {
	base, api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	out, err := NewPriceTool(base, api).Execute(context.Background(), schema.PositionalArgs("eth"))
	require.NoError(t, err)
	assert.Contains(t, out, "❌ Error fetching price: 429")
}

func TestPriceTool_MissingSymbol(t *testing.T) {
	out, err := NewPriceTool("http://unused", newAPIClient(0)).Execute(context.Background(), schema.Args{})
	require.NoError(t, err)
	assert.Contains(t, out, "symbol is required")
}

func TestTrendTool(t *testing.T) {
	base, api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/bitcoin/market_chart", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("days"))
		_, _ = w.Write([]byte(`{"prices":[[1,100],[2,105],[3,110]]}`))
	})

	out, err := NewTrendTool(base, api).Execute(context.Background(), schema.PositionalArgs("BTC"))
	require.NoError(t, err)
	assert.Equal(t, "Bitcoin trend over 2 days: upward 📈 (10.00%).", out)
}

func TestTrendTool_DownwardAndDefault(t *testing.T) {
	base, api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/solana/market_chart", r.URL.Path)
		_, _ = w.Write([]byte(`{"prices":[[1,200],[2,150]]}`))
	})

	out, err := NewTrendTool(base, api).Execute(context.Background(), schema.Args{})
	require.NoError(t, err)
	assert.Equal(t, "Solana trend over 2 days: downward 📉 (-25.00%).", out)
}

func TestTrendTool_NoData(t *testing.T) {
	base, api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"prices":[[1,200]]}`))
	})

	out, err := NewTrendTool(base, api).Execute(context.Background(), schema.PositionalArgs("solana"))
	require.NoError(t, err)
	assert.Equal(t, "No trend data for solana.", out)
}

func TestDescriptionTool(t *testing.T) {
	long := strings.Repeat("a", 600)
	base, api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/coins/solana":
			_, _ = w.Write([]byte(`{"description":{"en":"Solana is a fast chain.\r\nIt has low fees."}}`))
		case "/coins/long":
			_, _ = w.Write([]byte(`{"description":{"en":"` + long + `"}}`))
		default:
			_, _ = w.Write([]byte(`{"description":{"en":""}}`))
		}
	})
	tool := NewDescriptionTool(base, api)

	out, err := tool.Execute(context.Background(), schema.Args{})
	require.NoError(t, err)
	assert.Equal(t, "Solana is a fast chain. It has low fees....", out)

	out, err = tool.Execute(context.Background(), schema.PositionalArgs("long"))
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("a", 500)+"...", out)

	out, err = tool.Execute(context.Background(), schema.PositionalArgs("empty"))
	require.NoError(t, err)
	assert.Equal(t, "No description available.", out)
}

func TestDescriptionTool_StripsHTML(t *testing.T) {
	base, api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"description":{"en":"<p>Bitcoin is the first <a href=\"https://bitcoin.org\">decentralized</a> cryptocurrency, created in 2009 by Satoshi Nakamoto.</p>"}}`))
	})

	out, err := NewDescriptionTool(base, api).Execute(context.Background(), schema.PositionalArgs("bitcoin"))
	require.NoError(t, err)
	assert.NotContains(t, out, "<a")
	assert.NotContains(t, out, "</p>")
	assert.Contains(t, out, "Satoshi Nakamoto")
}

func TestMarketDataTool(t *testing.T) {
	base, api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/markets", r.URL.Path)
		assert.Equal(t, "ethereum", r.URL.Query().Get("ids"))
		_, _ = w.Write([]byte(`[{"name":"Ethereum","symbol":"eth","current_price":3120.5,"market_cap":375000000000,"total_volume":15000000000,"price_change_percentage_24h":-1.234}]`))
	})

	out, err := NewMarketDataTool(base, api).Execute(context.Background(), schema.NamedArgs(map[string]string{"token_id": "eth"}))
	require.NoError(t, err)
	assert.Equal(t, "*Ethereum* (ETH)\n"+
		"• Price: $3,120.5\n"+
		"• Market Cap: $375,000,000,000\n"+
		"• 24h Vol: $15,000,000,000\n"+
		"• 24h Change: -1.23%", out)
}

func TestMarketDataTool_Empty(t *testing.T) {
	base, api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	out, err := NewMarketDataTool(base, api).Execute(context.Background(), schema.Args{})
	require.NoError(t, err)
	assert.Equal(t, "No market data found.", out)
}

func TestMarketDataTool_NullFields(t *testing.T) {
	bodies := map[string]string{
		"current_price":               `[{"name":"Solana","symbol":"sol","current_price":null,"market_cap":1,"total_volume":1,"price_change_percentage_24h":1}]`,
		"market_cap":                  `[{"name":"Solana","symbol":"sol","current_price":1,"total_volume":1,"price_change_percentage_24h":1}]`,
		"price_change_percentage_24h": `[{"name":"Solana","symbol":"sol","current_price":1,"market_cap":1,"total_volume":1,"price_change_percentage_24h":null}]`,
	}
	for field, body := range bodies {
		base, api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		})

		out, err := NewMarketDataTool(base, api).Execute(context.Background(), schema.Args{})
		require.NoError(t, err)
		assert.Equal(t, "❌ Market data error: "+field+" not available for solana", out)
	}
}

func TestFormatThousands(t *testing.T) {
	assert.Equal(t, "0", formatThousands(0))
	assert.Equal(t, "999", formatThousands(999))
	assert.Equal(t, "64,000", formatThousands(64000))
	assert.Equal(t, "1,234,567.89", formatThousands(1234567.89))
	assert.Equal(t, "-12,345", formatThousands(-12345))
}
