package llmutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab...", Truncate("abcdef", 2))
	// Multi-byte runes must not be split.
	assert.Equal(t, "💰💰...", Truncate("💰💰💰", 2))
}

func TestStripThink(t *testing.T) {
	in := "<think>internal\nreasoning</think>BTC looks strong."
	assert.Equal(t, "BTC looks strong.", StripThink(in))
	assert.Equal(t, "plain", StripThink("plain"))
}

func TestStringOrDefault(t *testing.T) {
	assert.Equal(t, "x", StringOrDefault("x", "y"))
	assert.Equal(t, "y", StringOrDefault("", "y"))
}

func TestSplitCommand(t *testing.T) {
	verb, rest := SplitCommand("  Price  btc ")
	assert.Equal(t, "price", verb)
	assert.Equal(t, "btc", rest)

	verb, rest = SplitCommand("search latest solana  upgrade")
	assert.Equal(t, "search", verb)
	assert.Equal(t, "latest solana  upgrade", rest)

	verb, rest = SplitCommand("   ")
	assert.Empty(t, verb)
	assert.Empty(t, rest)
}
