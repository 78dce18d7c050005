package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexithium/nexithium/internal/agent"
	"github.com/nexithium/nexithium/internal/memory"
	"github.com/nexithium/nexithium/internal/schema"
	"github.com/nexithium/nexithium/internal/tools"
)

type replyProvider struct{}

func (replyProvider) DefaultModel() string { return "test" }
func (replyProvider) Complete(_ context.Context, turns []schema.Turn, _ schema.ChatOptions) (string, error) {
	return "you said " + turns[len(turns)-1].Content, nil
}

type upperTool struct{}

func (upperTool) Name() string                { return "shout" }
func (upperTool) Description() string         { return "shouts" }
func (upperTool) Parameters() json.RawMessage { return json.RawMessage(`{"type":"object"}`) }
func (upperTool) Execute(_ context.Context, args schema.Args) (string, error) {
	return strings.ToUpper(strings.Join(args.Positional, " ")), nil
}

func TestRepl_Session(t *testing.T) {
	mem := memory.NewShortTermMemory(10)
	a := agent.New("CryptoVision", "system", tools.NewRegistry(upperTool{}), replyProvider{}, agent.DefaultSettings(), nil)

	var out bytes.Buffer
	r := &repl{agent: a, mem: mem, out: &out}

	in := strings.NewReader("help\ntools\n\nuse shout gm frens\nuse\nuse nope\nhello there\nquit\nnever read\n")
	require.NoError(t, r.run(context.Background(), in))

	got := out.String()
	assert.Contains(t, got, "use <tool> [args]")
	assert.Contains(t, got, "  - shout\n")
	assert.Contains(t, got, "[Tool:shout]> GM FRENS\n")
	assert.Contains(t, got, "Usage: use <tool> [args]")
	assert.Contains(t, got, "[Tool:nope]> ❌ Tool 'nope' not found")
	assert.Contains(t, got, "Agent> you said hello there\n\n")
	assert.Contains(t, got, "Goodbye!")
	assert.NotContains(t, got, "never read")

	// Only the chat exchange is remembered.
	turns := mem.Get()
	require.Len(t, turns, 2)
	assert.Equal(t, "hello there", turns[0].Content)
	assert.Equal(t, "you said hello there", turns[1].Content)
}

func TestRepl_EOF(t *testing.T) {
	a := agent.New("CryptoVision", "system", nil, replyProvider{}, agent.DefaultSettings(), nil)
	var out bytes.Buffer
	r := &repl{agent: a, mem: nil, out: &out}

	require.NoError(t, r.run(context.Background(), strings.NewReader("")))
	assert.True(t, strings.HasSuffix(out.String(), "Goodbye!\n"))
}
