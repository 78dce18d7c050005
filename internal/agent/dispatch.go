package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/nexithium/nexithium/internal/memory"
	"github.com/nexithium/nexithium/internal/schema"
	"github.com/nexithium/nexithium/internal/shared/llmutils"
	"github.com/nexithium/nexithium/internal/tools"
)

// HelpText lists the commands every adapter understands.
const HelpText = "price <symbol> - get current price\n" +
	"trend <symbol> - get 2-day trend\n" +
	"news [topic] - latest headlines\n" +
	"search <query> - web search\n" +
	"describe <token> - project description\n" +
	"market <token> - market cap, volume and 24h change\n" +
	"analyze <symbol> - project analysis\n" +
	"forecast <symbol> - future scenario\n" +
	"tools - list available tools\n" +
	"help - show this message"

// Reply is the outcome of one dispatched request.
type Reply struct {
	Text string
	// Tool is the tool that produced Text; empty when the model answered or
	// for built-in commands.
	Tool string
	// Recorded reports whether the exchange was written to the user's memory.
	Recorded bool
}

// Dispatcher resolves free-text requests to a tool call or a model call and
// keeps each user's conversation memory. It is shared by every adapter.
type Dispatcher struct {
	agent    *Agent
	memories memory.Directory
	locks    sync.Map // userID → *sync.Mutex
}

// NewDispatcher creates a Dispatcher. memories may be nil, in which case
// nothing is remembered between requests.
func NewDispatcher(agent *Agent, memories memory.Directory) *Dispatcher {
	return &Dispatcher{agent: agent, memories: memories}
}

func (d *Dispatcher) Agent() *Agent { return d.agent }

// Handle answers input for userID. Requests from the same user are
// serialised so that their memory updates never interleave.
func (d *Dispatcher) Handle(ctx context.Context, userID, input string) Reply {
	input = strings.TrimSpace(input)
	if input == "" {
		return Reply{Text: "Please type a message, or 'help' for commands."}
	}

	verb, arg := llmutils.SplitCommand(input)
	// Chat clients send commands as "/price BTC".
	verb = strings.TrimPrefix(verb, "/")
	switch verb {
	case "help", "menu", "start":
		return Reply{Text: HelpText}
	case "tools":
		return Reply{Text: strings.Join(d.agent.Tools(), ", ")}
	}

	unlock := d.lock(userID)
	defer unlock()

	mem := d.memoryFor(userID)

	reply := d.route(ctx, mem, verb, arg, input)
	if mem != nil {
		Record(mem, input, reply.Text)
		reply.Recorded = true
	}

	slog.Info("Response", "user", userID, "tool", reply.Tool, "length", len(reply.Text))
	return reply
}

func (d *Dispatcher) route(ctx context.Context, mem schema.Memory, verb, arg, input string) Reply {
	switch verb {
	case "price":
		if arg == "" {
			return Reply{Text: "Please specify a token symbol, e.g. 'price BTC'"}
		}
		return d.tool(ctx, tools.ToolGetPrice, arg)
	case "trend":
		if arg == "" {
			return Reply{Text: "Please specify a token symbol, e.g. 'trend SOL'"}
		}
		return d.tool(ctx, tools.ToolTokenTrend, arg)
	case "news":
		return d.tool(ctx, tools.ToolTavilyNews, arg)
	case "search":
		if arg == "" {
			return Reply{Text: "Please specify a search query, e.g. 'search solana etf'"}
		}
		return d.tool(ctx, tools.ToolGoogleSearch, arg)
	case "describe":
		return d.tool(ctx, tools.ToolTokenDescription, arg)
	case "market":
		return d.tool(ctx, tools.ToolTokenMarketData, arg)
	case "analyze":
		if arg != "" {
			prompt := fmt.Sprintf("Analyze %s. Include overview, strengths, risks, use cases, outlook.", arg)
			return Reply{Text: d.agent.RunWith(ctx, mem, prompt)}
		}
	case "forecast":
		if arg != "" {
			prompt := fmt.Sprintf("Forecast scenarios for %s. Hypothetical scenario, not financial advice.", arg)
			return Reply{Text: d.agent.RunWith(ctx, mem, prompt)}
		}
	}

	// A registered tool name used as a command, e.g. "token_trend solana".
	if _, err := d.agent.Registry().Resolve(verb); err == nil {
		return d.tool(ctx, tools.ToolName(verb), arg)
	}

	return Reply{Text: d.agent.RunWith(ctx, mem, input)}
}

func (d *Dispatcher) tool(ctx context.Context, name tools.ToolName, arg string) Reply {
	args := schema.PositionalArgs(strings.Fields(arg)...)
	return Reply{Text: d.agent.InvokeTool(ctx, string(name), args), Tool: string(name)}
}

func (d *Dispatcher) memoryFor(userID string) schema.Memory {
	if d.memories == nil {
		return nil
	}
	mem, err := d.memories.ForUser(userID)
	if err != nil {
		slog.Warn("Memory unavailable", "user", userID, "err", err)
		return nil
	}
	return mem
}

func (d *Dispatcher) lock(userID string) func() {
	v, _ := d.locks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
