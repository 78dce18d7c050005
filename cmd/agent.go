package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nexithium/nexithium/internal/agent"
	"github.com/nexithium/nexithium/internal/dependency"
	"github.com/nexithium/nexithium/internal/schema"
	"github.com/nexithium/nexithium/internal/shared/cmdutils"
)

var (
	agentName    string
	agentMemory  string
	agentUser    string
	agentModel   string
	agentMessage string
)

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Chat with the agent in the terminal",
	RunE:  runAgent,
}

func init() {
	agentCmd.Flags().StringVar(&agentName, "agent", agent.DefaultPersona, "Persona to chat with")
	agentCmd.Flags().StringVar(&agentMemory, "memory", "short", "Memory type: short (session) or long (persistent)")
	agentCmd.Flags().StringVar(&agentUser, "user", "cli_user", "User ID for persistent memory")
	agentCmd.Flags().StringVar(&agentModel, "model", "", "Model name (default from config)")
	agentCmd.Flags().StringVarP(&agentMessage, "message", "m", "", "Send a single message and exit")
}

const replHelp = `Commands:
  help                 Show this help message
  exit, quit           Exit the CLI
  tools                List available tools
  use <tool> [args]    Invoke a tool with arguments
  <any other text>     Chat with the AI agent`

func runAgent(_ *cobra.Command, _ []string) error {
	mode, err := dependency.ParseMemoryMode(agentMemory)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	container, err := dependency.New(cfg, dependency.Options{Persona: agentName, Model: agentModel, Memory: mode})
	if err != nil {
		return err
	}
	a := container.Agent()
	slog.Info("Starting CLI agent", "agent", a.Name(), "model", a.Settings().Model, "memory", mode)

	mem, err := cliMemory(container, agentUser)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if agentMessage != "" {
		cmdutils.PrintResponse(os.Stdout, a.Exchange(ctx, mem, agentMessage))
		return nil
	}

	r := &repl{agent: a, mem: mem, out: os.Stdout}
	return r.run(ctx, os.Stdin)
}

func cliMemory(c *dependency.Container, userID string) (schema.Memory, error) {
	mem, err := c.Memories().ForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("open memory for %s: %w", userID, err)
	}
	return mem, nil
}

// repl is the interactive terminal session.
type repl struct {
	agent *agent.Agent
	mem   schema.Memory
	out   io.Writer
}

func (r *repl) run(ctx context.Context, in io.Reader) error {
	fmt.Fprintf(r.out, "\n=== %s Nexithium CLI Agent ===\n", logo)
	fmt.Fprintf(r.out, "Type 'help' for commands, 'exit' to quit.\n\n")

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		fmt.Fprint(r.out, "You> ")

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(r.out, "\nGoodbye!")
			return nil
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(r.out, "\nGoodbye!")
				return nil
			}
			line = strings.TrimSpace(l)
		}

		if line == "" {
			continue
		}
		if !r.handle(ctx, line) {
			fmt.Fprintln(r.out, "Goodbye!")
			return nil
		}
	}
}

// handle processes one line and reports whether the session continues.
func (r *repl) handle(ctx context.Context, line string) bool {
	switch strings.ToLower(line) {
	case "exit", "quit":
		return false
	case "help":
		fmt.Fprintln(r.out, replHelp)
		return true
	case "tools":
		fmt.Fprintln(r.out, "Available tools:")
		for _, name := range r.agent.Tools() {
			fmt.Fprintf(r.out, "  - %s\n", name)
		}
		return true
	}

	parts := strings.Fields(line)
	if parts[0] == "use" {
		if len(parts) < 2 {
			fmt.Fprintln(r.out, "Usage: use <tool> [args]")
			return true
		}
		name := parts[1]
		result := r.agent.InvokeTool(ctx, name, schema.PositionalArgs(parts[2:]...))
		cmdutils.PrintToolResult(r.out, name, result)
		return true
	}

	cmdutils.PrintResponse(r.out, r.agent.Exchange(ctx, r.mem, line))
	return true
}
