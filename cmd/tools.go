package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nexithium/nexithium/internal/dependency"
	"github.com/nexithium/nexithium/internal/schema"
	"github.com/nexithium/nexithium/internal/shared/cmdutils"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List or run the lookup tools",
}

func init() {
	toolsCmd.AddCommand(toolsListCmd)
	toolsCmd.AddCommand(toolsRunCmd)
}

// toolContainer wires services without touching the memory directory.
func toolContainer() (*dependency.Container, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return dependency.New(cfg, dependency.Options{Memory: dependency.MemoryShort})
}

var toolsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered tools",
	RunE: func(_ *cobra.Command, _ []string) error {
		c, err := toolContainer()
		if err != nil {
			return err
		}
		registry := c.Registry()
		for _, name := range registry.Names() {
			t, _ := registry.Resolve(name)
			fmt.Printf("%-20s %s\n", name, t.Description())
		}
		return nil
	},
}

var toolsRunCmd = &cobra.Command{
	Use:   "run <name> [args...]",
	Short: "Run one tool and print its output",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		c, err := toolContainer()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), c.Config().ToolTimeout()+5*time.Second)
		defer cancel()

		result := c.Agent().InvokeTool(ctx, args[0], schema.PositionalArgs(args[1:]...))
		cmdutils.PrintToolResult(os.Stdout, args[0], result)
		return nil
	},
}
