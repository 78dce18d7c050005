package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nexithium/nexithium/internal/config"
	"github.com/nexithium/nexithium/internal/dependency"
	"github.com/nexithium/nexithium/internal/providers"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show nexithium status",
	RunE:  runStatus,
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

func keyStatus(key string) string {
	if key == "" {
		return "(not set)"
	}
	return "✓"
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfgPath := resolvedConfigPath()

	fmt.Printf("%s nexithium Status\n\n", logo)

	_, statErr := os.Stat(cfgPath)
	fmt.Printf("Config:    %s %s\n", cfgPath, mark(statErr == nil))

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("  (could not load config: %v)\n", err)
		return nil
	}

	memDir := cfg.MemoryPath()
	_, memErr := os.Stat(memDir)
	fmt.Printf("Memory:    %s %s\n", memDir, mark(memErr == nil))
	fmt.Printf("Persona:   %s\n", cfg.Agents.Defaults.Persona)
	fmt.Printf("Model:     %s\n\n", cfg.Agents.Defaults.Model)

	apiBase := cfg.Providers.OpenAI.APIBase
	if apiBase == "" {
		apiBase = providers.DefaultAPIBase
	}
	fmt.Println("Keys:")
	fmt.Printf("  %-12s %s %s\n", "OpenAI", keyStatus(cfg.Providers.OpenAI.APIKey), apiBase)
	fmt.Printf("  %-12s %s\n", "Serper", keyStatus(cfg.Tools.Serper.APIKey))
	fmt.Printf("  %-12s %s\n", "Tavily", keyStatus(cfg.Tools.Tavily.APIKey))
	fmt.Printf("  %-12s %s\n\n", "Telegram", keyStatus(cfg.Channels.Telegram.Token))

	c, err := dependency.New(cfg, dependency.Options{Memory: dependency.MemoryShort})
	if err != nil {
		fmt.Printf("  (could not wire services: %v)\n", err)
		return nil
	}
	fmt.Printf("Tools:     %s\n", strings.Join(c.Registry().Names(), ", "))
	fmt.Printf("Personas:  %s\n", strings.Join(c.Personas().Names(), ", "))
	fmt.Printf("Jobs:      %d\n", len(c.CronService().Jobs()))
	return nil
}
