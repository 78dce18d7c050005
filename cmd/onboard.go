package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nexithium/nexithium/internal/config"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Initialize configuration and memory directory",
	RunE:  runOnboard,
}

func runOnboard(_ *cobra.Command, _ []string) error {
	cfgPath := resolvedConfigPath()

	cfg := config.DefaultConfig()
	if _, err := os.Stat(cfgPath); err == nil {
		// Rewrite with any newly added defaults, keeping existing values.
		// Environment secrets stay out of the file.
		existing, err := config.LoadFile(cfgPath)
		if err != nil {
			return err
		}
		cfg = *existing
		if err := config.Save(&cfg, cfgPath); err != nil {
			return err
		}
		fmt.Printf("✓ Config refreshed at %s\n", cfgPath)
	} else {
		if err := config.Save(&cfg, cfgPath); err != nil {
			return err
		}
		fmt.Printf("✓ Created config at %s\n", cfgPath)
	}

	memDir := cfg.MemoryPath()
	if err := os.MkdirAll(memDir, 0o755); err != nil {
		return fmt.Errorf("create memory dir: %w", err)
	}
	fmt.Printf("✓ Memory at %s\n", memDir)

	fmt.Printf("\n%s nexithium is ready!\n\n", logo)
	fmt.Println("Next steps:")
	fmt.Printf("  1. Add your OpenAI key to %s (or set %s)\n", cfgPath, config.EnvOpenAIKey)
	fmt.Printf("  2. Optional: %s and %s for search and news\n", config.EnvSerperKey, config.EnvTavilyKey)
	fmt.Println("  3. Chat: nexithium agent -m \"price BTC\"")
	return nil
}
