package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/tidwall/jsonc"
)

// Environment variables consulted when the matching config value is empty.
const (
	EnvOpenAIKey     = "OPENAI_API_KEY"
	EnvOpenAIBase    = "OPENAI_API_BASE"
	EnvSerperKey     = "SERPER_API_KEY"
	EnvTavilyKey     = "TAVILY_API_KEY"
	EnvTelegramToken = "TELEGRAM_BOT_TOKEN"
	EnvSlackBot      = "SLACK_BOT_TOKEN"
	EnvSlackApp      = "SLACK_APP_TOKEN"
	EnvAPIKey        = "NEXITHIUM_API_KEY"
)

// DefaultAPIKey is the X-API-Key accepted when none is configured.
const DefaultAPIKey = "secret-key"

// ConfigPath returns the default configuration file path: ~/.nexithium/config.json.
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.json")
}

// DataDir returns the nexithium data directory: ~/.nexithium.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".nexithium"
	}
	return filepath.Join(home, ".nexithium")
}

// LoadDotEnv loads variables from the given .env files (default ".env") into
// the process environment without overriding variables already set.
// Missing files are ignored.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			slog.Warn("Failed to load env file", "path", f, "err", err)
		}
	}
}

// Load reads the config file at path via LoadFile, then fills empty
// secrets from the environment.
func Load(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	ApplyEnv(cfg)
	return cfg, nil
}

// LoadFile reads and parses the config file at path without consulting the
// environment. If path is empty, ConfigPath() is used.
// On parse failure it logs a warning and uses DefaultConfig().
func LoadFile(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
			slog.Warn("Failed to parse config, using defaults", "path", path, "err", err)
			cfg = DefaultConfig()
		}
	}
	return &cfg, nil
}

// ApplyEnv copies environment values into empty config fields.
func ApplyEnv(cfg *Config) {
	fill := func(dst *string, env string) {
		if *dst != "" {
			return
		}
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}

	fill(&cfg.Providers.OpenAI.APIKey, EnvOpenAIKey)
	fill(&cfg.Providers.OpenAI.APIBase, EnvOpenAIBase)
	fill(&cfg.Tools.Serper.APIKey, EnvSerperKey)
	fill(&cfg.Tools.Tavily.APIKey, EnvTavilyKey)
	fill(&cfg.Channels.Telegram.Token, EnvTelegramToken)
	fill(&cfg.Channels.Slack.BotToken, EnvSlackBot)
	fill(&cfg.Channels.Slack.AppToken, EnvSlackApp)
	fill(&cfg.Gateway.APIKey, EnvAPIKey)

	if cfg.Gateway.APIKey == "" {
		cfg.Gateway.APIKey = DefaultAPIKey
	}
}

// Save writes cfg to path as indented JSON.
// If path is empty, ConfigPath() is used.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = ConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	// Append a trailing newline for POSIX compliance.
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
