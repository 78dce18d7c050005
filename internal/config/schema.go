// Package config defines the configuration schema for nexithium.
//
// The file lives at ~/.nexithium/config.json, uses camelCase keys and may
// contain // and /* */ comments.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/nexithium/nexithium/internal/config/agent"
	"github.com/nexithium/nexithium/internal/config/channel"
	"github.com/nexithium/nexithium/internal/config/gateway"
	"github.com/nexithium/nexithium/internal/config/provider"
	"github.com/nexithium/nexithium/internal/config/schedule"
	"github.com/nexithium/nexithium/internal/config/tool"
)

// Config is the root configuration object.
type Config struct {
	Agents    agent.AgentsConfig       `json:"agents"`
	Channels  channel.ChannelsConfig   `json:"channels"`
	Providers provider.ProvidersConfig `json:"providers"`
	Gateway   gateway.GatewayConfig    `json:"gateway"`
	Tools     tool.ToolsConfig         `json:"tools"`
	Cron      schedule.ScheduleConfig  `json:"cron"`
}

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() Config {
	return Config{
		Agents:    agent.DefaultAgentsConfig(),
		Channels:  channel.DefaultChannelsConfig(),
		Providers: provider.DefaultProvidersConfig(),
		Gateway:   gateway.DefaultGatewayConfig(),
		Tools:     tool.DefaultToolConfigs(),
		Cron:      schedule.DefaultScheduleConfig(),
	}
}

// MemoryPath returns the expanded directory holding per-user history files.
func (c *Config) MemoryPath() string {
	dir := c.Agents.Memory.Dir
	if dir == "" {
		return filepath.Join(DataDir(), "memory_logs")
	}
	return expandHome(dir)
}

// PersonasPath returns the expanded persona directory, or "" when unset.
func (c *Config) PersonasPath() string {
	if c.Agents.Defaults.PersonasDir == "" {
		return ""
	}
	return expandHome(c.Agents.Defaults.PersonasDir)
}

// CompletionTimeout is the deadline applied to every completion call.
func (c *Config) CompletionTimeout() time.Duration {
	return seconds(c.Agents.Defaults.TimeoutSeconds)
}

// ToolTimeout is the deadline applied to every tool HTTP call.
func (c *Config) ToolTimeout() time.Duration {
	return seconds(c.Tools.TimeoutSeconds)
}

func seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	if len(path) >= 2 && path[:2] == "~/" {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
