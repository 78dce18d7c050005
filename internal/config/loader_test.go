package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir string, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

// clearEnv unsets every variable ApplyEnv reads for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		EnvOpenAIKey, EnvOpenAIBase, EnvSerperKey, EnvTavilyKey,
		EnvTelegramToken, EnvSlackBot, EnvSlackApp, EnvAPIKey,
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_NonExistent(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("/nonexistent/path/config.json")
	require.NoError(t, err)

	def := DefaultConfig()
	assert.Equal(t, def.Agents.Defaults.Model, cfg.Agents.Defaults.Model)
	assert.Equal(t, DefaultAPIKey, cfg.Gateway.APIKey)
}

func TestLoad_ValidConfig(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := writeConfig(t, dir, map[string]any{
		"agents": map[string]any{
			"defaults": map[string]any{
				"model":     "gpt-4o-mini",
				"maxTokens": 4096,
			},
		},
		"gateway": map[string]any{"port": 9000},
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", cfg.Agents.Defaults.Model)
	assert.Equal(t, 4096, cfg.Agents.Defaults.MaxTokens)
	assert.Equal(t, 9000, cfg.Gateway.Port)

	// Unset fields keep their defaults.
	assert.Equal(t, 0.7, cfg.Agents.Defaults.Temperature)
	assert.Equal(t, 20, cfg.Agents.Defaults.MemoryWindow)
	assert.Equal(t, "0.0.0.0", cfg.Gateway.Host)
}

func TestLoad_Comments(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  // completion endpoint
  "providers": {"openai": {"apiKey": "sk-file"}},
  /* scheduled digests */
  "cron": {"jobs": [
    {"name": "btc", "enabled": true, "schedule": "@every 1h", "tool": "get_price",
     "args": ["BTC"], "channel": "telegram", "chatId": "42"},
  ]},
}`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-file", cfg.Providers.OpenAI.APIKey)
	require.Len(t, cfg.Cron.Jobs, 1)
	assert.Equal(t, []string{"BTC"}, cfg.Cron.Jobs[0].Args)
}

func TestLoad_InvalidJSON(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not valid json"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err, "invalid JSON falls back to defaults")
	assert.Equal(t, DefaultConfig().Agents.Defaults.Model, cfg.Agents.Defaults.Model)
}

func TestLoad_EnvFillsEmptyValues(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvOpenAIKey, "sk-env")
	t.Setenv(EnvSerperKey, "serper-env")
	t.Setenv(EnvTavilyKey, "tavily-env")
	t.Setenv(EnvTelegramToken, "tg-env")
	t.Setenv(EnvAPIKey, "api-env")

	path := writeConfig(t, t.TempDir(), map[string]any{
		"tools": map[string]any{"serper": map[string]any{"apiKey": "serper-file"}},
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-env", cfg.Providers.OpenAI.APIKey)
	assert.Equal(t, "serper-file", cfg.Tools.Serper.APIKey, "file values win over env")
	assert.Equal(t, "tavily-env", cfg.Tools.Tavily.APIKey)
	assert.Equal(t, "tg-env", cfg.Channels.Telegram.Token)
	assert.Equal(t, "api-env", cfg.Gateway.APIKey)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("TAVILY_API_KEY=from-dotenv\n"), 0o600))

	LoadDotEnv(envFile, filepath.Join(t.TempDir(), "missing.env"))
	t.Cleanup(func() { os.Unsetenv(EnvTavilyKey) })

	// t.Setenv left an empty value, which godotenv does not override.
	assert.Equal(t, "", os.Getenv(EnvTavilyKey))

	os.Unsetenv(EnvTavilyKey)
	LoadDotEnv(envFile)
	assert.Equal(t, "from-dotenv", os.Getenv(EnvTavilyKey))
}

func TestSave_RoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := DefaultConfig()
	cfg.Agents.Defaults.Persona = "CryptoVisionAPI"
	cfg.Tools.TimeoutSeconds = 8
	require.NoError(t, Save(&cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "CryptoVisionAPI", loaded.Agents.Defaults.Persona)
	assert.Equal(t, 8*time.Second, loaded.ToolTimeout())
	assert.Equal(t, 60*time.Second, loaded.CompletionTimeout())
}

func TestMemoryPath(t *testing.T) {
	cfg := DefaultConfig()
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".nexithium", "memory_logs"), cfg.MemoryPath())

	cfg.Agents.Memory.Dir = "/var/lib/nexithium"
	assert.Equal(t, "/var/lib/nexithium", cfg.MemoryPath())
	assert.Equal(t, "", cfg.PersonasPath())
}

func TestLoadFile_IgnoresEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvOpenAIKey, "sk-from-env")
	t.Setenv(EnvTelegramToken, "tg-from-env")

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Providers.OpenAI.APIKey)
	assert.Empty(t, cfg.Channels.Telegram.Token)
	assert.Empty(t, cfg.Gateway.APIKey)

	withEnv, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", withEnv.Providers.OpenAI.APIKey)
	assert.Equal(t, DefaultAPIKey, withEnv.Gateway.APIKey)
}
