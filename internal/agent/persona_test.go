package agent

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPersonas_Builtin(t *testing.T) {
	p, err := LoadPersonas("")
	require.NoError(t, err)

	assert.Equal(t, []string{"CryptoVision", "CryptoVisionAPI"}, p.Names())

	cv, ok := p.Get("cryptovision")
	require.True(t, ok)
	assert.Contains(t, cv.SystemPrompt, "never provide financial advice")

	api := p.Resolve("CryptoVisionAPI")
	assert.Contains(t, api.SystemPrompt, "Never provide investment advice.")
}

func TestLoadPersonas_DirectoryOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "defi.yaml"), []byte(`
name: DeFiScout
system_prompt: You are DeFiScout.
model: gpt-4o-mini
temperature: 0.2
max_tokens: 300
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "override.yml"), []byte(`
- name: CryptoVision
  system_prompt: Custom prompt.
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	p, err := LoadPersonas(dir)
	require.NoError(t, err)

	assert.Equal(t, "Custom prompt.", p.Resolve("CryptoVision").SystemPrompt)

	scout, ok := p.Get("defiscout")
	require.True(t, ok)
	settings := scout.Settings(DefaultSettings())
	assert.Equal(t, "gpt-4o-mini", settings.Model)
	assert.Equal(t, 0.2, settings.Temperature)
	assert.Equal(t, 300, settings.MaxTokens)
	assert.Equal(t, DefaultMemoryWindow, settings.MemoryWindow)
}

func TestLoadPersonas_Errors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("system_prompt: no name"), 0o644))

	_, err := LoadPersonas(dir)
	assert.ErrorContains(t, err, "missing name")

	p, err := LoadPersonas(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Len(t, p.Names(), 2)
}

func TestPersonas_ResolveUnknown(t *testing.T) {
	p, err := LoadPersonas("")
	require.NoError(t, err)

	persona := p.Resolve("ChainOracle")
	assert.Equal(t, "ChainOracle", persona.Name)
	assert.Equal(t, "You are ChainOracle, a professional AI crypto analyst. "+
		"Answer clearly, use tools when appropriate, and never provide financial advice.", persona.SystemPrompt)

	assert.Equal(t, DefaultPersona, p.Resolve("").Name)
}
