package agent

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nexithium/nexithium/internal/schema"
)

const DefaultPersona = "CryptoVision"

//go:embed personas.yaml
var builtinPersonas []byte

// genericPrompt is used for persona names with no definition.
const genericPrompt = "You are %s, a professional AI crypto analyst. " +
	"Answer clearly, use tools when appropriate, and never provide financial advice."

// Persona is a named system prompt with optional sampling overrides.
type Persona struct {
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description,omitempty"`
	SystemPrompt string   `yaml:"system_prompt"`
	Model        string   `yaml:"model,omitempty"`
	Temperature  *float64 `yaml:"temperature,omitempty"`
	MaxTokens    int      `yaml:"max_tokens,omitempty"`
}

// Personas is a case-insensitive set of personas.
type Personas struct {
	byKey map[string]Persona
}

// LoadPersonas returns the built-in personas merged with every *.yaml / *.yml
// file in dir. A file may hold one persona or a list. dir may be empty or
// missing.
func LoadPersonas(dir string) (*Personas, error) {
	p := &Personas{byKey: map[string]Persona{}}
	if err := p.add(builtinPersonas, "builtin"); err != nil {
		return nil, err
	}
	if dir == "" {
		return p, nil
	}

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read personas dir: %w", err)
	}

	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read persona %s: %w", path, err)
		}
		if err := p.add(data, path); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Personas) add(data []byte, source string) error {
	var list []Persona
	if err := yaml.Unmarshal(data, &list); err != nil {
		var single Persona
		if err2 := yaml.Unmarshal(data, &single); err2 != nil {
			return fmt.Errorf("parse persona %s: %w", source, err)
		}
		list = []Persona{single}
	}

	for _, persona := range list {
		persona.Name = strings.TrimSpace(persona.Name)
		if persona.Name == "" {
			return fmt.Errorf("parse persona %s: missing name", source)
		}
		persona.SystemPrompt = strings.TrimSpace(persona.SystemPrompt)
		p.byKey[strings.ToLower(persona.Name)] = persona
	}
	return nil
}

// Get returns the persona registered under name, ignoring case.
func (p *Personas) Get(name string) (Persona, bool) {
	persona, ok := p.byKey[strings.ToLower(strings.TrimSpace(name))]
	return persona, ok
}

// Resolve returns the named persona, or a generic analyst persona carrying
// that name when none is defined.
func (p *Personas) Resolve(name string) Persona {
	if name == "" {
		name = DefaultPersona
	}
	if persona, ok := p.Get(name); ok {
		return persona
	}
	return Persona{Name: name, SystemPrompt: fmt.Sprintf(genericPrompt, name)}
}

// Names returns the persona names, sorted.
func (p *Personas) Names() []string {
	out := make([]string, 0, len(p.byKey))
	for _, persona := range p.byKey {
		out = append(out, persona.Name)
	}
	sort.Strings(out)
	return out
}

// Settings overlays the persona's overrides on base.
func (persona Persona) Settings(base schema.AgentSettings) schema.AgentSettings {
	if persona.Model != "" {
		base.Model = persona.Model
	}
	if persona.Temperature != nil {
		base.Temperature = *persona.Temperature
	}
	if persona.MaxTokens > 0 {
		base.MaxTokens = persona.MaxTokens
	}
	return base
}
