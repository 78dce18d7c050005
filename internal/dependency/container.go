// Package dependency wires nexithium services using go.uber.org/dig.
package dependency

import (
	"fmt"
	"strings"

	"go.uber.org/dig"

	"github.com/nexithium/nexithium/internal/agent"
	"github.com/nexithium/nexithium/internal/bus"
	"github.com/nexithium/nexithium/internal/channels"
	"github.com/nexithium/nexithium/internal/config"
	"github.com/nexithium/nexithium/internal/cron"
	"github.com/nexithium/nexithium/internal/memory"
	"github.com/nexithium/nexithium/internal/providers"
	"github.com/nexithium/nexithium/internal/schema"
	"github.com/nexithium/nexithium/internal/server"
	"github.com/nexithium/nexithium/internal/tools"
)

// MemoryMode selects where conversation history lives.
type MemoryMode string

const (
	MemoryLong  MemoryMode = "long"  // JSON file per user
	MemoryShort MemoryMode = "short" // process lifetime only
)

// ParseMemoryMode accepts "long" or "short" (case-insensitive).
func ParseMemoryMode(s string) (MemoryMode, error) {
	switch MemoryMode(strings.ToLower(strings.TrimSpace(s))) {
	case MemoryLong, "":
		return MemoryLong, nil
	case MemoryShort:
		return MemoryShort, nil
	}
	return "", fmt.Errorf("invalid memory mode %q (want short or long)", s)
}

// Options are per-invocation overrides supplied by the CLI.
type Options struct {
	Persona string
	Model   string
	Memory  MemoryMode
}

// Container holds the resolved service singletons.
// Callers use the typed getter methods; they never need to import dig directly.
type Container struct {
	cfg        *config.Config
	registry   *tools.Registry
	personas   *agent.Personas
	agent      *agent.Agent
	dispatcher *agent.Dispatcher
	memories   memory.Directory
	msgBus     bus.Bus
	loop       *agent.Loop
	cronSvc    *cron.Service
	channels   *channels.Manager
	server     *server.Server
}

func (c *Container) Config() *config.Config            { return c.cfg }
func (c *Container) Registry() *tools.Registry         { return c.registry }
func (c *Container) Personas() *agent.Personas         { return c.personas }
func (c *Container) Agent() *agent.Agent               { return c.agent }
func (c *Container) Dispatcher() *agent.Dispatcher     { return c.dispatcher }
func (c *Container) Memories() memory.Directory        { return c.memories }
func (c *Container) MessageBus() bus.Bus               { return c.msgBus }
func (c *Container) AgentLoop() *agent.Loop            { return c.loop }
func (c *Container) CronService() *cron.Service        { return c.cronSvc }
func (c *Container) ChannelManager() *channels.Manager { return c.channels }
func (c *Container) Server() *server.Server            { return c.server }

// New builds and wires all services from cfg.
func New(cfg *config.Config, opts Options) (*Container, error) {
	d := dig.New()

	constructors := []any{
		func() *config.Config { return cfg },
		func() Options { return opts },
		newRegistry,
		newProvider,
		newPersonas,
		newAgent,
		newMemoryDirectory,
		agent.NewDispatcher,
		newMessageBus,
		agent.NewLoop,
		newCronService,
		newChannelManager,
		newServer,
	}
	for _, c := range constructors {
		if err := d.Provide(c); err != nil {
			return nil, err
		}
	}

	var result *Container
	err := d.Invoke(func(
		registry *tools.Registry,
		personas *agent.Personas,
		a *agent.Agent,
		dispatcher *agent.Dispatcher,
		memories memory.Directory,
		msgBus bus.Bus,
		loop *agent.Loop,
		cronSvc *cron.Service,
		chans *channels.Manager,
		srv *server.Server,
	) {
		result = &Container{
			cfg:        cfg,
			registry:   registry,
			personas:   personas,
			agent:      a,
			dispatcher: dispatcher,
			memories:   memories,
			msgBus:     msgBus,
			loop:       loop,
			cronSvc:    cronSvc,
			channels:   chans,
			server:     srv,
		}
	})
	if err != nil {
		return nil, fmt.Errorf("wire services: %w", dig.RootCause(err))
	}
	return result, nil
}

func newRegistry(cfg *config.Config) *tools.Registry {
	return tools.NewBuiltinRegistry(tools.BuiltinOptions{
		CoinGeckoURL: cfg.Tools.CoinGecko.BaseURL,
		SerperURL:    cfg.Tools.Serper.BaseURL,
		SerperAPIKey: cfg.Tools.Serper.APIKey,
		TavilyURL:    cfg.Tools.Tavily.BaseURL,
		TavilyAPIKey: cfg.Tools.Tavily.APIKey,
		Timeout:      cfg.ToolTimeout(),
	})
}

// newProvider never fails on a missing key: tool commands work without one
// and chat replies carry the error text.
func newProvider(cfg *config.Config, opts Options) schema.CompletionProvider {
	model := cfg.Agents.Defaults.Model
	if opts.Model != "" {
		model = opts.Model
	}
	return providers.New(providers.Params{
		APIKey:       cfg.Providers.OpenAI.APIKey,
		APIBase:      cfg.Providers.OpenAI.APIBase,
		DefaultModel: model,
		Timeout:      cfg.CompletionTimeout(),
	})
}

func newPersonas(cfg *config.Config) (*agent.Personas, error) {
	return agent.LoadPersonas(cfg.PersonasPath())
}

func newAgent(
	cfg *config.Config,
	opts Options,
	personas *agent.Personas,
	registry *tools.Registry,
	provider schema.CompletionProvider,
) *agent.Agent {
	name := opts.Persona
	if name == "" {
		name = cfg.Agents.Defaults.Persona
	}
	persona := personas.Resolve(name)

	d := cfg.Agents.Defaults
	base := schema.NewAgentSettings(d.Model, d.Temperature, d.MaxTokens, d.MemoryWindow, cfg.CompletionTimeout())
	settings := persona.Settings(base)
	if opts.Model != "" {
		settings.Model = opts.Model
	}

	return agent.New(persona.Name, persona.SystemPrompt, registry, provider, settings, nil)
}

func newMemoryDirectory(cfg *config.Config, opts Options) (memory.Directory, error) {
	if opts.Memory == MemoryShort {
		return memory.NewEphemeralManager(cfg.Agents.Memory.ShortTermWindow), nil
	}
	return memory.NewManager(cfg.MemoryPath(), cfg.Agents.Memory.MaxTurns)
}

func newMessageBus() bus.Bus {
	return bus.NewMessageBus(100)
}

func newCronService(cfg *config.Config, a *agent.Agent, b bus.Bus) (*cron.Service, error) {
	return cron.NewService(cfg.Cron.Jobs, a, b)
}

func newChannelManager(cfg *config.Config, b bus.Bus) *channels.Manager {
	return channels.NewManager(cfg.Channels, b)
}

func newServer(cfg *config.Config, dispatcher *agent.Dispatcher) *server.Server {
	return server.New(cfg.Gateway, dispatcher)
}
