package channels

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/nexithium/nexithium/internal/bus"
	"github.com/nexithium/nexithium/internal/config/channel"
	"github.com/nexithium/nexithium/internal/schema"
)

// Manager owns all enabled channels and routes outbound messages to them.
type Manager struct {
	b bus.Bus

	mu       sync.RWMutex
	channels map[string]schema.Channel
}

// NewManager creates a Manager holding every channel enabled in cfg.
func NewManager(cfg channel.ChannelsConfig, b bus.Bus) *Manager {
	m := &Manager{b: b, channels: make(map[string]schema.Channel)}

	if cfg.Telegram.Enabled {
		m.Register(NewTelegramChannel(cfg.Telegram, b))
	}
	if cfg.Slack.Enabled {
		m.Register(NewSlackChannel(cfg.Slack, b))
	}
	return m
}

// Register adds ch, replacing any channel with the same name.
func (m *Manager) Register(ch schema.Channel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.channels[ch.Name()] = ch
	slog.Info("Channel enabled", "name", ch.Name())
}

// EnabledChannels returns the sorted names of all registered channels.
func (m *Manager) EnabledChannels() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.channels))
	for n := range m.channels {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// StartAll starts every channel and dispatches outbound messages until ctx
// is cancelled. A channel that fails to start is logged; the rest keep running.
func (m *Manager) StartAll(ctx context.Context) error {
	m.mu.RLock()
	var wg sync.WaitGroup
	for name, ch := range m.channels {
		wg.Add(1)
		go func(n string, c schema.Channel) {
			defer wg.Done()
			slog.Info("Starting channel", "name", n)
			if err := c.Start(ctx); err != nil && ctx.Err() == nil {
				slog.Error("Channel exited with error", "name", n, "err", err)
			}
		}(name, ch)
	}
	m.mu.RUnlock()

	m.dispatchOutbound(ctx)
	wg.Wait()
	return nil
}

func (m *Manager) dispatchOutbound(ctx context.Context) {
	for {
		select {
		case msg := <-m.b.OutboundChan():
			m.deliver(ctx, msg)
		case <-ctx.Done():
			return
		}
	}
}

func (m *Manager) deliver(ctx context.Context, msg bus.OutboundMessage) {
	m.mu.RLock()
	ch, ok := m.channels[string(msg.Channel())]
	m.mu.RUnlock()
	if !ok {
		slog.Debug("No channel for outbound message", "channel", msg.Channel(), "chat", msg.ChatId())
		return
	}
	if err := ch.Send(ctx, msg); err != nil {
		slog.Error("Send error", "channel", msg.Channel(), "err", err)
	}
}
