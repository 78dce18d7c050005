package agent

import (
	"context"
	"log/slog"
	"sync"

	"github.com/nexithium/nexithium/internal/bus"
)

// Loop reads InboundMessages from the bus, answers each through the
// Dispatcher and publishes the reply as an OutboundMessage. Sessions run
// concurrently; messages within one session are answered in arrival order.
type Loop struct {
	bus        bus.Bus
	dispatcher *Dispatcher

	mu     sync.Mutex
	queues map[string][]bus.InboundMessage // session key → pending messages
}

func NewLoop(b bus.Bus, dispatcher *Dispatcher) *Loop {
	return &Loop{bus: b, dispatcher: dispatcher, queues: make(map[string][]bus.InboundMessage)}
}

// Run blocks until ctx is cancelled.
func (loop *Loop) Run(ctx context.Context) error {
	slog.Info("Agent loop started")

	for {
		select {
		case msg := <-loop.bus.InboundChan():
			loop.enqueue(ctx, msg)
		case <-ctx.Done():
			slog.Info("Agent loop stopping")
			return ctx.Err()
		}
	}
}

// enqueue appends msg to its session queue, starting a worker when the
// session has none.
func (loop *Loop) enqueue(ctx context.Context, msg bus.InboundMessage) {
	key := msg.SessionKey()

	loop.mu.Lock()
	_, running := loop.queues[key]
	loop.queues[key] = append(loop.queues[key], msg)
	loop.mu.Unlock()

	if !running {
		go loop.drain(ctx, key)
	}
}

func (loop *Loop) drain(ctx context.Context, key string) {
	for {
		loop.mu.Lock()
		pending := loop.queues[key]
		if len(pending) == 0 {
			delete(loop.queues, key)
			loop.mu.Unlock()
			return
		}
		msg := pending[0]
		loop.queues[key] = pending[1:]
		loop.mu.Unlock()

		loop.handleMessage(ctx, msg)
	}
}

func (loop *Loop) handleMessage(ctx context.Context, msg bus.InboundMessage) {
	out := loop.process(ctx, msg)
	loop.bus.PublishOutbound(out)
}

func (loop *Loop) process(ctx context.Context, msg bus.InboundMessage) bus.OutboundMessage {
	slog.Info(
		"Processing message",
		"sender", msg.SenderId(),
		"channel", msg.Channel(),
		"content", msg.Preview(),
	)

	reply := loop.dispatcher.Handle(ctx, msg.SessionKey(), msg.Content())

	out := bus.NewOutboundMessage(msg.Channel(), msg.ChatId(), reply.Text)
	out.SetMetadata(msg.Metadata())
	return out
}
