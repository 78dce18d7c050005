package channels

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nexithium/nexithium/internal/bus"
	"github.com/nexithium/nexithium/internal/config/channel"
)

func newTestSlack(mutate func(*channel.SlackConfig)) (*SlackChannel, *bus.MessageBus) {
	cfg := channel.DefaultSlackConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	mb := bus.NewMessageBus(8)
	s := NewSlackChannel(cfg, mb)
	s.setBotUser("UBOT")
	return s, mb
}

func TestSlack_DirectMessage(t *testing.T) {
	s, mb := newTestSlack(nil)

	ok := s.handleInbound(slackInbound{kind: "message", user: "U1", channel: "D1", channelType: "im", text: "price BTC", ts: "1.0"})
	assert.True(t, ok)

	msg := <-mb.InboundChan()
	assert.Equal(t, "slack:D1", msg.SessionKey())
	assert.Equal(t, "price BTC", msg.Content())
	meta := msg.Metadata()["slack"].(map[string]any)
	assert.Equal(t, "1.0", meta["thread_ts"])
	assert.Equal(t, "im", meta["channel_type"])
}

func TestSlack_MentionPolicy(t *testing.T) {
	s, mb := newTestSlack(nil)

	// Plain channel chatter is ignored under the default mention policy.
	assert.False(t, s.handleInbound(slackInbound{kind: "message", user: "U1", channel: "C1", channelType: "channel", text: "hello"}))
	// The message copy of a mention is skipped in favour of app_mention.
	assert.False(t, s.handleInbound(slackInbound{kind: "message", user: "U1", channel: "C1", channelType: "channel", text: "<@UBOT> hi"}))
	assert.True(t, s.handleInbound(slackInbound{kind: "app_mention", user: "U1", channel: "C1", text: "<@UBOT>  trend ETH"}))

	msg := <-mb.InboundChan()
	assert.Equal(t, "trend ETH", msg.Content())
	assert.Equal(t, 0, mb.InboundSize())
}

func TestSlack_Policies(t *testing.T) {
	s, _ := newTestSlack(func(c *channel.SlackConfig) {
		c.DM.Policy = "allowlist"
		c.DM.AllowFrom = []string{"U1"}
		c.GroupPolicy = "allowlist"
		c.GroupAllowFrom = []string{"C1"}
	})

	assert.True(t, s.isAllowed("U1", "D1", "im"))
	assert.False(t, s.isAllowed("U2", "D1", "im"))
	assert.True(t, s.isAllowed("U2", "C1", "channel"))
	assert.False(t, s.isAllowed("U2", "C2", "channel"))

	s.cfg.DM.Enabled = false
	assert.False(t, s.isAllowed("U1", "D1", "im"))

	assert.False(t, s.handleInbound(slackInbound{kind: "message", user: "UBOT", channel: "C1", text: "echo"}))
}
