// Package bus defines the message types that flow between channels and the agent.
package bus

import (
	"time"

	"github.com/nexithium/nexithium/internal/shared/llmutils"
)

// InboundMessage is a message received from a chat channel.
type InboundMessage struct {
	channel   ChannelType
	senderId  string         // user identifier within the channel
	chatId    string         // chat / channel / DM identifier
	content   string         // message text
	timestamp time.Time      // when the message was received
	metadata  map[string]any // channel-specific extra data (message_id, thread_ts, …)
}

// NewInboundMessage creates an InboundMessage with Timestamp set to now.
func NewInboundMessage(channel ChannelType, senderId, chatId, content string) InboundMessage {
	return InboundMessage{
		channel:   channel,
		senderId:  senderId,
		chatId:    chatId,
		content:   content,
		timestamp: time.Now(),
	}
}

func (m InboundMessage) Channel() ChannelType           { return m.channel }
func (m InboundMessage) SenderId() string               { return m.senderId }
func (m InboundMessage) ChatId() string                 { return m.chatId }
func (m InboundMessage) Content() string                { return m.content }
func (m InboundMessage) Timestamp() time.Time           { return m.timestamp }
func (m InboundMessage) Metadata() map[string]any       { return m.metadata }
func (m *InboundMessage) SetMetadata(md map[string]any) { m.metadata = md }

// SessionKey returns the user identifier used to look up conversation memory.
// Format: "channel:chat_id".
func (m InboundMessage) SessionKey() string {
	return string(m.channel) + ":" + m.chatId
}

// Preview returns a short snippet of the message content for logging.
func (m InboundMessage) Preview() string {
	return llmutils.Truncate(m.content, 80)
}

// OutboundMessage is a response to be sent back through a channel.
type OutboundMessage struct {
	channel  ChannelType
	chatId   string
	content  string
	metadata map[string]any // channel-specific hints (thread_ts, message_id, …)
}

func NewOutboundMessage(channel ChannelType, chatId, content string) OutboundMessage {
	return OutboundMessage{
		channel: channel,
		chatId:  chatId,
		content: content,
	}
}

func (m OutboundMessage) Channel() ChannelType           { return m.channel }
func (m OutboundMessage) ChatId() string                 { return m.chatId }
func (m OutboundMessage) Content() string                { return m.content }
func (m OutboundMessage) Metadata() map[string]any       { return m.metadata }
func (m *OutboundMessage) SetMetadata(md map[string]any) { m.metadata = md }
