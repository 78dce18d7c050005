// Package channels connects chat platforms to the message bus.
package channels

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/nexithium/nexithium/internal/bus"
)

// Base holds state and helpers shared by all channels.
type Base struct {
	channelName bus.ChannelType
	b           bus.Bus
	allowFrom   []string // empty = allow all
}

func NewBase(name bus.ChannelType, b bus.Bus, allowFrom []string) Base {
	return Base{channelName: name, b: b, allowFrom: allowFrom}
}

// IsAllowed checks whether senderID is on the allowlist.
// senderID may be "id|username" (Telegram); either part matches.
func (b *Base) IsAllowed(senderID string) bool {
	if len(b.allowFrom) == 0 {
		return true
	}
	for _, part := range strings.Split(senderID, "|") {
		if part == "" {
			continue
		}
		for _, allowed := range b.allowFrom {
			if allowed == part || allowed == senderID {
				return true
			}
		}
	}
	return false
}

// HandleMessage drops messages from senders outside the allowlist and
// publishes the rest to the bus.
func (b *Base) HandleMessage(senderID, chatID, content string, metadata map[string]any) bool {
	if !b.IsAllowed(senderID) {
		slog.Warn("Access denied", "channel", b.channelName, "sender", senderID)
		return false
	}

	msg := bus.NewInboundMessage(b.channelName, senderID, chatID, content)
	msg.SetMetadata(metadata)
	b.b.PublishInbound(msg)
	return true
}

// splitMessage splits content into chunks of at most maxLen runes,
// preferring newline breaks, then space breaks, then a hard cut.
func splitMessage(content string, maxLen int) []string {
	if maxLen <= 0 || utf8.RuneCountInString(content) <= maxLen {
		return []string{content}
	}

	var chunks []string
	runes := []rune(content)
	for len(runes) > 0 {
		if len(runes) <= maxLen {
			chunks = append(chunks, string(runes))
			break
		}
		cut := string(runes[:maxLen])
		pos := strings.LastIndex(cut, "\n")
		if pos <= 0 {
			pos = strings.LastIndex(cut, " ")
		}
		n := maxLen
		if pos > 0 {
			n = utf8.RuneCountInString(cut[:pos])
		}
		chunks = append(chunks, string(runes[:n]))
		runes = []rune(strings.TrimLeft(string(runes[n:]), " \t\n"))
	}
	return chunks
}
