package channels

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	slackgo "github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"github.com/nexithium/nexithium/internal/bus"
	"github.com/nexithium/nexithium/internal/config/channel"
)

// SlackChannel serves direct messages and mentions via Socket Mode. The
// session key is "slack:<channel>".
type SlackChannel struct {
	Base
	cfg       channel.SlackConfig
	webClient *slackgo.Client
	smClient  *socketmode.Client
	botUserID string
	mentionRe *regexp.Regexp
}

func NewSlackChannel(cfg channel.SlackConfig, b bus.Bus) *SlackChannel {
	return &SlackChannel{
		Base: NewBase(bus.ChannelSlack, b, nil), // DM and group policies replace the allowlist
		cfg:  cfg,
	}
}

func (s *SlackChannel) Name() string { return string(bus.ChannelSlack) }

func (s *SlackChannel) Start(ctx context.Context) error {
	if s.cfg.BotToken == "" || s.cfg.AppToken == "" {
		return fmt.Errorf("slack: bot/app token not configured")
	}

	s.webClient = slackgo.New(s.cfg.BotToken, slackgo.OptionAppLevelToken(s.cfg.AppToken))

	resp, err := s.webClient.AuthTestContext(ctx)
	if err != nil {
		return fmt.Errorf("slack: auth test: %w", err)
	}
	s.setBotUser(resp.UserID)
	slog.Info("slack: connected", "bot_user_id", s.botUserID)

	s.smClient = socketmode.New(s.webClient)
	go func() {
		if err := s.smClient.RunContext(ctx); err != nil && ctx.Err() == nil {
			slog.Error("slack: socket mode stopped", "err", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt, ok := <-s.smClient.Events:
			if !ok {
				return nil
			}
			s.handleEvent(evt)
		}
	}
}

func (s *SlackChannel) setBotUser(id string) {
	s.botUserID = id
	if id != "" {
		s.mentionRe = regexp.MustCompile(`<@` + regexp.QuoteMeta(id) + `>\s*`)
	}
}

func (s *SlackChannel) handleEvent(evt socketmode.Event) {
	if evt.Type != socketmode.EventTypeEventsAPI {
		return
	}
	if evt.Request != nil {
		s.smClient.Ack(*evt.Request)
	}
	cb, ok := evt.Data.(slackevents.EventsAPIEvent)
	if !ok {
		return
	}
	switch ev := cb.InnerEvent.Data.(type) {
	case *slackevents.MessageEvent:
		if ev.SubType != "" || ev.BotID != "" {
			return
		}
		s.handleInbound(slackInbound{
			kind: "message", user: ev.User, channel: ev.Channel, channelType: ev.ChannelType,
			text: ev.Text, ts: ev.TimeStamp, threadTS: ev.ThreadTimeStamp,
		})
	case *slackevents.AppMentionEvent:
		s.handleInbound(slackInbound{
			kind: "app_mention", user: ev.User, channel: ev.Channel,
			text: ev.Text, ts: ev.TimeStamp, threadTS: ev.ThreadTimeStamp,
		})
	}
}

type slackInbound struct {
	kind        string // "message" or "app_mention"
	user        string
	channel     string
	channelType string
	text        string
	ts          string
	threadTS    string
}

func (s *SlackChannel) handleInbound(in slackInbound) bool {
	if in.user == "" || in.channel == "" || in.user == s.botUserID {
		return false
	}
	mentioned := s.botUserID != "" && strings.Contains(in.text, "<@"+s.botUserID+">")
	// Mentions arrive twice, as a message and as an app_mention.
	if in.kind == "message" && mentioned && in.channelType != "im" {
		return false
	}

	if !s.isAllowed(in.user, in.channel, in.channelType) {
		return false
	}
	if in.channelType != "im" && !s.shouldRespond(in.kind, mentioned, in.channel) {
		return false
	}

	text := s.stripMention(in.text)
	if text == "" {
		return false
	}

	threadTS := in.threadTS
	if s.cfg.ReplyInThread && threadTS == "" {
		threadTS = in.ts
	}

	if s.webClient != nil && in.ts != "" && s.cfg.ReactEmoji != "" {
		if err := s.webClient.AddReaction(s.cfg.ReactEmoji, slackgo.NewRefToMessage(in.channel, in.ts)); err != nil {
			slog.Debug("slack: reaction failed", "err", err)
		}
	}

	return s.HandleMessage(in.user, in.channel, text, map[string]any{
		"slack": map[string]any{
			"thread_ts":    threadTS,
			"channel_type": in.channelType,
		},
	})
}

func (s *SlackChannel) isAllowed(user, channel, channelType string) bool {
	if channelType == "im" {
		if !s.cfg.DM.Enabled {
			return false
		}
		if s.cfg.DM.Policy == "allowlist" {
			return slices.Contains(s.cfg.DM.AllowFrom, user)
		}
		return true
	}
	if s.cfg.GroupPolicy == "allowlist" {
		return slices.Contains(s.cfg.GroupAllowFrom, channel)
	}
	return true
}

func (s *SlackChannel) shouldRespond(kind string, mentioned bool, channel string) bool {
	switch s.cfg.GroupPolicy {
	case "open":
		return true
	case "mention":
		return kind == "app_mention" || mentioned
	case "allowlist":
		return slices.Contains(s.cfg.GroupAllowFrom, channel)
	}
	return false
}

func (s *SlackChannel) stripMention(text string) string {
	if s.mentionRe == nil {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(s.mentionRe.ReplaceAllString(text, ""))
}

func (s *SlackChannel) Send(ctx context.Context, msg bus.OutboundMessage) error {
	if s.webClient == nil {
		return fmt.Errorf("slack: client not running")
	}
	meta, _ := msg.Metadata()["slack"].(map[string]any)
	threadTS, _ := meta["thread_ts"].(string)
	channelType, _ := meta["channel_type"].(string)

	options := []slackgo.MsgOption{slackgo.MsgOptionText(msg.Content(), false)}
	if threadTS != "" && channelType != "im" {
		options = append(options, slackgo.MsgOptionTS(threadTS))
	}

	if _, _, err := s.webClient.PostMessageContext(ctx, msg.ChatId(), options...); err != nil {
		return fmt.Errorf("slack: post message: %w", err)
	}
	return nil
}
