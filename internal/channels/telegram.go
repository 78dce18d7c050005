package channels

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nexithium/nexithium/internal/bus"
	"github.com/nexithium/nexithium/internal/config/channel"
)

// telegramChunk stays under Telegram's 4096-character message limit.
const telegramChunk = 4000

// Texts of the inline menu shown on /start and "menu".
const (
	telegramWelcome    = "👋 Welcome to CryptoVision Bot! Use the menu or type commands."
	telegramMenuPrompt = "Select an option:"
)

// editMessageKey marks an inbound message whose reply replaces the text of
// an existing bot message (the menu a button was pressed on).
const editMessageKey = "edit_message_id"

// telegramAPI is the part of *tgbotapi.BotAPI the channel sends through.
type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// TelegramChannel serves the bot via long polling. Every text message,
// commands included, goes to the agent under session "telegram:<chatID>",
// except /start and "menu", which answer with the inline menu.
type TelegramChannel struct {
	Base
	cfg channel.TelegramConfig
	api telegramAPI
}

func telegramMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📈 Price", "tool:get_price")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📊 Trend", "tool:token_trend")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🔍 Analyze", "analyze")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🔮 Forecast", "forecast")),
	)
}

func NewTelegramChannel(cfg channel.TelegramConfig, b bus.Bus) *TelegramChannel {
	return &TelegramChannel{
		Base: NewBase(bus.ChannelTelegram, b, cfg.AllowFrom),
		cfg:  cfg,
	}
}

func (t *TelegramChannel) Name() string { return string(bus.ChannelTelegram) }

func (t *TelegramChannel) Start(ctx context.Context) error {
	if t.cfg.Token == "" {
		return fmt.Errorf("telegram: bot token not configured")
	}

	client := http.DefaultClient
	if t.cfg.Proxy != "" {
		proxy, err := url.Parse(t.cfg.Proxy)
		if err != nil {
			return fmt.Errorf("telegram: invalid proxy %q: %w", t.cfg.Proxy, err)
		}
		client = &http.Client{Transport: &http.Transport{Proxy: http.ProxyURL(proxy)}}
	}

	bot, err := tgbotapi.NewBotAPIWithClient(t.cfg.Token, tgbotapi.APIEndpoint, client)
	if err != nil {
		return fmt.Errorf("telegram: create bot: %w", err)
	}
	t.api = bot
	slog.Info("telegram: connected", "username", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := bot.GetUpdatesChan(u)

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			t.handleUpdate(update)
		case <-ctx.Done():
			bot.StopReceivingUpdates()
			return ctx.Err()
		}
	}
}

func (t *TelegramChannel) handleUpdate(update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		t.handleCallback(update.CallbackQuery)
		return
	}

	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return
	}

	content := strings.TrimSpace(msg.Text)
	if content == "" {
		return
	}
	// "/price@MyBot BTC" in group chats.
	if msg.IsCommand() {
		content = "/" + msg.Command()
		if rest := msg.CommandArguments(); rest != "" {
			content += " " + rest
		}
	}

	senderID := telegramSender(msg.From)
	if lower := strings.ToLower(content); lower == "/start" || lower == "menu" {
		if !t.IsAllowed(senderID) {
			slog.Warn("Access denied", "channel", bus.ChannelTelegram, "sender", senderID)
			return
		}
		text := telegramMenuPrompt
		if lower == "/start" {
			text = telegramWelcome
		}
		t.sendMenu(msg.Chat.ID, text)
		return
	}

	metadata := map[string]any{
		"message_id": msg.MessageID,
		"username":   msg.From.UserName,
		"is_group":   !msg.Chat.IsPrivate(),
	}
	if t.HandleMessage(senderID, strconv.FormatInt(msg.Chat.ID, 10), content, metadata) {
		t.sendTyping(msg.Chat.ID)
	}
}

// handleCallback answers an inline menu button. Tool buttons run the tool
// with no argument and replace the menu with its output.
func (t *TelegramChannel) handleCallback(q *tgbotapi.CallbackQuery) {
	if q.From == nil || q.Message == nil || q.Message.Chat == nil {
		return
	}
	senderID := telegramSender(q.From)
	if !t.IsAllowed(senderID) {
		slog.Warn("Access denied", "channel", bus.ChannelTelegram, "sender", senderID)
		return
	}
	if t.api != nil {
		if _, err := t.api.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
			slog.Debug("telegram: callback answer failed", "err", err)
		}
	}

	chatID := q.Message.Chat.ID

	var text string
	switch {
	case strings.HasPrefix(q.Data, "tool:"):
		metadata := map[string]any{
			editMessageKey: q.Message.MessageID,
			"username":     q.From.UserName,
			"is_group":     !q.Message.Chat.IsPrivate(),
		}
		if t.HandleMessage(senderID, strconv.FormatInt(chatID, 10), strings.TrimPrefix(q.Data, "tool:"), metadata) {
			t.sendTyping(chatID)
		}
		return
	case q.Data == "analyze":
		text = "Send 'analyze SOL' or /analyze to use analysis."
	case q.Data == "forecast":
		text = "Send 'forecast ETH' or /forecast to get a forecast."
	default:
		text = "Unknown option."
	}
	t.editText(chatID, q.Message.MessageID, text)
}

func (t *TelegramChannel) sendMenu(chatID int64, text string) {
	if t.api == nil {
		return
	}
	m := tgbotapi.NewMessage(chatID, text)
	m.ReplyMarkup = telegramMenu()
	if _, err := t.api.Send(m); err != nil {
		slog.Warn("telegram: send menu failed", "chat", chatID, "err", err)
	}
}

func (t *TelegramChannel) editText(chatID int64, messageID int, text string) {
	if t.api == nil {
		return
	}
	if _, err := t.api.Send(tgbotapi.NewEditMessageText(chatID, messageID, text)); err != nil {
		slog.Warn("telegram: edit message failed", "chat", chatID, "err", err)
	}
}

// telegramSender renders a user as "id|username" for allowlist checks.
func telegramSender(u *tgbotapi.User) string {
	id := strconv.FormatInt(u.ID, 10)
	if u.UserName != "" {
		id += "|" + u.UserName
	}
	return id
}

func (t *TelegramChannel) sendTyping(chatID int64) {
	if t.api == nil {
		return
	}
	if _, err := t.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		slog.Debug("telegram: typing action failed", "chat", chatID, "err", err)
	}
}

// Send delivers msg as Markdown in 4000-character chunks, resending a chunk
// as plain text when Telegram rejects its markup. A reply to a menu button
// replaces the menu text with the first chunk.
func (t *TelegramChannel) Send(_ context.Context, msg bus.OutboundMessage) error {
	if t.api == nil {
		return fmt.Errorf("telegram: bot not running")
	}
	chatID, err := parseChatID(msg.ChatId())
	if err != nil {
		return err
	}
	if msg.Content() == "" {
		return nil
	}

	replyTo := 0
	if t.cfg.ReplyToMessage {
		replyTo = replyToID(msg.Metadata(), "message_id")
	}
	editID := replyToID(msg.Metadata(), editMessageKey)

	for i, chunk := range splitMessage(msg.Content(), telegramChunk) {
		if i == 0 && editID != 0 {
			if err := t.sendEdit(chatID, editID, chunk); err != nil {
				return err
			}
			continue
		}

		m := tgbotapi.NewMessage(chatID, chunk)
		m.ParseMode = tgbotapi.ModeMarkdown
		m.ReplyToMessageID = replyTo
		if _, err := t.api.Send(m); err == nil {
			continue
		}

		plain := tgbotapi.NewMessage(chatID, chunk)
		plain.ReplyToMessageID = replyTo
		if _, err := t.api.Send(plain); err != nil {
			return fmt.Errorf("telegram: send: %w", err)
		}
	}
	return nil
}

func (t *TelegramChannel) sendEdit(chatID int64, messageID int, text string) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdown
	if _, err := t.api.Send(edit); err == nil {
		return nil
	}
	if _, err := t.api.Send(tgbotapi.NewEditMessageText(chatID, messageID, text)); err != nil {
		return fmt.Errorf("telegram: edit: %w", err)
	}
	return nil
}

// replyToID reads a message id stored under key in md.
func replyToID(md map[string]any, key string) int {
	switch v := md[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func parseChatID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid chat_id: %s", s)
	}
	return id, nil
}
