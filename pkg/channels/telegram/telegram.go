// Package telegram provides the Telegram transport.
package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"storebot/pkg/config"
	"storebot/pkg/logger"
	"storebot/pkg/render"
	"storebot/pkg/router"
	"storebot/pkg/session"
	"storebot/pkg/view"
)

// Channel implements the Telegram channel: long-polled updates in, rendered
// screens out. Inline keyboards carry action tokens as callback data.
type Channel struct {
	log      *logger.Logger
	router   *router.Router
	sessions *session.Manager
	config   *config.TelegramConfig

	bot      *tgbotapi.BotAPI
	stopOnce sync.Once
	ctx      context.Context
	cancel   context.CancelFunc
}

// New creates a new Telegram channel.
func New(
	log *logger.Logger,
	rt *router.Router,
	sessions *session.Manager,
	cfg *config.TelegramConfig,
) (*Channel, error) {
	if cfg.Enabled && cfg.Token == "" {
		return nil, fmt.Errorf("telegram token is required")
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Channel{
		log:      log,
		router:   rt,
		sessions: sessions,
		config:   cfg,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// ID returns the channel identifier.
func (c *Channel) ID() string {
	return "telegram"
}

// Name returns the channel name.
func (c *Channel) Name() string {
	return "Telegram"
}

// IsEnabled returns whether the channel is enabled.
func (c *Channel) IsEnabled() bool {
	return c.config.Enabled
}

// Capabilities advertises native inline button support.
func (c *Channel) Capabilities() []string {
	return []string{"inlineButtons"}
}

// Start starts the Telegram bot and begins listening for updates.
func (c *Channel) Start(ctx context.Context) error {
	c.log.Info("Starting Telegram channel")

	// Keep HTTP timeout longer than long-poll timeout to avoid periodic forced reconnects.
	httpClient := &http.Client{Timeout: 75 * time.Second}

	bot, err := tgbotapi.NewBotAPIWithClient(c.config.Token, tgbotapi.APIEndpoint, httpClient)
	if err != nil {
		return fmt.Errorf("creating telegram bot: %w", err)
	}

	c.bot = bot
	c.stopOnce = sync.Once{}
	c.bot.Debug = false

	c.log.Info("Telegram bot connected",
		zap.String("username", bot.Self.UserName))
	c.syncSlashCommands()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 50

	updates := bot.GetUpdatesChan(u)

	for {
		select {
		case update := <-updates:
			c.handleUpdate(update)

		case <-ctx.Done():
			c.log.Info("Telegram channel stopping")
			c.stopReceivingUpdates()
			return nil

		case <-c.ctx.Done():
			c.log.Info("Telegram channel stopping")
			c.stopReceivingUpdates()
			return nil
		}
	}
}

// Stop stops the Telegram channel.
func (c *Channel) Stop(ctx context.Context) error {
	c.log.Info("Stopping Telegram channel")
	c.cancel()
	c.stopReceivingUpdates()

	return nil
}

func (c *Channel) stopReceivingUpdates() {
	if c.bot == nil {
		return
	}
	c.stopOnce.Do(func() {
		c.bot.StopReceivingUpdates()
	})
}

func (c *Channel) syncSlashCommands() {
	if c.bot == nil {
		return
	}

	cmds := []tgbotapi.BotCommand{
		{Command: "menu", Description: "Open the store menu"},
		{Command: "start", Description: "Open the store menu"},
	}
	if _, err := c.bot.Request(tgbotapi.NewSetMyCommands(cmds...)); err != nil {
		c.log.Warn("Failed to sync Telegram slash commands", zap.Error(err))
	}
}

// handleUpdate processes a Telegram update.
func (c *Channel) handleUpdate(update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		query := *update.CallbackQuery
		go c.handleCallback(&query)
		return
	}

	if update.Message != nil {
		msg := *update.Message
		go c.handleMessage(&msg)
		return
	}
}

// handleMessage processes an incoming text message.
func (c *Channel) handleMessage(message *tgbotapi.Message) {
	if message.From == nil {
		return
	}
	if !c.isUserAllowed(message.From.ID, message.Chat.ID, message.From.UserName) {
		c.log.Warn("Unauthorized access attempt",
			zap.Int64("user_id", message.From.ID),
			zap.String("username", message.From.UserName))
		return
	}

	text := strings.TrimSpace(message.Text)
	if text == "" {
		return
	}

	c.log.Info("Received Telegram message",
		zap.Int64("chat_id", message.Chat.ID),
		zap.String("from", message.From.UserName))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	sid := fmt.Sprintf("telegram:%d", message.Chat.ID)

	var payload *render.Payload
	handled := true
	err := c.sessions.With(ctx, sid, func(st *session.State) error {
		req := &router.Request{
			Channel:      c.ID(),
			Capabilities: c.Capabilities(),
			State:        st,
		}
		if text == "/start" || text == "/menu" {
			payload = c.router.OpenMenu(ctx, req)
			return nil
		}
		payload, handled = c.router.HandleMessage(ctx, req, text)
		return nil
	})
	if err != nil {
		c.log.Error("Session handling failed", zap.Error(err))
		return
	}
	if !handled || payload == nil {
		c.deliverText(message.Chat.ID, "Send /menu to open the store menu.")
		return
	}

	c.deliver(message.Chat.ID, 0, payload)
}

// handleCallback processes an inline button press. The pressed message is
// the edit target for replace-current screens.
func (c *Channel) handleCallback(query *tgbotapi.CallbackQuery) {
	if _, err := c.bot.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		c.log.Debug("Failed to answer callback query", zap.Error(err))
	}

	if query.Message == nil || query.From == nil {
		return
	}
	chatID := query.Message.Chat.ID
	if !c.isUserAllowed(query.From.ID, chatID, query.From.UserName) {
		return
	}

	data := strings.TrimSpace(query.Data)
	if data == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	sid := fmt.Sprintf("telegram:%d", chatID)

	var payload *render.Payload
	handled := false
	err := c.sessions.With(ctx, sid, func(st *session.State) error {
		req := &router.Request{
			Channel:      c.ID(),
			Capabilities: c.Capabilities(),
			State:        st,
		}
		payload, handled = c.router.HandleMessage(ctx, req, data)
		return nil
	})
	if err != nil {
		c.log.Error("Session handling failed", zap.Error(err))
		return
	}
	if !handled || payload == nil {
		return
	}

	c.deliver(chatID, query.Message.MessageID, payload)
}

// deliver sends a rendered payload: replace-current edits the originating
// message in place, send-new posts a fresh one.
func (c *Channel) deliver(chatID int64, editMessageID int, p *render.Payload) {
	markup := buildMarkup(p.Buttons)

	if p.Mode == view.ModeReplace && editMessageID != 0 {
		var edit tgbotapi.EditMessageTextConfig
		if markup != nil {
			edit = tgbotapi.NewEditMessageTextAndMarkup(chatID, editMessageID, p.Text, *markup)
		} else {
			edit = tgbotapi.NewEditMessageText(chatID, editMessageID, p.Text)
		}
		edit.ParseMode = tgbotapi.ModeMarkdown
		if _, err := c.bot.Send(edit); err != nil {
			c.log.Warn("Failed to edit message, sending new", zap.Error(err))
			c.sendNew(chatID, p.Text, markup)
		}
		return
	}

	c.sendNew(chatID, p.Text, markup)
}

func (c *Channel) sendNew(chatID int64, text string, markup *tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if markup != nil {
		msg.ReplyMarkup = *markup
	}
	if _, err := c.bot.Send(msg); err != nil {
		c.log.Error("Failed to send message", zap.Error(err))
	}
}

func (c *Channel) deliverText(chatID int64, text string) {
	c.sendNew(chatID, text, nil)
}

// buildMarkup maps option rows onto an inline keyboard. Link options become
// URL buttons; everything else carries its token as callback data.
func buildMarkup(rows [][]view.Option) *tgbotapi.InlineKeyboardMarkup {
	if len(rows) == 0 {
		return nil
	}

	keyboard := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, opt := range row {
			if opt.IsLink() {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonURL(opt.Label, opt.Link))
			} else {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(opt.Label, opt.Token))
			}
		}
		if len(buttons) > 0 {
			keyboard = append(keyboard, buttons)
		}
	}
	if len(keyboard) == 0 {
		return nil
	}

	markup := tgbotapi.NewInlineKeyboardMarkup(keyboard...)
	return &markup
}

// isUserAllowed checks if a user is allowed to use the bot.
func (c *Channel) isUserAllowed(userID, chatID int64, username string) bool {
	// If no allow list is configured, allow all
	if len(c.config.AllowFrom) == 0 {
		return true
	}

	userIDStr := fmt.Sprintf("%d", userID)
	chatIDStr := fmt.Sprintf("%d", chatID)
	username = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(username)), "@")

	for _, allowed := range c.config.AllowFrom {
		normalizedAllowed := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(allowed)), "@")
		if normalizedAllowed == userIDStr || normalizedAllowed == chatIDStr {
			return true
		}
		if username != "" && normalizedAllowed == username {
			return true
		}
	}

	return false
}
