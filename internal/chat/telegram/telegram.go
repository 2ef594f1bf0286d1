// Package telegram provides Telegram Bot API integration using go-telegram/bot library.
package telegram

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"tunegrab/internal/core"
	"tunegrab/internal/flood"
	"tunegrab/internal/i18n"
)

const (
	startCommand    = "/start"
	langCommand     = "/lang"
	langPrefix      = "lang_"
	webhookPath     = "/webhook"
	maxCallbackText = 200
)

// DeliveryFlow is the slice of the request flow the frontend dispatches into.
type DeliveryFlow interface {
	HandleQuery(ctx context.Context, sess *core.Session, query string)
	HandleDownload(ctx context.Context, sess *core.Session, cb core.Callback, token string)
	HandleFindFull(ctx context.Context, sess *core.Session, cb core.Callback, token string)
}

// Frontend connects the delivery flow to the Telegram Bot API. It owns the
// per-user flood gate, the optional channel membership gate and the per-user
// language choices; the flow behind it stays transport-agnostic.
type Frontend struct {
	config *core.TelegramConfig
	logger *zap.Logger
	bot    *bot.Bot
	gate   *flood.Floodgate
	flow   DeliveryFlow

	langMutex sync.RWMutex
	languages map[int64]string
}

// NewFrontend creates a new Telegram frontend.
func NewFrontend(config *core.TelegramConfig, logger *zap.Logger) *Frontend {
	return &Frontend{
		config:    config,
		logger:    logger,
		gate:      flood.New(config.FloodLimitPerMinute),
		languages: make(map[int64]string),
	}
}

// Bind attaches the delivery flow. Must be called before Start; the flow in
// turn holds the frontend as its chat client, so construction is two-phase.
func (f *Frontend) Bind(flow DeliveryFlow) {
	f.flow = flow
}

// Start initializes the Telegram bot. When an application URL is configured
// the bot registers a webhook there; otherwise it will long-poll.
func (f *Frontend) Start(ctx context.Context) error {
	opts := []bot.Option{
		bot.WithDefaultHandler(f.handleUpdate),
		bot.WithCallbackQueryDataHandler(core.DownloadPrefix, bot.MatchTypePrefix, f.handleDownloadCallback),
		bot.WithCallbackQueryDataHandler(core.FindFullPrefix, bot.MatchTypePrefix, f.handleFindFullCallback),
		bot.WithCallbackQueryDataHandler(langPrefix, bot.MatchTypePrefix, f.handleLanguageCallback),
	}

	b, err := bot.New(f.config.BotToken, opts...)
	if err != nil {
		return fmt.Errorf("failed to create telegram bot: %w", err)
	}
	f.bot = b

	if f.webhookMode() {
		webhookURL := strings.TrimSuffix(f.config.AppURL, "/") + webhookPath
		if _, err := b.SetWebhook(ctx, &bot.SetWebhookParams{URL: webhookURL}); err != nil {
			return fmt.Errorf("failed to register webhook: %w", err)
		}
		f.logger.Info("Telegram frontend started in webhook mode",
			zap.String("webhook_url", webhookURL))
		return nil
	}

	if _, err := b.DeleteWebhook(ctx, &bot.DeleteWebhookParams{DropPendingUpdates: false}); err != nil {
		f.logger.Debug("Failed to clear webhook before polling", zap.Error(err))
	}
	f.logger.Info("Telegram frontend started in polling mode")
	return nil
}

// Listen blocks processing updates until the context is canceled.
func (f *Frontend) Listen(ctx context.Context) error {
	if f.webhookMode() {
		f.bot.StartWebhook(ctx)
		return nil
	}
	f.bot.Start(ctx)
	return nil
}

// WebhookHandler exposes the bot's webhook endpoint for the HTTP server.
// Only meaningful in webhook mode, after Start.
func (f *Frontend) WebhookHandler() http.HandlerFunc {
	return f.bot.WebhookHandler()
}

// Stop shuts down frontend-owned background state.
func (f *Frontend) Stop() {
	f.gate.Stop()
}

func (f *Frontend) webhookMode() bool {
	return f.config.AppURL != ""
}

// handleUpdate processes incoming message updates. Callback queries arrive
// through the prefix handlers instead.
func (f *Frontend) handleUpdate(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	msg := update.Message
	if msg.From.IsBot || msg.Text == "" {
		return
	}

	sess := f.sessionFor(msg.Chat.ID, msg.From.ID)
	loc := i18n.NewLocalizer(sess.Language)

	if !f.gate.Allow(msg.Chat.ID, msg.From.ID) {
		f.logger.Debug("Dropping flooded message",
			zap.Int64("chat_id", msg.Chat.ID),
			zap.Int64("user_id", msg.From.ID))
		f.sendText(ctx, msg.Chat.ID, loc.T("error.flooded"))
		return
	}

	switch {
	case strings.HasPrefix(msg.Text, startCommand):
		f.sendText(ctx, msg.Chat.ID, loc.T("start.welcome"))
		return
	case strings.HasPrefix(msg.Text, langCommand):
		f.sendLanguageMenu(ctx, msg.Chat.ID, loc)
		return
	}

	if !f.checkMembership(ctx, sess, loc) {
		return
	}

	// Fetches can run for minutes; never hold the update loop hostage.
	go f.flow.HandleQuery(ctx, sess, msg.Text)
}

func (f *Frontend) handleDownloadCallback(ctx context.Context, _ *bot.Bot, update *models.Update) {
	sess, cb, ok := f.callbackContext(update)
	if !ok {
		return
	}
	token := strings.TrimPrefix(update.CallbackQuery.Data, core.DownloadPrefix)
	go f.flow.HandleDownload(ctx, sess, cb, token)
}

func (f *Frontend) handleFindFullCallback(ctx context.Context, _ *bot.Bot, update *models.Update) {
	sess, cb, ok := f.callbackContext(update)
	if !ok {
		return
	}
	token := strings.TrimPrefix(update.CallbackQuery.Data, core.FindFullPrefix)
	go f.flow.HandleFindFull(ctx, sess, cb, token)
}

// handleLanguageCallback switches the clicking user's reply language.
func (f *Frontend) handleLanguageCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	code := strings.TrimPrefix(update.CallbackQuery.Data, langPrefix)

	supported := false
	for _, lang := range i18n.GetSupportedLanguages() {
		if lang == code {
			supported = true
			break
		}
	}
	if !supported {
		return
	}

	f.langMutex.Lock()
	f.languages[update.CallbackQuery.From.ID] = code
	f.langMutex.Unlock()

	loc := i18n.NewLocalizer(code)
	if _, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: update.CallbackQuery.ID,
		Text:            loc.T("lang.set"),
	}); err != nil {
		f.logger.Debug("Failed to answer callback query", zap.Error(err))
	}
}

// callbackContext extracts the session and callback reference from a callback
// query update. Updates without an accessible origin message are dropped; the
// flow needs the menu message ID for status edits.
func (f *Frontend) callbackContext(update *models.Update) (*core.Session, core.Callback, bool) {
	if update.CallbackQuery == nil || update.CallbackQuery.Message.Message == nil {
		return nil, core.Callback{}, false
	}
	msg := update.CallbackQuery.Message.Message

	sess := f.sessionFor(msg.Chat.ID, update.CallbackQuery.From.ID)
	cb := core.Callback{
		ID:        update.CallbackQuery.ID,
		MessageID: msg.ID,
	}
	return sess, cb, true
}

// sessionFor builds the per-request session from frontend-held user state.
func (f *Frontend) sessionFor(chatID, userID int64) *core.Session {
	f.langMutex.RLock()
	language, ok := f.languages[userID]
	f.langMutex.RUnlock()
	if !ok {
		language = f.config.Language
	}

	return &core.Session{
		ChatID:   chatID,
		UserID:   userID,
		Language: language,
	}
}

// checkMembership enforces the configured gate channels. A user who has not
// joined every gate channel gets a join prompt instead of service.
func (f *Frontend) checkMembership(ctx context.Context, sess *core.Session, loc *i18n.Localizer) bool {
	for _, channel := range f.config.GateChannels {
		member, err := f.bot.GetChatMember(ctx, &bot.GetChatMemberParams{
			ChatID: channel,
			UserID: sess.UserID,
		})
		if err != nil {
			f.logger.Warn("Gate channel lookup failed, letting the user through",
				zap.String("channel", channel),
				zap.Error(err))
			continue
		}
		if !isMember(member.Type) {
			f.sendText(ctx, sess.ChatID, loc.T("gate.join", channel))
			return false
		}
	}
	return true
}

func isMember(memberType models.ChatMemberType) bool {
	switch memberType {
	case models.ChatMemberTypeOwner,
		models.ChatMemberTypeAdministrator,
		models.ChatMemberTypeMember,
		models.ChatMemberTypeRestricted:
		return true
	case models.ChatMemberTypeLeft, models.ChatMemberTypeBanned:
		return false
	}
	return false
}

func (f *Frontend) sendLanguageMenu(ctx context.Context, chatID int64, loc *i18n.Localizer) {
	var row []models.InlineKeyboardButton
	for _, lang := range i18n.GetSupportedLanguages() {
		row = append(row, models.InlineKeyboardButton{
			Text:         strings.ToUpper(lang),
			CallbackData: langPrefix + lang,
		})
	}

	if _, err := f.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        loc.T("lang.prompt"),
		ReplyMarkup: &models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{row}},
	}); err != nil {
		f.logger.Debug("Failed to send language menu", zap.Error(err))
	}
}

func (f *Frontend) sendText(ctx context.Context, chatID int64, text string) {
	if _, err := f.SendText(ctx, chatID, text); err != nil {
		f.logger.Debug("Failed to send message", zap.Error(err))
	}
}

// SendText sends a plain text message and returns its message ID.
func (f *Frontend) SendText(ctx context.Context, chatID int64, text string) (int, error) {
	msg, err := f.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to send message: %w", err)
	}
	return msg.ID, nil
}

// EditText replaces the text of an existing message.
func (f *Frontend) EditText(ctx context.Context, chatID int64, messageID int, text string) error {
	_, err := f.bot.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
	})
	if err != nil {
		return fmt.Errorf("failed to edit message: %w", err)
	}
	return nil
}

// EditMenu replaces a message's text and attaches an inline keyboard.
func (f *Frontend) EditMenu(ctx context.Context, chatID int64, messageID int, text string, menu *core.Menu) error {
	_, err := f.bot.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      chatID,
		MessageID:   messageID,
		Text:        text,
		ReplyMarkup: toKeyboard(menu),
	})
	if err != nil {
		return fmt.Errorf("failed to edit message: %w", err)
	}
	return nil
}

// DeleteMessage deletes a message by its ID.
func (f *Frontend) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	_, err := f.bot.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: messageID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

// SendAudio uploads an audio file and returns the server-assigned file ID so
// repeat deliveries can skip the upload.
func (f *Frontend) SendAudio(ctx context.Context, chatID int64, path, caption string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	msg, err := f.bot.SendAudio(ctx, &bot.SendAudioParams{
		ChatID:  chatID,
		Audio:   &models.InputFileUpload{Filename: filepath.Base(path), Data: file},
		Caption: caption,
	})
	if err != nil {
		return "", fmt.Errorf("failed to send audio: %w", err)
	}

	if msg.Audio == nil {
		return "", nil
	}
	return msg.Audio.FileID, nil
}

// SendAudioByID re-sends a previously uploaded audio by its file ID.
func (f *Frontend) SendAudioByID(ctx context.Context, chatID int64, fileID, caption string) error {
	_, err := f.bot.SendAudio(ctx, &bot.SendAudioParams{
		ChatID:  chatID,
		Audio:   &models.InputFileString{Data: fileID},
		Caption: caption,
	})
	if err != nil {
		return fmt.Errorf("failed to send cached audio: %w", err)
	}
	return nil
}

// SendVideo uploads a video file with an optional inline keyboard.
func (f *Frontend) SendVideo(ctx context.Context, chatID int64, path, caption string, menu *core.Menu) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open video file: %w", err)
	}
	defer file.Close()

	params := &bot.SendVideoParams{
		ChatID:  chatID,
		Video:   &models.InputFileUpload{Filename: filepath.Base(path), Data: file},
		Caption: caption,
	}
	if menu != nil {
		params.ReplyMarkup = toKeyboard(menu)
	}

	if _, err := f.bot.SendVideo(ctx, params); err != nil {
		return fmt.Errorf("failed to send video: %w", err)
	}
	return nil
}

// AnswerCallback acknowledges a callback query, optionally with a notice.
func (f *Frontend) AnswerCallback(ctx context.Context, callbackID, text string) error {
	if len(text) > maxCallbackText {
		text = text[:maxCallbackText]
	}
	_, err := f.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	if err != nil {
		return fmt.Errorf("failed to answer callback query: %w", err)
	}
	return nil
}

// toKeyboard converts the transport-neutral menu into an inline keyboard.
func toKeyboard(menu *core.Menu) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(menu.Rows))
	for _, row := range menu.Rows {
		buttons := make([]models.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, models.InlineKeyboardButton{
				Text:         b.Label,
				CallbackData: b.Data,
			})
		}
		rows = append(rows, buttons)
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}
