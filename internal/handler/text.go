package handler

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/autoplaza/dealerbot/internal/domain"
	tg "github.com/autoplaza/dealerbot/internal/telegram"
)

// HandleText routes a plain text message through the processing pipeline.
func (h *Handler) HandleText(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	msg := update.Message
	text, kind := classifyMessage(msg)
	if kind == domain.KindText && strings.HasPrefix(text, "/") {
		return
	}

	chatID := msg.Chat.ID

	// Media without a caption gives the pipeline nothing to work with
	if text == "" {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Por ahora solo puedo leer texto. Escríbeme qué auto te interesa. 🚗",
		})
		return
	}

	session, welcome, err := h.chat.FindOrStartByChat(ctx, chatID, "", h.cfg.DefaultLanguage)
	if err != nil {
		slog.Error("resolve session", "error", err, "chat_id", chatID)
		return
	}
	if welcome != "" {
		if err := tg.SendLongMessage(ctx, b, chatID, welcome); err != nil {
			slog.Error("send welcome", "error", err, "chat_id", chatID)
		}
	}

	stopTyping := tg.StartTyping(ctx, b, chatID)
	defer stopTyping()

	result, err := h.chat.ProcessMessage(ctx, session.Token, text, kind)
	if err != nil {
		if errors.Is(err, domain.ErrSessionClosed) {
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   "Esta conversación terminó. Envía /start para abrir una nueva.",
			})
			return
		}
		slog.Error("process message", "error", err, "session", session.Token)
		return
	}

	if err := tg.SendLongMessage(ctx, b, chatID, result.ResponseText); err != nil {
		slog.Error("send response", "error", err, "chat_id", chatID)
	}
}

// classifyMessage maps a Telegram message onto the pipeline's payload kinds.
// Photos and audio ride on their caption text.
func classifyMessage(msg *models.Message) (string, domain.MessageKind) {
	switch {
	case len(msg.Photo) > 0:
		return strings.TrimSpace(msg.Caption), domain.KindImage
	case msg.Voice != nil || msg.Audio != nil:
		return strings.TrimSpace(msg.Caption), domain.KindAudio
	default:
		return strings.TrimSpace(msg.Text), domain.KindText
	}
}
