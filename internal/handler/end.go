package handler

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/autoplaza/dealerbot/internal/domain"
)

func (h *Handler) handleEnd(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	chatID := update.Message.Chat.ID

	session, err := h.chat.FindActiveByChat(ctx, chatID)
	if err != nil {
		if err == domain.ErrSessionNotFound {
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   "No tienes una conversación abierta.",
			})
			return
		}
		slog.Error("resolve session", "error", err, "chat_id", chatID)
		return
	}

	if err := h.chat.EndSession(ctx, session.Token); err != nil {
		slog.Error("end session", "error", err, "session", session.Token)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ No pudimos cerrar la conversación.",
		})
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "✅ Conversación terminada. ¡Gracias por visitarnos! Envía /start cuando quieras volver.",
	})
}
