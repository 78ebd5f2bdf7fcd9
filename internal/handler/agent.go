package handler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/autoplaza/dealerbot/internal/domain"
)

func (h *Handler) handleAgent(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	chatID := update.Message.Chat.ID

	session, err := h.chat.FindActiveByChat(ctx, chatID)
	if err != nil {
		if err == domain.ErrSessionNotFound {
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   "No tienes una conversación abierta. Envía /start primero.",
			})
			return
		}
		slog.Error("resolve session", "error", err, "chat_id", chatID)
		return
	}

	reason := ""
	parts := strings.SplitN(update.Message.Text, " ", 2)
	if len(parts) > 1 {
		reason = strings.TrimSpace(parts[1])
	}

	result, err := h.leads.Transfer(ctx, session.Token, reason, "")
	if err != nil {
		slog.Error("transfer to agent", "error", err, "session", session.Token)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ No pudimos transferirte en este momento. Intenta de nuevo.",
		})
		return
	}
	if !result.Success {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Esta conversación ya está cerrada. Envía /start para abrir una nueva.",
		})
		return
	}

	text := "🤝 Un asesor revisará tu conversación y te contactará pronto."
	if !result.LeadCreated {
		text += "\n\n💡 Déjanos tus datos con /contacto para que podamos ubicarte."
	}
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
}
