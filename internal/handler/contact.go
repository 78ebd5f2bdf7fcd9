package handler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/autoplaza/dealerbot/internal/domain"
)

// handleContact captures contact data from "/contacto nombre; correo; teléfono".
func (h *Handler) handleContact(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	chatID := update.Message.Chat.ID

	parts := strings.SplitN(update.Message.Text, " ", 2)
	if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Envíanos tus datos así:\n/contacto Juan Pérez; juan@correo.com; +52 55 1234 5678",
		})
		return
	}

	var name, email, phone string
	for i, field := range strings.Split(parts[1], ";") {
		field = strings.TrimSpace(field)
		switch i {
		case 0:
			name = field
		case 1:
			email = field
		case 2:
			phone = field
		}
	}

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

	if err := h.chat.CaptureContact(ctx, session.Token, name, email, phone); err != nil {
		slog.Error("capture contact", "error", err, "session", session.Token)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ No pudimos guardar tus datos. Intenta de nuevo.",
		})
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "✅ ¡Gracias! Guardamos tus datos. Un asesor podrá contactarte si lo necesitas.",
	})
}
