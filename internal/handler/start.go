package handler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	tg "github.com/autoplaza/dealerbot/internal/telegram"
)

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	chatID := update.Message.Chat.ID

	// Deep link payload selects the dealer configuration
	tenantRef := ""
	parts := strings.SplitN(update.Message.Text, " ", 2)
	if len(parts) > 1 {
		tenantRef = strings.TrimSpace(parts[1])
	}

	_, welcome, err := h.chat.FindOrStartByChat(ctx, chatID, tenantRef, h.cfg.DefaultLanguage)
	if err != nil {
		slog.Error("start session", "error", err, "chat_id", chatID)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ No pudimos iniciar la conversación. Intenta de nuevo más tarde.",
		})
		return
	}

	if welcome == "" {
		welcome = "👋 ¡Hola! Pregúntame por nuestro inventario de vehículos.\n\n" +
			"/agente — Hablar con un asesor\n" +
			"/contacto — Dejar tus datos\n" +
			"/fin — Terminar la conversación"
	}
	if err := tg.SendLongMessage(ctx, b, chatID, welcome); err != nil {
		slog.Error("send welcome", "error", err, "chat_id", chatID)
	}
}
