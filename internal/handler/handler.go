package handler

import (
	"github.com/go-telegram/bot"

	"github.com/autoplaza/dealerbot/internal/config"
	"github.com/autoplaza/dealerbot/internal/service"
)

// Handler holds all dependencies needed by command and text handlers.
type Handler struct {
	bot   *bot.Bot
	cfg   *config.Config
	chat  *service.ChatService
	leads *service.LeadService
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot   *bot.Bot
	Cfg   *config.Config
	Chat  *service.ChatService
	Leads *service.LeadService
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:   deps.Bot,
		cfg:   deps.Cfg,
		chat:  deps.Chat,
		leads: deps.Leads,
	}
}

// Register wires the command handlers.
func (h *Handler) Register() {
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/fin", bot.MatchTypeExact, h.handleEnd)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/agente", bot.MatchTypePrefix, h.handleAgent)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/contacto", bot.MatchTypePrefix, h.handleContact)
}
