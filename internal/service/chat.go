package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/autoplaza/dealerbot/internal/config"
	"github.com/autoplaza/dealerbot/internal/domain"
)

const (
	// LimitReachedText is returned once a session exhausts its interaction
	// ceiling. No quota is consumed and no backend call is made.
	LimitReachedText = "Has alcanzado el límite de mensajes de esta conversación. " +
		"Escribe /agente para hablar con un asesor. 🚗"

	// QuotaExhaustedText covers the daily/monthly aggregate ceilings.
	QuotaExhaustedText = "Por el momento no podemos atender más consultas automáticas. " +
		"Un asesor puede ayudarte, escribe /agente. 🙏"
)

// ProcessResult is the outcome of one processed inbound message.
type ProcessResult struct {
	ResponseText          string
	Intent                string
	Confidence            float64
	IsFallback            bool
	RemainingInteractions int
}

// StartOptions describes how a new conversation opens.
type StartOptions struct {
	TenantRef string
	Language  string
	ChatID    *int64
}

// ChatService is the pipeline entry point: it loads session and
// configuration, gates on quotas, tries the quick-response matcher, augments
// the prompt with live inventory and calls the LLM orchestrator, then
// persists the exchange.
type ChatService struct {
	sessions  SessionStore
	messages  MessageStore
	configs   ConfigurationStore
	quick     *QuickResponseService
	inventory *InventoryContextBuilder
	llm       LLMGenerator
	quota     *QuotaService
	metrics   Metrics
	now       func() time.Time
}

type ChatDeps struct {
	Sessions  SessionStore
	Messages  MessageStore
	Configs   ConfigurationStore
	Quick     *QuickResponseService
	Inventory *InventoryContextBuilder
	LLM       LLMGenerator
	Quota     *QuotaService
	Metrics   Metrics
}

func NewChatService(deps ChatDeps) *ChatService {
	metrics := deps.Metrics
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &ChatService{
		sessions:  deps.Sessions,
		messages:  deps.Messages,
		configs:   deps.Configs,
		quick:     deps.Quick,
		inventory: deps.Inventory,
		llm:       deps.LLM,
		quota:     deps.Quota,
		metrics:   metrics,
		now:       time.Now,
	}
}

// ProcessMessage handles one inbound visitor message end to end.
//
// A missing session is the only structural failure surfaced to the caller;
// everything the backend can do wrong degrades into a fallback reply. Side
// effects commit per step, not transactionally: a crash between the message
// insert and the counter update is a bounded, reconcilable inconsistency.
func (s *ChatService) ProcessMessage(ctx context.Context, token, text string, kind domain.MessageKind) (*ProcessResult, error) {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if !session.IsActive() {
		return nil, domain.ErrSessionClosed
	}

	// Exhausted sessions short-circuit before any persistence: no inbound
	// message, no quota, no backend call
	if session.LimitReached() {
		s.metrics.QuotaRejected("session")
		return &ProcessResult{
			ResponseText: LimitReachedText,
			IsFallback:   true,
		}, nil
	}

	cfg, err := s.configs.GetByID(ctx, session.ConfigurationID)
	if err != nil {
		return nil, err
	}

	// The transcript keeps the visitor's turn even when everything after
	// this point fails
	inbound := &domain.Message{
		SessionID: session.ID,
		Direction: domain.FromUser,
		Kind:      kind,
		Text:      text,
	}
	if err := s.messages.Create(ctx, inbound); err != nil {
		return nil, fmt.Errorf("persist inbound message: %w", err)
	}

	normalized := NormalizeText(text)
	qr, err := s.quick.Match(ctx, cfg.ID, normalized)
	if err != nil {
		// Matcher trouble never blocks the conversation; fall through to
		// the LLM path
		slog.Warn("quick response lookup failed", "error", err, "session", token)
		qr = nil
	}
	// A matched answer only short-circuits when flagged to bypass the model;
	// otherwise the turn still goes through the LLM path below
	if qr != nil && qr.BypassLLM {
		s.metrics.MatcherHit()
		return s.replyQuick(ctx, session, qr)
	}

	decision, err := s.quota.TryConsume(ctx, session, cfg)
	if err != nil {
		return nil, fmt.Errorf("quota check: %w", err)
	}
	if !decision.Allowed {
		return s.replyCanned(ctx, session, QuotaExhaustedText, decision.Remaining)
	}

	systemPrompt := cfg.SystemPrompt
	contextBlock, err := s.inventory.BuildContext(ctx, cfg.ID)
	if err != nil {
		slog.Warn("inventory context unavailable", "error", err, "session", token)
	} else if contextBlock != "" {
		systemPrompt = systemPrompt + "\n\n" + contextBlock
	}

	start := s.now()
	result, err := s.llm.Generate(ctx, GenerateRequest{
		SessionToken: session.Token,
		Text:         text,
		Language:     session.Language,
		SystemPrompt: systemPrompt,
	})
	if err != nil {
		// Caller cancellation: the inbound message stays, nothing else
		// commits
		return nil, err
	}
	latency := s.now().Sub(start)

	reply := &domain.Message{
		SessionID:           session.ID,
		Direction:           domain.FromBot,
		Kind:                domain.KindText,
		Text:                result.Text,
		Intent:              result.Intent,
		Confidence:          result.Confidence,
		LatencyMs:           latency.Milliseconds(),
		ConsumedInteraction: true,
	}
	if err := s.messages.Create(ctx, reply); err != nil {
		slog.Error("persist response message failed", "error", err, "session", token)
	}
	if err := s.saveCounters(ctx, session, 1, 2); err != nil {
		slog.Error("persist session counters failed", "error", err, "session", token)
	}

	return &ProcessResult{
		ResponseText:          result.Text,
		Intent:                result.Intent,
		Confidence:            result.Confidence,
		IsFallback:            result.IsFallback,
		RemainingInteractions: session.RemainingInteractions(),
	}, nil
}

// replyQuick answers from the matcher without consuming an interaction.
func (s *ChatService) replyQuick(ctx context.Context, session *domain.Session, qr *domain.QuickResponse) (*ProcessResult, error) {
	reply := &domain.Message{
		SessionID:   session.ID,
		Direction:   domain.FromBot,
		Kind:        domain.KindText,
		Text:        qr.Response,
		Intent:      IntentQuickResponse,
		Confidence:  1.0,
		BypassedLLM: true,
	}
	if err := s.messages.Create(ctx, reply); err != nil {
		return nil, fmt.Errorf("persist quick response: %w", err)
	}
	if err := s.saveCounters(ctx, session, 0, 2); err != nil {
		slog.Error("persist session failed", "error", err, "session", session.Token)
	}
	return &ProcessResult{
		ResponseText:          qr.Response,
		Intent:                IntentQuickResponse,
		Confidence:            1.0,
		RemainingInteractions: session.RemainingInteractions(),
	}, nil
}

// replyCanned persists and returns a degraded canned reply.
func (s *ChatService) replyCanned(ctx context.Context, session *domain.Session, text string, remaining int) (*ProcessResult, error) {
	reply := &domain.Message{
		SessionID:   session.ID,
		Direction:   domain.FromBot,
		Kind:        domain.KindText,
		Text:        text,
		BypassedLLM: true,
	}
	if err := s.messages.Create(ctx, reply); err != nil {
		slog.Error("persist canned reply failed", "error", err, "session", session.Token)
	}
	if err := s.saveCounters(ctx, session, 0, 2); err != nil {
		slog.Error("persist session failed", "error", err, "session", session.Token)
	}
	return &ProcessResult{
		ResponseText:          text,
		IsFallback:            true,
		RemainingInteractions: remaining,
	}, nil
}

// saveCounters applies counter deltas to the session and persists it. A
// version conflict means another writer bumped the row first; the deltas are
// reapplied on the fresh row so an interaction increment is never lost to a
// lost-update race.
func (s *ChatService) saveCounters(ctx context.Context, session *domain.Session, interactions, messages int) error {
	session.InteractionCount += interactions
	session.MessageCount += messages
	for attempt := 0; ; attempt++ {
		err := s.sessions.Update(ctx, session)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrVersionConflict) || attempt >= config.SessionUpdateRetries {
			return err
		}
		fresh, loadErr := s.sessions.GetByToken(ctx, session.Token)
		if loadErr != nil {
			return loadErr
		}
		fresh.InteractionCount += interactions
		fresh.MessageCount += messages
		*session = *fresh
	}
}

// StartSession opens a conversation under the tenant's configuration, falling
// back to the default configuration when the tenant has none. Returns the new
// session and the configured welcome text.
func (s *ChatService) StartSession(ctx context.Context, opts StartOptions) (*domain.Session, string, error) {
	cfg, err := s.resolveConfiguration(ctx, opts.TenantRef)
	if err != nil {
		return nil, "", err
	}
	if !cfg.Active {
		return nil, "", domain.ErrConfigurationInactive
	}

	language := opts.Language
	if language == "" {
		language = "es"
	}
	ceiling := cfg.InteractionCeiling
	if ceiling <= 0 {
		ceiling = config.DefaultInteractionCeiling
	}

	session := &domain.Session{
		Token:              uuid.NewString(),
		ConfigurationID:    cfg.ID,
		ChatID:             opts.ChatID,
		Status:             domain.SessionActive,
		InteractionCeiling: ceiling,
		Language:           language,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, "", fmt.Errorf("create session: %w", err)
	}

	welcome := cfg.WelcomeMessage
	if welcome != "" {
		msg := &domain.Message{
			SessionID:   session.ID,
			Direction:   domain.FromBot,
			Kind:        domain.KindText,
			Text:        welcome,
			BypassedLLM: true,
		}
		if err := s.messages.Create(ctx, msg); err != nil {
			slog.Error("persist welcome message failed", "error", err, "session", session.Token)
		}
	}
	return session, welcome, nil
}

// FindOrStartByChat resolves the chat's open session or starts a fresh one.
// The returned welcome text is non-empty only for a brand-new session.
func (s *ChatService) FindOrStartByChat(ctx context.Context, chatID int64, tenantRef, language string) (*domain.Session, string, error) {
	session, err := s.sessions.GetActiveByChat(ctx, chatID)
	if err == nil {
		return session, "", nil
	}
	if err != domain.ErrSessionNotFound {
		return nil, "", fmt.Errorf("resolve chat session: %w", err)
	}
	return s.StartSession(ctx, StartOptions{TenantRef: tenantRef, Language: language, ChatID: &chatID})
}

// FindActiveByChat returns the chat's open session without starting one.
func (s *ChatService) FindActiveByChat(ctx context.Context, chatID int64) (*domain.Session, error) {
	return s.sessions.GetActiveByChat(ctx, chatID)
}

// EndSession marks the conversation completed. Idempotent: ending a session
// that is already closed does nothing.
func (s *ChatService) EndSession(ctx context.Context, token string) error {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return err
	}
	if !session.IsActive() {
		return nil
	}
	session.Status = domain.SessionCompleted
	endedAt := s.now()
	session.EndedAt = &endedAt
	if err := s.sessions.Update(ctx, session); err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	return nil
}

// CaptureContact fills whichever contact fields the visitor provided. Only
// active sessions accept contact data.
func (s *ChatService) CaptureContact(ctx context.Context, token, name, email, phone string) error {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return err
	}
	if !session.IsActive() {
		return domain.ErrSessionClosed
	}
	if name != "" {
		session.ContactName = name
	}
	if email != "" {
		session.ContactEmail = email
	}
	if phone != "" {
		session.ContactPhone = phone
	}
	if err := s.sessions.Update(ctx, session); err != nil {
		return fmt.Errorf("save contact: %w", err)
	}
	return nil
}

func (s *ChatService) resolveConfiguration(ctx context.Context, tenantRef string) (*domain.Configuration, error) {
	if tenantRef != "" {
		cfg, err := s.configs.GetByTenant(ctx, tenantRef)
		if err == nil {
			return cfg, nil
		}
		if err != domain.ErrConfigurationNotFound {
			return nil, err
		}
	}
	return s.configs.GetDefault(ctx)
}
