package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/autoplaza/dealerbot/internal/domain"
)

// leadTranscriptLines bounds how much of the conversation lands in the
// lead's notes.
const leadTranscriptLines = 5

// TransferResult reports what a handoff did.
type TransferResult struct {
	Success     bool
	LeadCreated bool
}

// LeadService closes a session's conversational state on handoff and opens a
// lead record when the visitor left contact data behind.
type LeadService struct {
	sessions SessionStore
	leads    LeadStore
	messages MessageStore
	now      func() time.Time
}

func NewLeadService(sessions SessionStore, leads LeadStore, messages MessageStore) *LeadService {
	return &LeadService{sessions: sessions, leads: leads, messages: messages, now: time.Now}
}

// Transfer moves the session to transferred-to-agent. Idempotent: an
// already-transferred session is a no-op success and never produces a second
// lead. A completed session has nothing to hand off.
func (s *LeadService) Transfer(ctx context.Context, token, reason, notes string) (TransferResult, error) {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return TransferResult{}, nil
		}
		return TransferResult{}, fmt.Errorf("load session: %w", err)
	}

	if session.Status == domain.SessionTransferred {
		// Repeat handoff: report whether the earlier transfer left a lead so
		// the caller doesn't ask for contact data it already has
		count, err := s.leads.CountBySession(ctx, session.ID)
		if err != nil {
			return TransferResult{}, fmt.Errorf("count leads: %w", err)
		}
		return TransferResult{Success: true, LeadCreated: count > 0}, nil
	}
	if session.Status != domain.SessionActive {
		return TransferResult{}, nil
	}

	session.Status = domain.SessionTransferred
	endedAt := s.now()
	session.EndedAt = &endedAt
	if err := s.sessions.Update(ctx, session); err != nil {
		return TransferResult{}, fmt.Errorf("close session: %w", err)
	}

	if !session.HasContact() {
		return TransferResult{Success: true}, nil
	}

	// The agent picking up the lead gets the visitor's own words when the
	// caller didn't supply notes
	if notes == "" {
		summary, err := s.transcriptNotes(ctx, session.ID)
		if err != nil {
			slog.Warn("transcript summary unavailable", "error", err, "session", token)
		} else {
			notes = summary
		}
	}

	lead := &domain.Lead{
		Reference:       uuid.NewString(),
		SessionID:       session.ID,
		ConfigurationID: session.ConfigurationID,
		Name:            session.ContactName,
		Email:           session.ContactEmail,
		Phone:           session.ContactPhone,
		Reason:          reason,
		Notes:           notes,
		Status:          "new",
	}
	if err := s.leads.Create(ctx, lead); err != nil {
		// Session is already closed; the lead can be reconciled from the
		// transcript, so the transfer still counts
		slog.Error("create lead failed", "error", err, "session", token)
		return TransferResult{Success: true}, nil
	}

	return TransferResult{Success: true, LeadCreated: true}, nil
}

// transcriptNotes renders the visitor's last few turns for the lead record.
func (s *LeadService) transcriptNotes(ctx context.Context, sessionID int64) (string, error) {
	msgs, err := s.messages.ListBySession(ctx, sessionID)
	if err != nil {
		return "", err
	}
	var lines []string
	for _, m := range msgs {
		if m.Direction == domain.FromUser && m.Text != "" {
			lines = append(lines, m.Text)
		}
	}
	if len(lines) > leadTranscriptLines {
		lines = lines[len(lines)-leadTranscriptLines:]
	}
	return strings.Join(lines, "\n"), nil
}
