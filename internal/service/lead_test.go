package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/autoplaza/dealerbot/internal/domain"
	"github.com/autoplaza/dealerbot/internal/service"
)

func seedLeadSession(t *testing.T, sessions *memSessions, contact bool) *domain.Session {
	t.Helper()
	session := &domain.Session{
		Token:              "tok-lead",
		ConfigurationID:    1,
		Status:             domain.SessionActive,
		InteractionCeiling: 10,
	}
	if contact {
		session.ContactName = "Ana López"
		session.ContactPhone = "+52 55 1234 5678"
	}
	if err := sessions.Create(context.Background(), session); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return session
}

func TestTransferUnknownSession(t *testing.T) {
	svc := service.NewLeadService(newMemSessions(), &memLeads{}, &memMessages{})

	result, err := svc.Transfer(context.Background(), "missing", "", "")
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if result.Success {
		t.Fatalf("unknown session must not succeed: %+v", result)
	}
}

func TestTransferCreatesLeadWithContact(t *testing.T) {
	sessions := newMemSessions()
	leads := &memLeads{}
	session := seedLeadSession(t, sessions, true)
	svc := service.NewLeadService(sessions, leads, &memMessages{})

	result, err := svc.Transfer(context.Background(), session.Token, "quiere financiamiento", "")
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if !result.Success || !result.LeadCreated {
		t.Fatalf("expected transfer with lead, got %+v", result)
	}

	stored, err := sessions.GetByToken(context.Background(), session.Token)
	if err != nil {
		t.Fatalf("reload session: %v", err)
	}
	if stored.Status != domain.SessionTransferred || stored.EndedAt == nil {
		t.Fatalf("session not closed: %+v", stored)
	}

	if len(leads.created) != 1 {
		t.Fatalf("leads created got %d want 1", len(leads.created))
	}
	lead := leads.created[0]
	if lead.Name != "Ana López" || lead.Phone != "+52 55 1234 5678" || lead.Reason != "quiere financiamiento" {
		t.Fatalf("unexpected lead: %+v", lead)
	}
	if lead.Reference == "" || lead.Status != "new" {
		t.Fatalf("lead metadata missing: %+v", lead)
	}
}

func TestTransferWithoutContactSkipsLead(t *testing.T) {
	sessions := newMemSessions()
	leads := &memLeads{}
	session := seedLeadSession(t, sessions, false)
	svc := service.NewLeadService(sessions, leads, &memMessages{})

	result, err := svc.Transfer(context.Background(), session.Token, "", "")
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if !result.Success || result.LeadCreated {
		t.Fatalf("expected transfer without lead, got %+v", result)
	}
	if len(leads.created) != 0 {
		t.Fatalf("no lead expected, got %d", len(leads.created))
	}
}

func TestTransferIdempotent(t *testing.T) {
	sessions := newMemSessions()
	leads := &memLeads{}
	session := seedLeadSession(t, sessions, true)
	svc := service.NewLeadService(sessions, leads, &memMessages{})
	ctx := context.Background()

	first, err := svc.Transfer(ctx, session.Token, "", "")
	if err != nil {
		t.Fatalf("first Transfer: %v", err)
	}
	second, err := svc.Transfer(ctx, session.Token, "", "")
	if err != nil {
		t.Fatalf("second Transfer: %v", err)
	}

	if !first.Success || !second.Success {
		t.Fatalf("both transfers should succeed: %+v %+v", first, second)
	}
	if !second.LeadCreated {
		t.Fatalf("repeat transfer should report the existing lead: %+v", second)
	}
	if len(leads.created) != 1 {
		t.Fatalf("at most one lead per session, got %d", len(leads.created))
	}
}

func TestTransferFillsNotesFromTranscript(t *testing.T) {
	sessions := newMemSessions()
	leads := &memLeads{}
	messages := &memMessages{}
	session := seedLeadSession(t, sessions, true)
	ctx := context.Background()

	for _, text := range []string{"busco un corolla", "¿manejan financiamiento?"} {
		msg := &domain.Message{SessionID: session.ID, Direction: domain.FromUser, Kind: domain.KindText, Text: text}
		if err := messages.Create(ctx, msg); err != nil {
			t.Fatalf("seed message: %v", err)
		}
	}
	reply := &domain.Message{SessionID: session.ID, Direction: domain.FromBot, Kind: domain.KindText, Text: "Claro que sí."}
	if err := messages.Create(ctx, reply); err != nil {
		t.Fatalf("seed reply: %v", err)
	}

	svc := service.NewLeadService(sessions, leads, messages)
	result, err := svc.Transfer(ctx, session.Token, "", "")
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if !result.LeadCreated {
		t.Fatalf("expected lead, got %+v", result)
	}

	notes := leads.created[0].Notes
	if !strings.Contains(notes, "busco un corolla") || !strings.Contains(notes, "¿manejan financiamiento?") {
		t.Fatalf("notes missing visitor turns: %q", notes)
	}
	if strings.Contains(notes, "Claro que sí.") {
		t.Fatalf("bot turns don't belong in the notes: %q", notes)
	}
}

func TestTransferKeepsCallerNotes(t *testing.T) {
	sessions := newMemSessions()
	leads := &memLeads{}
	messages := &memMessages{}
	session := seedLeadSession(t, sessions, true)
	ctx := context.Background()

	msg := &domain.Message{SessionID: session.ID, Direction: domain.FromUser, Kind: domain.KindText, Text: "hola"}
	if err := messages.Create(ctx, msg); err != nil {
		t.Fatalf("seed message: %v", err)
	}

	svc := service.NewLeadService(sessions, leads, messages)
	if _, err := svc.Transfer(ctx, session.Token, "", "urgente, llamar hoy"); err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if got := leads.created[0].Notes; got != "urgente, llamar hoy" {
		t.Fatalf("caller notes overwritten: %q", got)
	}
}

func TestTransferCompletedSession(t *testing.T) {
	sessions := newMemSessions()
	session := seedLeadSession(t, sessions, true)
	ctx := context.Background()

	loaded, _ := sessions.GetByToken(ctx, session.Token)
	loaded.Status = domain.SessionCompleted
	if err := sessions.Update(ctx, loaded); err != nil {
		t.Fatalf("close session: %v", err)
	}

	svc := service.NewLeadService(sessions, &memLeads{}, &memMessages{})
	result, err := svc.Transfer(ctx, session.Token, "", "")
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if result.Success {
		t.Fatalf("completed sessions have nothing to hand off: %+v", result)
	}
}
