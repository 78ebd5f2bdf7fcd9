package service_test

import (
	"testing"

	"github.com/autoplaza/dealerbot/internal/domain"
	"github.com/autoplaza/dealerbot/internal/service"
)

func qr(id int64, priority int, triggers ...string) domain.QuickResponse {
	return domain.QuickResponse{
		ID:       id,
		Triggers: triggers,
		Response: "respuesta",
		Priority: priority,
		Active:   true,
	}
}

func TestMatchQuickResponseSubstring(t *testing.T) {
	candidates := []domain.QuickResponse{qr(1, 10, "hola", "buenos días")}

	got := service.MatchQuickResponse(candidates, service.NormalizeText("Hola"))
	if got == nil || got.ID != 1 {
		t.Fatalf("expected candidate 1, got %+v", got)
	}

	got = service.MatchQuickResponse(candidates, service.NormalizeText("  Buenos Días!  "))
	if got == nil || got.ID != 1 {
		t.Fatalf("trigger inside longer input should match, got %+v", got)
	}

	if got := service.MatchQuickResponse(candidates, "qué carros tienen"); got != nil {
		t.Fatalf("expected miss, got %+v", got)
	}
}

func TestMatchQuickResponsePriorityWins(t *testing.T) {
	candidates := []domain.QuickResponse{
		qr(1, 10, "horario"),
		qr(2, 100, "horario"),
	}

	got := service.MatchQuickResponse(candidates, "cuál es su horario")
	if got == nil || got.ID != 2 {
		t.Fatalf("higher priority should win, got %+v", got)
	}
}

func TestMatchQuickResponseLongestTriggerBreaksTies(t *testing.T) {
	candidates := []domain.QuickResponse{
		qr(1, 10, "precio"),
		qr(2, 10, "precio de lista"),
	}

	got := service.MatchQuickResponse(candidates, "dame el precio de lista")
	if got == nil || got.ID != 2 {
		t.Fatalf("longest matching trigger should win at equal priority, got %+v", got)
	}
}

func TestMatchQuickResponseStableOrder(t *testing.T) {
	candidates := []domain.QuickResponse{
		qr(1, 10, "gracias"),
		qr(2, 10, "gracias"),
	}

	for i := 0; i < 5; i++ {
		got := service.MatchQuickResponse(candidates, "gracias")
		if got == nil || got.ID != 1 {
			t.Fatalf("run %d: insertion order should break full ties, got %+v", i, got)
		}
	}
}

func TestMatchQuickResponseSkipsInactive(t *testing.T) {
	inactive := qr(1, 100, "hola")
	inactive.Active = false
	candidates := []domain.QuickResponse{inactive, qr(2, 1, "hola")}

	got := service.MatchQuickResponse(candidates, "hola")
	if got == nil || got.ID != 2 {
		t.Fatalf("inactive candidates must be skipped, got %+v", got)
	}
}

func TestMatchQuickResponseEmptyInput(t *testing.T) {
	candidates := []domain.QuickResponse{qr(1, 10, "hola")}
	if got := service.MatchQuickResponse(candidates, ""); got != nil {
		t.Fatalf("empty input must never match, got %+v", got)
	}
}
