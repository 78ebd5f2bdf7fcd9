package service_test

import (
	"context"
	"testing"

	"github.com/autoplaza/dealerbot/internal/domain"
	"github.com/autoplaza/dealerbot/internal/service"
	"github.com/autoplaza/dealerbot/internal/usage"
)

func newQuota(t *testing.T) *service.QuotaService {
	t.Helper()
	store, err := usage.NewStore(usage.StoreTypeMemory)
	if err != nil {
		t.Fatalf("usage store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return service.NewQuotaService(store, service.NopMetrics{})
}

func TestTryConsumeSessionCeilingIsNecessary(t *testing.T) {
	q := newQuota(t)
	session := &domain.Session{InteractionCount: 5, InteractionCeiling: 5}
	cfg := &domain.Configuration{ID: 1}

	decision, err := q.TryConsume(context.Background(), session, cfg)
	if err != nil {
		t.Fatalf("TryConsume: %v", err)
	}
	if decision.Allowed || decision.RejectedBy != "session" {
		t.Fatalf("expected session rejection, got %+v", decision)
	}
}

func TestTryConsumeDailyCeiling(t *testing.T) {
	q := newQuota(t)
	session := &domain.Session{InteractionCeiling: 100}
	cfg := &domain.Configuration{ID: 1, DailyLimit: 3}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		decision, err := q.TryConsume(ctx, session, cfg)
		if err != nil {
			t.Fatalf("consume %d: %v", i, err)
		}
		if !decision.Allowed {
			t.Fatalf("consume %d should pass, got %+v", i, decision)
		}
	}

	decision, err := q.TryConsume(ctx, session, cfg)
	if err != nil {
		t.Fatalf("TryConsume: %v", err)
	}
	if decision.Allowed || decision.RejectedBy != "daily" {
		t.Fatalf("expected daily rejection, got %+v", decision)
	}
}

func TestTryConsumeMonthlyCeiling(t *testing.T) {
	q := newQuota(t)
	session := &domain.Session{InteractionCeiling: 100}
	cfg := &domain.Configuration{ID: 1, MonthlyLimit: 2}
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if decision, _ := q.TryConsume(ctx, session, cfg); !decision.Allowed {
			t.Fatalf("consume %d should pass", i)
		}
	}

	decision, err := q.TryConsume(ctx, session, cfg)
	if err != nil {
		t.Fatalf("TryConsume: %v", err)
	}
	if decision.Allowed || decision.RejectedBy != "monthly" {
		t.Fatalf("expected monthly rejection, got %+v", decision)
	}
}

func TestTryConsumeRemainingAccountsForThisConsume(t *testing.T) {
	q := newQuota(t)
	session := &domain.Session{InteractionCount: 3, InteractionCeiling: 10}
	cfg := &domain.Configuration{ID: 1}

	decision, err := q.TryConsume(context.Background(), session, cfg)
	if err != nil {
		t.Fatalf("TryConsume: %v", err)
	}
	if !decision.Allowed || decision.Remaining != 6 {
		t.Fatalf("remaining got %+v want Allowed with 6", decision)
	}
}

func TestTryConsumeSeparateConfigurationsDoNotShareCounters(t *testing.T) {
	q := newQuota(t)
	session := &domain.Session{InteractionCeiling: 100}
	ctx := context.Background()

	cfgA := &domain.Configuration{ID: 1, DailyLimit: 1}
	cfgB := &domain.Configuration{ID: 2, DailyLimit: 1}

	if decision, _ := q.TryConsume(ctx, session, cfgA); !decision.Allowed {
		t.Fatal("first consume for A should pass")
	}
	if decision, _ := q.TryConsume(ctx, session, cfgB); !decision.Allowed {
		t.Fatal("B has its own counter and should pass")
	}
	if decision, _ := q.TryConsume(ctx, session, cfgA); decision.Allowed {
		t.Fatal("A is exhausted")
	}
}
