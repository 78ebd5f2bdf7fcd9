package service

import (
	"context"
	"fmt"
	"time"

	"github.com/autoplaza/dealerbot/internal/domain"
	"github.com/autoplaza/dealerbot/internal/usage"
)

// QuotaDecision is the ledger's verdict for one would-be interaction.
type QuotaDecision struct {
	Allowed bool
	// Remaining session interactions assuming this consume goes through
	Remaining int
	// Scope that rejected the consume: "session", "daily" or "monthly"
	RejectedBy string
}

// QuotaService enforces the three independent ceilings an interaction must
// clear: the session's own counter, the configuration's daily aggregate and
// its monthly aggregate. Counters are atomic increment-and-compare; a
// counter failure rejects the consume rather than risking unbounded bypass.
type QuotaService struct {
	usage   usage.Store
	metrics Metrics
	now     func() time.Time
}

func NewQuotaService(store usage.Store, metrics Metrics) *QuotaService {
	return &QuotaService{usage: store, metrics: metrics, now: time.Now}
}

func dailyScope(configurationID int64) string {
	return fmt.Sprintf("config:%d:daily", configurationID)
}

func monthlyScope(configurationID int64) string {
	return fmt.Sprintf("config:%d:monthly", configurationID)
}

// TryConsume records one interaction against every applicable ceiling.
// Double-counting on retries is the caller's problem to avoid via message
// identity; the ledger itself counts every call.
func (q *QuotaService) TryConsume(ctx context.Context, session *domain.Session, cfg *domain.Configuration) (QuotaDecision, error) {
	if session.LimitReached() {
		q.metrics.QuotaRejected("session")
		return QuotaDecision{RejectedBy: "session"}, nil
	}

	now := q.now()

	if cfg.DailyLimit > 0 {
		count, err := q.usage.Increment(ctx, dailyScope(cfg.ID), now)
		if err != nil {
			return QuotaDecision{}, fmt.Errorf("daily counter: %w", err)
		}
		if count > int64(cfg.DailyLimit) {
			q.metrics.QuotaRejected("daily")
			return QuotaDecision{RejectedBy: "daily"}, nil
		}
	}

	if cfg.MonthlyLimit > 0 {
		count, err := q.usage.Increment(ctx, monthlyScope(cfg.ID), usage.MonthKey(now))
		if err != nil {
			return QuotaDecision{}, fmt.Errorf("monthly counter: %w", err)
		}
		if count > int64(cfg.MonthlyLimit) {
			q.metrics.QuotaRejected("monthly")
			return QuotaDecision{RejectedBy: "monthly"}, nil
		}
	}

	remaining := session.InteractionCeiling - session.InteractionCount - 1
	if remaining < 0 {
		remaining = 0
	}
	return QuotaDecision{Allowed: true, Remaining: remaining}, nil
}
