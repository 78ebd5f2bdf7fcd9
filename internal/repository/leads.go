package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/autoplaza/dealerbot/internal/domain"
)

type LeadRepo struct {
	pool *pgxpool.Pool
}

func NewLeadRepo(pool *pgxpool.Pool) *LeadRepo {
	return &LeadRepo{pool: pool}
}

func (r *LeadRepo) Create(ctx context.Context, l *domain.Lead) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO leads (reference, session_id, configuration_id, name, email, phone, reason, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`,
		l.Reference, l.SessionID, l.ConfigurationID, l.Name, l.Email, l.Phone,
		l.Reason, l.Notes, l.Status,
	).Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		return fmt.Errorf("create lead: %w", err)
	}
	return nil
}

// CountBySession reports how many leads a session already produced, so the
// handoff path can stay idempotent.
func (r *LeadRepo) CountBySession(ctx context.Context, sessionID int64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM leads WHERE session_id = $1`, sessionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count leads: %w", err)
	}
	return count, nil
}
