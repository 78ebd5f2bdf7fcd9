package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/autoplaza/dealerbot/internal/domain"
)

type QuickResponseRepo struct {
	pool *pgxpool.Pool
}

func NewQuickResponseRepo(pool *pgxpool.Pool) *QuickResponseRepo {
	return &QuickResponseRepo{pool: pool}
}

// ListActive returns active quick responses in stable insertion order, which
// the matcher relies on for its final tie-break.
func (r *QuickResponseRepo) ListActive(ctx context.Context, configurationID int64) ([]domain.QuickResponse, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, configuration_id, triggers, response, priority, active, bypass_llm, created_at
		FROM quick_responses
		WHERE configuration_id = $1 AND active
		ORDER BY id`,
		configurationID)
	if err != nil {
		return nil, fmt.Errorf("list quick responses: %w", err)
	}
	defer rows.Close()

	var qrs []domain.QuickResponse
	for rows.Next() {
		var qr domain.QuickResponse
		if err := rows.Scan(
			&qr.ID, &qr.ConfigurationID, &qr.Triggers, &qr.Response,
			&qr.Priority, &qr.Active, &qr.BypassLLM, &qr.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan quick response: %w", err)
		}
		qrs = append(qrs, qr)
	}
	return qrs, rows.Err()
}
