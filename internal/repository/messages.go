package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/autoplaza/dealerbot/internal/domain"
)

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

func (r *MessageRepo) Create(ctx context.Context, m *domain.Message) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO messages (session_id, direction, kind, text, intent,
			confidence, latency_ms, consumed_interaction, bypassed_llm)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`,
		m.SessionID, m.Direction, m.Kind, m.Text, m.Intent,
		m.Confidence, m.LatencyMs, m.ConsumedInteraction, m.BypassedLLM,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

// ListBySession returns the transcript in chronological order.
func (r *MessageRepo) ListBySession(ctx context.Context, sessionID int64) ([]domain.Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, session_id, direction, kind, text, intent, confidence,
			latency_ms, consumed_interaction, bypassed_llm, created_at
		FROM messages WHERE session_id = $1 ORDER BY id`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var msgs []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(
			&m.ID, &m.SessionID, &m.Direction, &m.Kind, &m.Text, &m.Intent,
			&m.Confidence, &m.LatencyMs, &m.ConsumedInteraction, &m.BypassedLLM, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
