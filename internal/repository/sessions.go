package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/autoplaza/dealerbot/internal/domain"
)

type SessionRepo struct {
	pool *pgxpool.Pool
}

func NewSessionRepo(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

const sessionColumns = `id, token, configuration_id, chat_id, status,
	interaction_count, interaction_ceiling, message_count, language,
	contact_name, contact_email, contact_phone, version,
	created_at, last_activity_at, ended_at`

func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE token = $1`, token)
	s, err := scanSession(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session by token: %w", err)
	}
	return s, nil
}

// GetActiveByChat returns the newest active session owned by a chat, or
// ErrSessionNotFound when the chat has no open conversation.
func (r *SessionRepo) GetActiveByChat(ctx context.Context, chatID int64) (*domain.Session, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions
		 WHERE chat_id = $1 AND status = $2
		 ORDER BY created_at DESC LIMIT 1`,
		chatID, domain.SessionActive)
	s, err := scanSession(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session by chat: %w", err)
	}
	return s, nil
}

func (r *SessionRepo) Create(ctx context.Context, s *domain.Session) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO sessions (token, configuration_id, chat_id, status,
			interaction_ceiling, language, contact_name, contact_email, contact_phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, version, created_at, last_activity_at`,
		s.Token, s.ConfigurationID, s.ChatID, s.Status,
		s.InteractionCeiling, s.Language, s.ContactName, s.ContactEmail, s.ContactPhone,
	).Scan(&s.ID, &s.Version, &s.CreatedAt, &s.LastActivityAt)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// Update persists the session guarded by its version. A concurrent writer
// having bumped the row first surfaces as ErrVersionConflict so the
// interaction counter can never lose an increment.
func (r *SessionRepo) Update(ctx context.Context, s *domain.Session) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE sessions SET
			status = $1,
			interaction_count = $2,
			message_count = $3,
			language = $4,
			contact_name = $5,
			contact_email = $6,
			contact_phone = $7,
			last_activity_at = NOW(),
			ended_at = $8,
			version = version + 1
		WHERE id = $9 AND version = $10`,
		s.Status, s.InteractionCount, s.MessageCount, s.Language,
		s.ContactName, s.ContactEmail, s.ContactPhone,
		s.EndedAt, s.ID, s.Version)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrVersionConflict
	}
	s.Version++
	return nil
}

func scanSession(row pgx.Row) (*domain.Session, error) {
	var s domain.Session
	err := row.Scan(
		&s.ID, &s.Token, &s.ConfigurationID, &s.ChatID, &s.Status,
		&s.InteractionCount, &s.InteractionCeiling, &s.MessageCount, &s.Language,
		&s.ContactName, &s.ContactEmail, &s.ContactPhone, &s.Version,
		&s.CreatedAt, &s.LastActivityAt, &s.EndedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
