package service

import (
	"context"

	"github.com/autoplaza/dealerbot/internal/domain"
)

// Store ports consumed by the pipeline. Implemented by internal/repository;
// tests substitute in-memory fakes.

type SessionStore interface {
	GetByToken(ctx context.Context, token string) (*domain.Session, error)
	GetActiveByChat(ctx context.Context, chatID int64) (*domain.Session, error)
	Create(ctx context.Context, s *domain.Session) error
	// Update must guard on Session.Version and return
	// domain.ErrVersionConflict on a lost race.
	Update(ctx context.Context, s *domain.Session) error
}

type MessageStore interface {
	Create(ctx context.Context, m *domain.Message) error
	ListBySession(ctx context.Context, sessionID int64) ([]domain.Message, error)
}

type ConfigurationStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Configuration, error)
	GetByTenant(ctx context.Context, tenantRef string) (*domain.Configuration, error)
	GetDefault(ctx context.Context) (*domain.Configuration, error)
}

type QuickResponseStore interface {
	ListActive(ctx context.Context, configurationID int64) ([]domain.QuickResponse, error)
}

type InventoryStore interface {
	ListAvailable(ctx context.Context, configurationID int64, limit int) ([]domain.Vehicle, error)
}

type LeadStore interface {
	Create(ctx context.Context, l *domain.Lead) error
	CountBySession(ctx context.Context, sessionID int64) (int64, error)
}

// LLMGenerator is the orchestrated language-model backend. Generate returns
// an error only for caller cancellation; every backend failure resolves to a
// fallback result instead.
type LLMGenerator interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error)
}
