package service_test

import (
	"context"

	"github.com/autoplaza/dealerbot/internal/domain"
	"github.com/autoplaza/dealerbot/internal/service"
)

// In-memory fakes for the store ports. They return copies the way a real
// store would, so mutations only land through Update.

type memSessions struct {
	byToken map[string]*domain.Session
	nextID  int64
}

func newMemSessions() *memSessions {
	return &memSessions{byToken: make(map[string]*domain.Session)}
}

func (m *memSessions) GetByToken(_ context.Context, token string) (*domain.Session, error) {
	s, ok := m.byToken[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSessions) GetActiveByChat(_ context.Context, chatID int64) (*domain.Session, error) {
	for _, s := range m.byToken {
		if s.ChatID != nil && *s.ChatID == chatID && s.Status == domain.SessionActive {
			cp := *s
			return &cp, nil
		}
	}
	return nil, domain.ErrSessionNotFound
}

func (m *memSessions) Create(_ context.Context, s *domain.Session) error {
	m.nextID++
	s.ID = m.nextID
	s.Version = 1
	cp := *s
	m.byToken[s.Token] = &cp
	return nil
}

func (m *memSessions) Update(_ context.Context, s *domain.Session) error {
	stored, ok := m.byToken[s.Token]
	if !ok {
		return domain.ErrSessionNotFound
	}
	if stored.Version != s.Version {
		return domain.ErrVersionConflict
	}
	s.Version++
	cp := *s
	m.byToken[s.Token] = &cp
	return nil
}

type memMessages struct {
	created []domain.Message
}

func (m *memMessages) Create(_ context.Context, msg *domain.Message) error {
	msg.ID = int64(len(m.created) + 1)
	m.created = append(m.created, *msg)
	return nil
}

func (m *memMessages) ListBySession(_ context.Context, sessionID int64) ([]domain.Message, error) {
	return m.bySession(sessionID), nil
}

func (m *memMessages) bySession(sessionID int64) []domain.Message {
	var out []domain.Message
	for _, msg := range m.created {
		if msg.SessionID == sessionID {
			out = append(out, msg)
		}
	}
	return out
}

type memConfigs struct {
	byID map[int64]*domain.Configuration
}

func (m *memConfigs) GetByID(_ context.Context, id int64) (*domain.Configuration, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrConfigurationNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memConfigs) GetByTenant(_ context.Context, tenantRef string) (*domain.Configuration, error) {
	for _, c := range m.byID {
		if c.TenantRef == tenantRef {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrConfigurationNotFound
}

func (m *memConfigs) GetDefault(_ context.Context) (*domain.Configuration, error) {
	for _, c := range m.byID {
		if c.IsDefault {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrConfigurationNotFound
}

type memQuick struct {
	items []domain.QuickResponse
}

func (m *memQuick) ListActive(_ context.Context, configurationID int64) ([]domain.QuickResponse, error) {
	var out []domain.QuickResponse
	for _, qr := range m.items {
		if qr.ConfigurationID == configurationID && qr.Active {
			out = append(out, qr)
		}
	}
	return out, nil
}

type memInventory struct {
	items []domain.Vehicle
}

func (m *memInventory) ListAvailable(_ context.Context, configurationID int64, limit int) ([]domain.Vehicle, error) {
	var out []domain.Vehicle
	for _, v := range m.items {
		if v.ConfigurationID == configurationID && v.Available {
			out = append(out, v)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type memLeads struct {
	created []domain.Lead
}

func (m *memLeads) Create(_ context.Context, l *domain.Lead) error {
	l.ID = int64(len(m.created) + 1)
	m.created = append(m.created, *l)
	return nil
}

func (m *memLeads) CountBySession(_ context.Context, sessionID int64) (int64, error) {
	var count int64
	for _, l := range m.created {
		if l.SessionID == sessionID {
			count++
		}
	}
	return count, nil
}

// fakeLLM stands in for the orchestrated backend. It records requests and
// serves a canned result or error; onGenerate lets a test interleave work
// while the call is "in flight".
type fakeLLM struct {
	result     *service.GenerateResult
	err        error
	calls      int
	lastReq    service.GenerateRequest
	onGenerate func()
}

func (f *fakeLLM) Generate(_ context.Context, req service.GenerateRequest) (*service.GenerateResult, error) {
	f.calls++
	f.lastReq = req
	if f.onGenerate != nil {
		f.onGenerate()
	}
	if f.err != nil {
		return nil, f.err
	}
	cp := *f.result
	return &cp, nil
}
