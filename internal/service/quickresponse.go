package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/autoplaza/dealerbot/internal/domain"
)

// IntentQuickResponse marks replies answered without the LLM.
const IntentQuickResponse = "quick_response"

// NormalizeText prepares inbound text for trigger matching.
func NormalizeText(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// MatchQuickResponse picks the winning canned answer for normalized input, or
// nil on a miss. A candidate matches when any of its trigger phrases is a
// case-insensitive substring of the input. Ties break by highest priority,
// then longest matching trigger, then the candidates' original order.
// Pure function: same inputs, same winner.
func MatchQuickResponse(candidates []domain.QuickResponse, normalized string) *domain.QuickResponse {
	if normalized == "" {
		return nil
	}

	var best *domain.QuickResponse
	bestTriggerLen := 0

	for i := range candidates {
		qr := &candidates[i]
		if !qr.Active {
			continue
		}
		matchedLen := 0
		for _, trigger := range qr.Triggers {
			t := NormalizeText(trigger)
			if t == "" || !strings.Contains(normalized, t) {
				continue
			}
			if l := utf8.RuneCountInString(t); l > matchedLen {
				matchedLen = l
			}
		}
		if matchedLen == 0 {
			continue
		}
		if best == nil ||
			qr.Priority > best.Priority ||
			(qr.Priority == best.Priority && matchedLen > bestTriggerLen) {
			best = qr
			bestTriggerLen = matchedLen
		}
	}
	return best
}

// QuickResponseService resolves matches against a configuration's stored
// quick responses.
type QuickResponseService struct {
	store QuickResponseStore
}

func NewQuickResponseService(store QuickResponseStore) *QuickResponseService {
	return &QuickResponseService{store: store}
}

func (s *QuickResponseService) Match(ctx context.Context, configurationID int64, normalized string) (*domain.QuickResponse, error) {
	candidates, err := s.store.ListActive(ctx, configurationID)
	if err != nil {
		return nil, err
	}
	return MatchQuickResponse(candidates, normalized), nil
}
