package domain

import (
	"time"
)

// SessionStatus is the lifecycle state of a conversation.
type SessionStatus string

const (
	SessionActive      SessionStatus = "active"
	SessionCompleted   SessionStatus = "completed"
	SessionTransferred SessionStatus = "transferred_to_agent"
)

// Session is one end-to-end conversation, addressed by an opaque token.
type Session struct {
	ID                 int64
	Token              string
	ConfigurationID    int64
	ChatID             *int64
	Status             SessionStatus
	InteractionCount   int
	InteractionCeiling int
	MessageCount       int
	Language           string
	ContactName        string
	ContactEmail       string
	ContactPhone       string
	Version            int
	CreatedAt          time.Time
	LastActivityAt     time.Time
	EndedAt            *time.Time
}

func (s *Session) IsActive() bool {
	return s.Status == SessionActive
}

// LimitReached reports whether the session has used up its interaction ceiling.
func (s *Session) LimitReached() bool {
	return s.InteractionCount >= s.InteractionCeiling
}

// RemainingInteractions never goes below zero.
func (s *Session) RemainingInteractions() int {
	remaining := s.InteractionCeiling - s.InteractionCount
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (s *Session) HasContact() bool {
	return s.ContactName != "" || s.ContactEmail != "" || s.ContactPhone != ""
}
