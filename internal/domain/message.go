package domain

import (
	"time"
)

// MessageDirection distinguishes visitor turns from bot turns.
type MessageDirection string

const (
	FromUser MessageDirection = "user"
	FromBot  MessageDirection = "bot"
)

// MessageKind is the payload type reported by the channel.
type MessageKind string

const (
	KindText  MessageKind = "text"
	KindImage MessageKind = "image"
	KindAudio MessageKind = "audio"
)

// Message is one turn in a session. Append-only: rows are never updated.
type Message struct {
	ID                  int64
	SessionID           int64
	Direction           MessageDirection
	Kind                MessageKind
	Text                string
	Intent              string
	Confidence          float64
	LatencyMs           int64
	ConsumedInteraction bool
	BypassedLLM         bool
	CreatedAt           time.Time
}
