package domain

import (
	"time"
)

// Configuration is the per-tenant chatbot setup. Owned by an external
// administrative surface; read-only from the pipeline's perspective.
type Configuration struct {
	ID                 int64
	TenantRef          string
	AgentName          string
	SystemPrompt       string
	WelcomeMessage     string
	InteractionCeiling int
	DailyLimit         int // 0 = unlimited
	MonthlyLimit       int // 0 = unlimited
	IsDefault          bool
	Active             bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
