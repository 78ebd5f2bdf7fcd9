package domain

import (
	"time"
)

// QuickResponse is a pre-authored canned answer keyed by trigger phrases.
// Matching one never consumes an interaction.
type QuickResponse struct {
	ID              int64
	ConfigurationID int64
	Triggers        []string
	Response        string
	Priority        int
	Active          bool
	BypassLLM       bool
	CreatedAt       time.Time
}
