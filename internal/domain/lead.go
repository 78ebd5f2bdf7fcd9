package domain

import (
	"time"
)

// Lead is a captured prospective-buyer record created on handoff to a human
// agent. Immutable here; status transitions belong to the downstream CRM.
type Lead struct {
	ID              int64
	Reference       string
	SessionID       int64
	ConfigurationID int64
	Name            string
	Email           string
	Phone           string
	Reason          string
	Notes           string
	Status          string
	CreatedAt       time.Time
}
