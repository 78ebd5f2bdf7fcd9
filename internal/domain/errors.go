package domain

import "errors"

var (
	ErrSessionNotFound       = errors.New("session not found")
	ErrSessionClosed         = errors.New("session is no longer active")
	ErrConfigurationNotFound = errors.New("configuration not found")
	ErrConfigurationInactive = errors.New("configuration is disabled")
	ErrVersionConflict       = errors.New("session version conflict")
)
