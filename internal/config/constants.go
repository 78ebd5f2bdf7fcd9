package config

import "time"

const (
	// LLM backend call deadline
	RequestTimeout = 30 * time.Second

	// Circuit breaker: consecutive failures before tripping, and how long
	// the breaker stays open before probing recovery
	BreakerThreshold = 5
	BreakerCooldown  = 30 * time.Second

	// Inventory lines injected into the prompt, most-recently-synced first
	MaxInventoryItems = 20

	// Postgres pool bounds
	DBMaxConns = 20
	DBMinConns = 5

	// Fallbacks when a configuration row carries no ceiling
	DefaultInteractionCeiling = 20

	// Reapply attempts when two writers race on one session row
	SessionUpdateRetries = 3

	// Telegram limits
	MaxTelegramMessageLen = 4096

	// How long redis usage counters live past their calendar window
	UsageCounterTTL = 40 * 24 * time.Hour
)
