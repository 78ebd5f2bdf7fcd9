package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Core
	BotToken    string `env:"BOT_TOKEN,required"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	// LLM backend
	LLMBackendURL string `env:"LLM_BACKEND_URL,required"`
	LLMBackendKey string `env:"LLM_BACKEND_KEY"`

	// Usage counters: postgres (default), redis or memory
	UsageBackend string `env:"USAGE_BACKEND" envDefault:"postgres"`
	RedisURL     string `env:"REDIS_URL"`

	// Conversation defaults
	DefaultLanguage string `env:"DEFAULT_LANGUAGE" envDefault:"es"`

	// Bot behavior
	DropPendingUpdates bool `env:"BOT_DROP_PENDING_UPDATES" envDefault:"false"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
