package service

import "log/slog"

// Metrics is the write-only sink for pipeline counters. Implementations must
// be cheap and non-blocking; callers fire and forget.
type Metrics interface {
	LLMCall()
	LLMFallback(reason string)
	BreakerTripped()
	QuotaRejected(scope string)
	MatcherHit()
}

// LogMetrics emits counters as debug log lines. Stand-in until a real
// telemetry sink is wired by the surrounding service.
type LogMetrics struct{}

func (LogMetrics) LLMCall()                  { slog.Debug("metric", "name", "llm_calls") }
func (LogMetrics) LLMFallback(reason string) { slog.Debug("metric", "name", "llm_fallbacks", "reason", reason) }
func (LogMetrics) BreakerTripped()           { slog.Debug("metric", "name", "breaker_trips") }
func (LogMetrics) QuotaRejected(scope string) {
	slog.Debug("metric", "name", "quota_rejections", "scope", scope)
}
func (LogMetrics) MatcherHit() { slog.Debug("metric", "name", "matcher_hits") }

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) LLMCall()               {}
func (NopMetrics) LLMFallback(string)     {}
func (NopMetrics) BreakerTripped()        {}
func (NopMetrics) QuotaRejected(string)   {}
func (NopMetrics) MatcherHit()            {}
