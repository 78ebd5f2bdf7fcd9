package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// FallbackText is the user-safe reply substituted for every backend failure.
const FallbackText = "Lo siento, en este momento no puedo procesar tu mensaje. " +
	"Un asesor te atenderá en breve. 🙏"

// GenerateRequest carries one LLM turn to the backend.
type GenerateRequest struct {
	SessionToken string
	Text         string
	Language     string
	SystemPrompt string
}

// GenerateResult is what the orchestrator hands back. IsFallback marks
// locally-generated degraded replies.
type GenerateResult struct {
	Text       string
	Intent     string
	Confidence float64
	IsFallback bool
}

// LLMService calls the language-model backend with a bounded timeout behind a
// circuit breaker. It never surfaces backend failures: every timeout,
// transport error or bad status resolves to a fallback result. The only error
// it returns is the caller's own cancellation.
type LLMService struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	timeout    time.Duration
	breaker    *CircuitBreaker
	metrics    Metrics
}

func NewLLMService(baseURL, apiKey string, timeout time.Duration, breaker *CircuitBreaker, metrics Metrics) *LLMService {
	return &LLMService{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout + 5*time.Second},
		timeout:    timeout,
		breaker:    breaker,
		metrics:    metrics,
	}
}

type generatePayload struct {
	Session      string `json:"session"`
	Prompt       string `json:"prompt"`
	SystemPrompt string `json:"system_prompt,omitempty"`
	Language     string `json:"language,omitempty"`
}

type generateResponse struct {
	Text       string  `json:"text"`
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

func (s *LLMService) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	if !s.breaker.Allow() {
		slog.Debug("breaker open, skipping backend call", "session", req.SessionToken)
		s.metrics.LLMFallback("breaker_open")
		return fallbackResult(), nil
	}

	reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.metrics.LLMCall()
	result, err := s.call(reqCtx, req)
	if err != nil {
		// The caller hanging up is not backend health: propagate, and
		// give back the probe slot so the breaker keeps testing recovery
		if errors.Is(ctx.Err(), context.Canceled) {
			s.breaker.Cancel()
			return nil, ctx.Err()
		}
		if s.breaker.RecordResult(false) {
			slog.Warn("circuit breaker tripped", "error", err)
			s.metrics.BreakerTripped()
		}
		slog.Error("llm backend call failed", "error", err, "session", req.SessionToken)
		s.metrics.LLMFallback(fallbackReason(reqCtx, err))
		return fallbackResult(), nil
	}

	s.breaker.RecordResult(true)
	return result, nil
}

func (s *LLMService) call(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	payload, err := json.Marshal(generatePayload{
		Session:      req.SessionToken,
		Prompt:       req.Text,
		SystemPrompt: req.SystemPrompt,
		Language:     req.Language,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/generate", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("generate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("backend returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if genResp.Text == "" {
		return nil, fmt.Errorf("backend returned empty text")
	}

	return &GenerateResult{
		Text:       genResp.Text,
		Intent:     genResp.Intent,
		Confidence: genResp.Confidence,
	}, nil
}

// Healthy probes the backend status endpoint.
func (s *LLMService) Healthy(ctx context.Context) bool {
	httpReq, err := http.NewRequestWithContext(ctx, "GET", s.baseURL+"/status", nil)
	if err != nil {
		return false
	}
	if s.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)
	}
	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func fallbackResult() *GenerateResult {
	return &GenerateResult{Text: FallbackText, IsFallback: true}
}

func fallbackReason(ctx context.Context, err error) string {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "timeout"
	}
	if err != nil {
		return "backend_error"
	}
	return "unknown"
}
