package service

import (
	"sync"
	"time"
)

type breakerState int

const (
	breakerClosed breakerState = iota
	breakerOpen
	breakerHalfOpen
)

func (s breakerState) String() string {
	switch s {
	case breakerOpen:
		return "open"
	case breakerHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// CircuitBreaker guards the one LLM backend shared by all conversations.
// Closed passes calls through and counts consecutive failures; at threshold it
// opens and rejects everything until the cooldown elapses, then lets exactly
// one probe through. The probe's outcome decides between closed and open.
type CircuitBreaker struct {
	mu        sync.Mutex
	state     breakerState
	failures  int
	threshold int
	cooldown  time.Duration
	trippedAt time.Time
	probing   bool

	now func() time.Time
}

func NewCircuitBreaker(threshold int, cooldown time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		threshold: threshold,
		cooldown:  cooldown,
		now:       time.Now,
	}
}

// Allow reports whether a call may go out to the backend right now.
func (b *CircuitBreaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case breakerClosed:
		return true
	case breakerOpen:
		if b.now().Sub(b.trippedAt) < b.cooldown {
			return false
		}
		b.state = breakerHalfOpen
		b.probing = true
		return true
	case breakerHalfOpen:
		if b.probing {
			return false
		}
		b.probing = true
		return true
	}
	return false
}

// Cancel releases a permit obtained from Allow without recording an outcome.
// A caller that abandons its call mid-flight must release the half-open probe
// slot, otherwise the breaker would never probe recovery again.
func (b *CircuitBreaker) Cancel() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == breakerHalfOpen {
		b.probing = false
	}
}

// RecordResult feeds a call outcome back. Returns true when this result
// tripped the breaker open.
func (b *CircuitBreaker) RecordResult(ok bool) (tripped bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case breakerClosed:
		if ok {
			b.failures = 0
			return false
		}
		b.failures++
		if b.failures >= b.threshold {
			b.state = breakerOpen
			b.trippedAt = b.now()
			return true
		}
		return false

	case breakerHalfOpen:
		b.probing = false
		if ok {
			b.state = breakerClosed
			b.failures = 0
			return false
		}
		b.state = breakerOpen
		b.trippedAt = b.now()
		return true
	}

	// Results landing while open (in-flight calls from before the trip)
	// don't move the state
	return false
}

// State returns the current state name for logging.
func (b *CircuitBreaker) State() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.String()
}
