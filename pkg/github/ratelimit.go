package github

import (
	"context"
	"sync"
	"time"
)

// defaultRateLimitPause is used when the API reports exhaustion without
// telling us when the window resets.
const defaultRateLimitPause = time.Minute

// rateGate suspends all API traffic while the quota window is exhausted.
// Every worker consults the gate before each call, so one rate-limited
// response pauses the whole fetch instead of letting the remaining
// workers burn through retries.
type rateGate struct {
	mu    sync.Mutex
	until time.Time
}

// Wait blocks until the gate is open or the context ends. Waiting does
// not consume retry attempts; the suspended operation resumes as-is.
func (g *rateGate) Wait(ctx context.Context) error {
	for {
		g.mu.Lock()
		until := g.until
		g.mu.Unlock()

		wait := time.Until(until)
		if wait <= 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
			// Re-check: another worker may have extended the pause.
		}
	}
}

// PauseUntil closes the gate until t. Pauses only ever extend; a stale
// observation can never reopen a closed gate early.
func (g *rateGate) PauseUntil(t time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if t.After(g.until) {
		g.until = t
	}
}

// Observe feeds the rateLimit block every GraphQL response carries back
// into the gate, pausing proactively when the quota runs out.
func (g *rateGate) Observe(remaining int, resetAt time.Time) {
	if remaining <= 0 {
		if resetAt.IsZero() {
			resetAt = time.Now().Add(defaultRateLimitPause)
		}
		g.PauseUntil(resetAt)
	}
}

// pausedUntil reports the current gate deadline.
func (g *rateGate) pausedUntil() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.until
}
