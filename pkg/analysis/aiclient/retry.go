package aiclient

import (
	"errors"
	"math/rand/v2"
	"time"

	"ai-medreport-be/pkg/llm"
)

// RetryPolicy is a pure description of the retry schedule: attempt count
// plus a backoff function of the attempt number. Keeping it free of clocks
// and transports makes the schedule testable in isolation.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Delay returns exponential backoff with jitter for the given attempt.
// Attempt 0 is the first try and has no delay. The base delay doubles each
// attempt, capped at MaxDelay, with random jitter of ±25%.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	if attempt > 30 {
		attempt = 30 // avoid overflow in the shift
	}
	backoff := p.BaseDelay * time.Duration(1<<uint(attempt))
	if backoff <= 0 {
		return 0
	}
	maxDelay := p.MaxDelay
	if maxDelay <= 0 {
		maxDelay = 30 * time.Second
	}
	if backoff > maxDelay {
		backoff = maxDelay
	}
	jitter := time.Duration(rand.Int64N(int64(backoff)/2)) - backoff/4
	return backoff + jitter
}

// transient reports whether an attempt failure is worth retrying.
// Provider statuses 429 and 5xx are transient; other 4xx are client errors
// and fatal. Anything without a status (network failure, timeout,
// unparseable payload) is assumed transient.
func transient(err error) bool {
	var se *llm.StatusError
	if errors.As(err, &se) {
		return se.StatusCode == 429 || se.StatusCode >= 500
	}
	return true
}
