package analysis

import (
	"fmt"
	"time"

	"ai-medreport-be/pkg/analysis/chunker"
)

// ErrEmptyInput rejects a request before any pipeline work happens.
var ErrEmptyInput = chunker.ErrEmptyInput

// RateLimitError means admission control denied the request before any
// chunking or AI spend. The client should retry after the window slides.
// Limit is the caller's window capacity, for response headers.
type RateLimitError struct {
	RetryAfter time.Duration
	Limit      int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %s", e.RetryAfter.Round(time.Second))
}
