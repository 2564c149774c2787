// ABOUTME: Exponential backoff with jitter for OpenAI call retries
// ABOUTME: Used between embedding and generation attempts
package llm

import (
	"math/rand/v2"
	"time"
)

// retryBackoff returns the delay before the given retry attempt.
// The base delay doubles each attempt, capped at 30 seconds, with
// random jitter of up to ±25% so concurrent retries spread out.
func retryBackoff(baseDelay time.Duration, attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	// Cap attempt to avoid overflow in the bit shift
	if attempt > 30 {
		attempt = 30
	}
	backoff := baseDelay * time.Duration(1<<uint(attempt))
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(backoff)/2)) - backoff/4
	return backoff + jitter
}
