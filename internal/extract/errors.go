package extract

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// defaultRetryAfter is assumed when a 429 carries no usable Retry-After.
const defaultRetryAfter = 60 * time.Second

// RateLimitError signals that a provider refused the request with HTTP
// 429. RetryAfter tells the fallback chain how long to keep the
// provider's circuit open.
type RateLimitError struct {
	Provider   string
	RetryAfter time.Duration
	Err        error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited (retry after %s): %v", e.Provider, e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// NewRateLimitError wraps a 429 from the named provider. A non-positive
// retryAfterSecs falls back to defaultRetryAfter.
func NewRateLimitError(provider string, err error, retryAfterSecs int) *RateLimitError {
	retryAfter := defaultRetryAfter
	if retryAfterSecs > 0 {
		retryAfter = time.Duration(retryAfterSecs) * time.Second
	}
	return &RateLimitError{
		Provider:   provider,
		RetryAfter: retryAfter,
		Err:        err,
	}
}

// ParseRetryAfterHeader reads a Retry-After header as whole seconds.
// Empty, malformed, or HTTP-date values yield 0, which lets the caller
// apply its own default.
func ParseRetryAfterHeader(val string) int {
	secs, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil || secs < 0 {
		return 0
	}
	return secs
}
