package extract

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"fatoora/internal/port"
)

// circuitState tracks rate-limit backoff for a single provider.
type circuitState struct {
	mu      sync.RWMutex
	resetAt time.Time // zero value = closed (healthy)
}

func (c *circuitState) isOpenWithReset(now time.Time) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resetAt, !c.resetAt.IsZero() && now.Before(c.resetAt)
}

func (c *circuitState) open(resetAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetAt = resetAt
}

// Chain tries extraction providers in order, skipping those with open
// circuits. Each provider is invoked at most once per call; a failed
// provider is never re-invoked for the same document, only the next
// alternative is consulted. It implements port.InvoiceExtractor.
type Chain struct {
	extractors []port.InvoiceExtractor
	circuits   []*circuitState
	names      []string
}

// NewChain creates a Chain from an ordered list of extractors and their names.
func NewChain(extractors []port.InvoiceExtractor, names []string) *Chain {
	circuits := make([]*circuitState, len(extractors))
	for i := range circuits {
		circuits[i] = &circuitState{}
	}
	return &Chain{
		extractors: extractors,
		circuits:   circuits,
		names:      names,
	}
}

func (f *Chain) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	now := time.Now()
	var lastErr error
	allRateLimited := true
	var earliestReset time.Time

	for i, p := range f.extractors {
		if resetAt, open := f.circuits[i].isOpenWithReset(now); open {
			log.Warn().Str("provider", f.names[i]).Time("reset_at", resetAt).
				Msg("extract.Chain: skipping provider (circuit open)")
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
			continue
		}

		out, err := p.Extract(ctx, input)
		if err == nil {
			return out, nil
		}

		log.Warn().Str("provider", f.names[i]).Err(err).Msg("extract.Chain: provider failed")
		lastErr = err

		var rlErr *RateLimitError
		if errors.As(err, &rlErr) {
			resetAt := now.Add(rlErr.RetryAfter)
			f.circuits[i].open(resetAt)
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
		} else {
			allRateLimited = false
		}
	}

	if lastErr == nil || allRateLimited {
		retryAfter := time.Until(earliestReset)
		if retryAfter < 0 {
			retryAfter = time.Second
		}
		return nil, NewRateLimitError("all", fmt.Errorf("all providers rate limited"), int(retryAfter.Seconds()))
	}

	return nil, fmt.Errorf("all providers failed: %w", lastErr)
}
