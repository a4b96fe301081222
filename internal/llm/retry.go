package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/benbjohnson/clock"
)

// RetryProvider retries transient failures with capped exponential
// backoff. Invalid content gets one extra attempt; truncated replies are
// returned as is.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
	clk    clock.Clock
}

// WithRetry wraps p. A nil clk uses the wall clock.
func WithRetry(p Provider, cfg RetryConfig, clk clock.Clock) Provider {
	if clk == nil {
		clk = clock.New()
	}
	return &RetryProvider{inner: p, config: cfg, clk: clk}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	attempts := max(r.config.MaxAttempts, 1)
	retriedInvalid := false

	var lastErr error
	for attempt := range attempts {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, err
		}
		kind, _ := KindOf(err)
		switch {
		case kind.Transient():
		case kind == KindInvalid && !retriedInvalid:
			retriedInvalid = true
		default:
			return nil, err
		}

		if attempt == attempts-1 {
			break
		}

		timer := r.clk.Timer(r.backoff(attempt, err))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, lastErr
		case <-timer.C:
		}
	}
	return nil, lastErr
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// backoff returns the wait before attempt+1. A server Retry-After wins
// over the computed delay.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var e *Error
	if errors.As(err, &e) && e.RetryAfter > 0 {
		return e.RetryAfter
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	wait = math.Min(wait, float64(r.config.MaxWait))
	// ±20% jitter
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(math.Max(wait, 0))
}
