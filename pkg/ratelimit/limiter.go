package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter defines the interface for rate limiting
type Limiter interface {
	// Wait blocks until a request is allowed or ctx is done
	Wait(ctx context.Context) error
	// Backoff pauses all callers for d, typically after a throttling error
	Backoff(d time.Duration)
}

// TokenBucket implements Limiter on top of rate.Limiter
type TokenBucket struct {
	mu       sync.Mutex
	bucket   *rate.Limiter
	pausedTo time.Time
	now      func() time.Time
}

// NewTokenBucket allows perSecond requests per second with the given burst.
// A non-positive rate disables proactive throttling.
func NewTokenBucket(perSecond float64, burst int) *TokenBucket {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	return &TokenBucket{
		bucket: rate.NewLimiter(limit, burst),
		now:    time.Now,
	}
}

// Wait blocks until a token is available and any backoff has elapsed
func (tb *TokenBucket) Wait(ctx context.Context) error {
	if d := tb.pause(); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return tb.bucket.Wait(ctx)
}

// Backoff extends the pause window to at least now+d
func (tb *TokenBucket) Backoff(d time.Duration) {
	if d <= 0 {
		return
	}
	tb.mu.Lock()
	defer tb.mu.Unlock()
	until := tb.now().Add(d)
	if until.After(tb.pausedTo) {
		tb.pausedTo = until
	}
}

// pause returns how long callers still have to hold off
func (tb *TokenBucket) pause() time.Duration {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.pausedTo.Sub(tb.now())
}
