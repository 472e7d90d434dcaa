package transport

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter throttles outgoing requests. A nil inner limiter (rps <= 0)
// lets every request through.
type Limiter struct {
	limiter *rate.Limiter
	mu      sync.RWMutex
}

// NewLimiter creates a rate limiter with the specified requests per
// second. Burst equals one full second of requests, minimum 1.
func NewLimiter(rps float64) *Limiter {
	if rps <= 0 {
		return &Limiter{}
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Wait blocks until the request can proceed.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.limiter == nil {
		return nil
	}
	return l.limiter.Wait(ctx)
}

// Allow reports whether the request can proceed immediately.
func (l *Limiter) Allow() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.limiter == nil {
		return true
	}
	return l.limiter.Allow()
}

// SetLimit updates the rate limit.
func (l *Limiter) SetLimit(rps float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.limiter != nil {
		l.limiter.SetLimit(rate.Limit(rps))
	}
}
