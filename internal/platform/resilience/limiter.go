package resilience

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter spaces outbound calls to an upstream. A nil Limiter never waits.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter allows one call per interval with the given burst. A non-positive
// interval disables limiting.
func NewLimiter(interval time.Duration, burst int) *Limiter {
	if interval <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Every(interval), burst)}
}

func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil || l.limiter == nil {
		return nil
	}
	return l.limiter.Wait(ctx)
}
