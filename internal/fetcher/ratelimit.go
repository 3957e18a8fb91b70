package fetcher

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter caps the outbound request rate shared by all workers of a run.
// A nil *Limiter never blocks, so callers can hold one unconditionally.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates a limiter allowing rps requests per second. Returns
// nil when rps is zero or negative, which disables limiting. Burst is 1:
// requests are spaced evenly rather than allowed in bursts.
func NewLimiter(rps float64) *Limiter {
	if rps <= 0 {
		return nil
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(rps), 1)}
}

// Wait blocks until the next request may proceed or ctx is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}
	return l.limiter.Wait(ctx)
}
