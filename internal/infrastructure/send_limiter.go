package infrastructure

import (
	"context"

	"golang.org/x/time/rate"
)

// SendLimiter paces outbound chat calls so bursts of notifications stay
// under the platform's per-chat flood limits.
type SendLimiter struct {
	limiter *rate.Limiter
}

// NewSendLimiter allows perSecond calls with the given burst.
// perSecond <= 0 disables limiting.
func NewSendLimiter(perSecond float64, burst int) *SendLimiter {
	if perSecond <= 0 {
		return &SendLimiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	if burst < 1 {
		burst = 1
	}
	return &SendLimiter{limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Wait blocks until a send is allowed or ctx is done.
func (l *SendLimiter) Wait(ctx context.Context) error {
	if l == nil {
		return ctx.Err()
	}
	return l.limiter.Wait(ctx)
}
