package middleware

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/bjaus/mediator"
)

// RateLimit throttles dispatch through a shared token bucket. Waiting
// respects the dispatch context: a cancelled context surfaces ctx.Err
// instead of admitting the request.
type RateLimit struct {
	limiter *rate.Limiter
}

// NewRateLimit creates a rate-limiting stage admitting r requests per
// second with the given burst.
func NewRateLimit(r rate.Limit, burst int) *RateLimit {
	return &RateLimit{limiter: rate.NewLimiter(r, burst)}
}

// StaticOrder implements mediator.StaticOrderer.
func (*RateLimit) StaticOrder() int { return OrderRateLimit }

// Execute implements mediator.Middleware.
func (rl *RateLimit) Execute(ctx context.Context, request any, next mediator.Next) (any, error) {
	if err := rl.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return next(ctx)
}
