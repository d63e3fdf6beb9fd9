package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/bjaus/mediator"
)

type correlationKey struct{}

// CorrelationID returns the correlation ID placed in the context by the
// Correlation stage, or false if none is set.
func CorrelationID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(correlationKey{}).(string)
	return id, ok
}

// WithCorrelationID returns a context carrying the given correlation
// ID. Use it to propagate an ID from an outer system before dispatch.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// Correlation assigns a correlation ID to each dispatch that doesn't
// already carry one. It runs outermost so every downstream stage and
// the handler see the same ID.
type Correlation struct{}

// NewCorrelation creates a correlation stage.
func NewCorrelation() *Correlation { return &Correlation{} }

// StaticOrder implements mediator.StaticOrderer.
func (*Correlation) StaticOrder() int { return OrderCorrelation }

// Execute implements mediator.Middleware.
func (*Correlation) Execute(ctx context.Context, request any, next mediator.Next) (any, error) {
	if _, ok := CorrelationID(ctx); !ok {
		ctx = WithCorrelationID(ctx, uuid.NewString())
	}
	return next(ctx)
}

// ExecuteNotification implements mediator.NotificationMiddleware.
func (*Correlation) ExecuteNotification(ctx context.Context, notification any, next mediator.NotificationNext) error {
	if _, ok := CorrelationID(ctx); !ok {
		ctx = WithCorrelationID(ctx, uuid.NewString())
	}
	return next(ctx)
}
