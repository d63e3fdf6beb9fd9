package middleware

import (
	"context"
	"iter"
	"time"

	"go.uber.org/zap"

	"github.com/bjaus/mediator"
)

// Logging logs every dispatch with its outcome and duration. It serves
// all three pipeline kinds: requests, streams, and notifications.
type Logging struct {
	logger *zap.Logger
}

// NewLogging creates a logging stage backed by the given zap logger.
func NewLogging(logger *zap.Logger) *Logging {
	return &Logging{logger: logger}
}

// StaticOrder implements mediator.StaticOrderer.
func (*Logging) StaticOrder() int { return OrderLogging }

// Execute implements mediator.Middleware.
func (l *Logging) Execute(ctx context.Context, request any, next mediator.Next) (any, error) {
	name := requestName(request)
	start := time.Now()

	response, err := next(ctx)

	if err != nil {
		l.logger.Error("request failed",
			zap.String("request", name),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return response, err
	}
	l.logger.Info("request handled",
		zap.String("request", name),
		zap.Duration("duration", time.Since(start)),
	)
	return response, nil
}

// ExecuteStream implements mediator.StreamMiddleware. Elements pass
// through untouched; the element count and duration are logged once the
// sequence ends.
func (l *Logging) ExecuteStream(ctx context.Context, request any, next mediator.StreamNext) iter.Seq2[any, error] {
	name := requestName(request)

	return func(yield func(any, error) bool) {
		start := time.Now()
		elements := 0
		var failure error

		for v, err := range next(ctx) {
			if err != nil {
				failure = err
			} else {
				elements++
			}
			if !yield(v, err) {
				break
			}
		}

		if failure != nil {
			l.logger.Error("stream failed",
				zap.String("request", name),
				zap.Int("elements", elements),
				zap.Duration("duration", time.Since(start)),
				zap.Error(failure),
			)
			return
		}
		l.logger.Info("stream completed",
			zap.String("request", name),
			zap.Int("elements", elements),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

// ExecuteNotification implements mediator.NotificationMiddleware.
func (l *Logging) ExecuteNotification(ctx context.Context, notification any, next mediator.NotificationNext) error {
	name := requestName(notification)
	start := time.Now()

	err := next(ctx)

	if err != nil {
		l.logger.Error("notification delivery failed",
			zap.String("notification", name),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return err
	}
	l.logger.Info("notification delivered",
		zap.String("notification", name),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}
