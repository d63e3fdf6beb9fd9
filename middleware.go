package mediator

import (
	"context"
	"iter"
	"reflect"
)

// Next invokes the rest of a request pipeline: the remaining middleware
// stages and finally the handler.
type Next func(ctx context.Context) (any, error)

// StreamNext invokes the rest of a streaming pipeline. The returned
// sequence is lazy; nothing upstream runs until it is ranged over.
type StreamNext func(ctx context.Context) iter.Seq2[any, error]

// NotificationNext invokes the rest of a notification pipeline: the
// remaining middleware stages and finally every recipient.
type NotificationNext func(ctx context.Context) error

// Middleware wraps request execution with cross-cutting behavior.
// Examples: logging, metrics, validation, rate limiting.
//
// A middleware applies to every request type unless it is narrowed with
// ForType at registration or implements TypeMatcher.
//
// Example:
//
//	type timing struct{}
//
//	func (timing) Execute(ctx context.Context, req any, next mediator.Next) (any, error) {
//	    start := time.Now()
//	    resp, err := next(ctx)
//	    log.Printf("%T took %s", req, time.Since(start))
//	    return resp, err
//	}
type Middleware interface {
	Execute(ctx context.Context, request any, next Next) (any, error)
}

// MiddlewareFunc is a function adapter for Middleware.
type MiddlewareFunc func(ctx context.Context, request any, next Next) (any, error)

// Execute implements the Middleware interface.
func (f MiddlewareFunc) Execute(ctx context.Context, request any, next Next) (any, error) {
	return f(ctx, request, next)
}

// StreamMiddleware wraps a streaming pipeline stage. A stage consumes
// the upstream sequence element by element and may yield zero or more
// elements per upstream element, enabling filtering and fan-out.
type StreamMiddleware interface {
	ExecuteStream(ctx context.Context, request any, next StreamNext) iter.Seq2[any, error]
}

// StreamMiddlewareFunc is a function adapter for StreamMiddleware.
type StreamMiddlewareFunc func(ctx context.Context, request any, next StreamNext) iter.Seq2[any, error]

// ExecuteStream implements the StreamMiddleware interface.
func (f StreamMiddlewareFunc) ExecuteStream(ctx context.Context, request any, next StreamNext) iter.Seq2[any, error] {
	return f(ctx, request, next)
}

// NotificationMiddleware wraps notification delivery. The next delegate
// covers every recipient of the notification, so a stage runs once per
// Publish, not once per recipient.
type NotificationMiddleware interface {
	ExecuteNotification(ctx context.Context, notification any, next NotificationNext) error
}

// NotificationMiddlewareFunc is a function adapter for NotificationMiddleware.
type NotificationMiddlewareFunc func(ctx context.Context, notification any, next NotificationNext) error

// ExecuteNotification implements the NotificationMiddleware interface.
func (f NotificationMiddlewareFunc) ExecuteNotification(ctx context.Context, notification any, next NotificationNext) error {
	return f(ctx, notification, next)
}

// Conditional gates a middleware per request. The predicate runs at
// invocation time against the live request instance; when it returns
// false the stage is skipped transparently, indistinguishable from the
// middleware never having been registered.
type Conditional interface {
	ShouldExecute(request any) bool
}

// TypeMatcher narrows a middleware to a subset of request types. The
// predicate is evaluated once per distinct request type at first
// dispatch and cached. Middleware without a TypeMatcher (and without a
// ForType restriction) applies to all request types.
type TypeMatcher interface {
	AppliesTo(requestType reflect.Type) bool
}

// StaticOrderer declares a type-level execution order: the value must
// not depend on instance state. It is read from a zero value of the
// middleware type, so it is always available without the resolver.
// Lower order runs earlier (outermost).
type StaticOrderer interface {
	StaticOrder() int
}

// Orderer declares an instance-level execution order, for order values
// computed from configuration or runtime state. A zero value is
// indistinguishable from "unset" and is treated as absent.
type Orderer interface {
	Order() int
}

// MiddlewareOption configures a middleware registration.
type MiddlewareOption func(*middlewareEntry)

// WithOrder declares the middleware's execution order at registration
// time. It is overridden by a StaticOrderer on the middleware type and
// overrides instance-level Order discovery.
func WithOrder(order int) MiddlewareOption {
	return func(e *middlewareEntry) {
		e.declaredOrder = order
		e.hasDeclared = true
	}
}

// WithConfig attaches an opaque configuration value to the registration.
// The mediator never interprets it; it is reported back verbatim by
// Pipeline.Configurations and Pipeline.DetailedInfo.
func WithConfig(config any) MiddlewareOption {
	return func(e *middlewareEntry) {
		e.config = config
	}
}

// ForType restricts the middleware to the exact request type T. It takes
// precedence over a TypeMatcher on the middleware type.
func ForType[T any]() MiddlewareOption {
	t := TypeOf[T]()
	return func(e *middlewareEntry) {
		e.exactType = t
	}
}
