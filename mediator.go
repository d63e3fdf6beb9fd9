package mediator

import (
	"context"
	"reflect"
	"time"
)

// Mediator dispatches requests to their single handler and broadcasts
// notifications to every registered recipient, threading each dispatch
// through the applicable middleware pipeline.
//
// Usage:
//  1. Populate a Registry with handlers at startup
//  2. Create a mediator with New
//  3. Register middleware with Use, UseStream, UseNotification
//  4. Dispatch with Send, SendStream, and Publish
//
// Mediator is safe for concurrent dispatch after configuration. Do not
// call Use* after dispatch begins; Subscribe and Unsubscribe are safe at
// any time.
type Mediator struct {
	resolver      Resolver
	requests      *Pipeline
	streams       *Pipeline
	notifications *Pipeline
	subscribers   subscriberSet
	stats         *Stats
	hooks         hooks
}

// New creates a Mediator that resolves handlers through the given
// resolver.
//
// Example:
//
//	reg := mediator.NewRegistry()
//	mediator.RegisterHandler(reg, &GetUserHandler{db: db})
//
//	m := mediator.New(reg,
//	    mediator.WithOnFailure(func(ctx context.Context, request string, err error, d time.Duration) {
//	        logger.Error("dispatch failed", zap.String("request", request), zap.Error(err))
//	    }),
//	)
func New(resolver Resolver, opts ...Option) *Mediator {
	m := &Mediator{
		resolver:      resolver,
		requests:      newPipeline(),
		streams:       newPipeline(),
		notifications: newPipeline(),
		stats:         NewStats(),
	}
	m.subscribers.init()
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Use registers a request middleware. See Pipeline.Use for ordering.
func (m *Mediator) Use(middleware Middleware, opts ...MiddlewareOption) {
	m.requests.Use(middleware, opts...)
}

// UseStream registers a streaming middleware.
func (m *Mediator) UseStream(middleware StreamMiddleware, opts ...MiddlewareOption) {
	m.streams.Use(middleware, opts...)
}

// UseNotification registers a notification middleware.
func (m *Mediator) UseNotification(middleware NotificationMiddleware, opts ...MiddlewareOption) {
	m.notifications.Use(middleware, opts...)
}

// RequestPipeline returns the request middleware registrations, for
// diagnostics such as DetailedInfo.
func (m *Mediator) RequestPipeline() *Pipeline { return m.requests }

// StreamPipeline returns the streaming middleware registrations.
func (m *Mediator) StreamPipeline() *Pipeline { return m.streams }

// NotificationPipeline returns the notification middleware registrations.
func (m *Mediator) NotificationPipeline() *Pipeline { return m.notifications }

// Stats returns the dispatch statistics tracker.
func (m *Mediator) Stats() *Stats { return m.stats }

// Send dispatches a request to its handler and returns the response.
//
// The request's exact runtime type must resolve to exactly one handler:
// zero handlers fail with ErrHandlerNotFound, more than one with
// ErrAmbiguousHandlers, both detected at dispatch time. Handler and
// middleware errors propagate unchanged. A context cancelled before any
// work begins surfaces ctx.Err, not a handler failure.
//
// Prefer the generic Send function for a typed response.
func (m *Mediator) Send(ctx context.Context, request any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	requestType := reflect.TypeOf(request)
	name := requestName(requestType)
	m.stats.trackRequest(request, name)

	handler, err := m.bindRequest(requestType)
	if err != nil {
		return nil, err
	}

	chain := m.compileRequest(requestType, request, func(ctx context.Context) (any, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return handler.invoke(ctx, request)
	})

	ctx = m.hooks.callOnDispatch(ctx, name)
	start := time.Now()
	response, err := chain(ctx)
	duration := time.Since(start)

	if err != nil {
		m.hooks.callOnFailure(ctx, name, err, duration)
	} else {
		m.hooks.callOnSuccess(ctx, name, duration)
	}
	return response, err
}

// bindRequest enforces the single-handler invariant. Bindings are
// re-resolved on every dispatch so registry mutations stay visible.
func (m *Mediator) bindRequest(requestType reflect.Type) (requestInvoker, error) {
	var handlers []requestInvoker
	for _, instance := range m.resolver.ResolveAll(requestType) {
		if h, ok := instance.(requestInvoker); ok {
			handlers = append(handlers, h)
		}
	}
	switch len(handlers) {
	case 0:
		return nil, &HandlerNotFoundError{RequestType: requestType}
	case 1:
		return handlers[0], nil
	default:
		return nil, &AmbiguousHandlersError{RequestType: requestType, Count: len(handlers)}
	}
}

// Send dispatches a request and asserts the response to R.
//
// Example:
//
//	user, err := mediator.Send[*User](ctx, m, GetUserQuery{UserID: id})
func Send[R any](ctx context.Context, m *Mediator, request any) (R, error) {
	var zero R
	response, err := m.Send(ctx, request)
	if err != nil {
		return zero, err
	}
	if response == nil {
		return zero, nil
	}
	typed, ok := response.(R)
	if !ok {
		return zero, &ResponseTypeError{
			RequestType: reflect.TypeOf(request),
			Expected:    TypeOf[R](),
			Got:         reflect.TypeOf(response),
		}
	}
	return typed, nil
}
