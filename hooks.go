package mediator

import (
	"context"
	"time"
)

// OnDispatchFunc is called just before a request pipeline executes.
// Use this to enrich the context with logging fields or trace spans.
// The returned context is used for the rest of the dispatch.
type OnDispatchFunc func(ctx context.Context, request string) context.Context

// OnSuccessFunc is called after a request pipeline completes successfully.
type OnSuccessFunc func(ctx context.Context, request string, duration time.Duration)

// OnFailureFunc is called after a request pipeline fails.
type OnFailureFunc func(ctx context.Context, request string, err error, duration time.Duration)

// OnPublishFunc is called when a notification is published, before
// delivery begins. recipients is the size of the delivery snapshot,
// handlers and subscribers combined.
type OnPublishFunc func(ctx context.Context, notification string, recipients int)

// OnSubscribeFunc is called after a runtime subscriber is added.
type OnSubscribeFunc func(notification string)

// OnUnsubscribeFunc is called after a runtime subscriber is removed.
// It does not fire for no-op unsubscribes.
type OnUnsubscribeFunc func(notification string)

// hooks holds all configured hook functions.
type hooks struct {
	onDispatch    []OnDispatchFunc
	onSuccess     []OnSuccessFunc
	onFailure     []OnFailureFunc
	onPublish     []OnPublishFunc
	onSubscribe   []OnSubscribeFunc
	onUnsubscribe []OnUnsubscribeFunc
}

// Option configures a Mediator.
type Option func(*Mediator)

// WithStats replaces the mediator's statistics tracker, e.g. to share
// one tracker across several mediators.
func WithStats(s *Stats) Option {
	return func(m *Mediator) {
		m.stats = s
	}
}

// WithOnDispatch adds a hook called just before a request pipeline
// executes. Multiple hooks are called in order, with context chaining
// through each.
//
// Example:
//
//	mediator.WithOnDispatch(func(ctx context.Context, request string) context.Context {
//	    return logx.WithCtx(ctx, slog.String("request", request))
//	})
func WithOnDispatch(fn OnDispatchFunc) Option {
	return func(m *Mediator) {
		m.hooks.onDispatch = append(m.hooks.onDispatch, fn)
	}
}

// WithOnSuccess adds a hook called after a request completes
// successfully. Multiple hooks are called in order.
//
// Example:
//
//	mediator.WithOnSuccess(func(ctx context.Context, request string, d time.Duration) {
//	    metrics.Timing("mediator.success", d, "request:"+request)
//	})
func WithOnSuccess(fn OnSuccessFunc) Option {
	return func(m *Mediator) {
		m.hooks.onSuccess = append(m.hooks.onSuccess, fn)
	}
}

// WithOnFailure adds a hook called after a request fails. Multiple
// hooks are called in order.
//
// Example:
//
//	mediator.WithOnFailure(func(ctx context.Context, request string, err error, d time.Duration) {
//	    logger.Error("dispatch failed", zap.String("request", request), zap.Error(err))
//	})
func WithOnFailure(fn OnFailureFunc) Option {
	return func(m *Mediator) {
		m.hooks.onFailure = append(m.hooks.onFailure, fn)
	}
}

// WithOnPublish adds a hook called when a notification is published.
// Multiple hooks are called in order.
func WithOnPublish(fn OnPublishFunc) Option {
	return func(m *Mediator) {
		m.hooks.onPublish = append(m.hooks.onPublish, fn)
	}
}

// WithOnSubscribe adds a hook called after a runtime subscriber is
// added.
func WithOnSubscribe(fn OnSubscribeFunc) Option {
	return func(m *Mediator) {
		m.hooks.onSubscribe = append(m.hooks.onSubscribe, fn)
	}
}

// WithOnUnsubscribe adds a hook called after a runtime subscriber is
// removed.
func WithOnUnsubscribe(fn OnUnsubscribeFunc) Option {
	return func(m *Mediator) {
		m.hooks.onUnsubscribe = append(m.hooks.onUnsubscribe, fn)
	}
}

func (h *hooks) callOnDispatch(ctx context.Context, request string) context.Context {
	for _, fn := range h.onDispatch {
		ctx = fn(ctx, request)
	}
	return ctx
}

func (h *hooks) callOnSuccess(ctx context.Context, request string, duration time.Duration) {
	for _, fn := range h.onSuccess {
		fn(ctx, request, duration)
	}
}

func (h *hooks) callOnFailure(ctx context.Context, request string, err error, duration time.Duration) {
	for _, fn := range h.onFailure {
		fn(ctx, request, err, duration)
	}
}

func (h *hooks) callOnPublish(ctx context.Context, notification string, recipients int) {
	for _, fn := range h.onPublish {
		fn(ctx, notification, recipients)
	}
}

func (h *hooks) callOnSubscribe(notification string) {
	for _, fn := range h.onSubscribe {
		fn(notification)
	}
}

func (h *hooks) callOnUnsubscribe(notification string) {
	for _, fn := range h.onUnsubscribe {
		fn(notification)
	}
}
