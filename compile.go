package mediator

import (
	"context"
	"iter"
	"reflect"
)

// Pipeline compilation builds the nested invocation chain for one
// dispatch: applicable middleware are selected and sorted, then wrapped
// around the terminal delegate from the inside out so that the lowest
// order value executes first (outermost). Chains are built fresh per
// dispatch because the terminal delegate closes over the request
// instance; selection and sorting over the small registry is cheap.

// compileRequest builds the request chain around terminal.
func (m *Mediator) compileRequest(requestType reflect.Type, request any, terminal Next) Next {
	sorted := m.requests.sortedFor(requestType, m.resolver)

	next := terminal
	for i := len(sorted) - 1; i >= 0; i-- {
		e := sorted[i]
		mw, ok := e.middleware.(Middleware)
		if !ok {
			continue
		}
		inner := next
		next = func(ctx context.Context) (any, error) {
			if c, ok := e.middleware.(Conditional); ok && !c.ShouldExecute(request) {
				return inner(ctx)
			}
			return mw.Execute(ctx, request, inner)
		}
	}
	return next
}

// compileStream builds the streaming chain around terminal. Each stage
// wraps the upstream lazy sequence; nothing executes until the caller
// ranges over the outermost sequence.
func (m *Mediator) compileStream(requestType reflect.Type, request any, terminal StreamNext) StreamNext {
	sorted := m.streams.sortedFor(requestType, m.resolver)

	next := terminal
	for i := len(sorted) - 1; i >= 0; i-- {
		e := sorted[i]
		mw, ok := e.middleware.(StreamMiddleware)
		if !ok {
			continue
		}
		inner := next
		next = func(ctx context.Context) iter.Seq2[any, error] {
			if c, ok := e.middleware.(Conditional); ok && !c.ShouldExecute(request) {
				return inner(ctx)
			}
			return mw.ExecuteStream(ctx, request, inner)
		}
	}
	return next
}

// compileNotification builds the notification chain around terminal.
// The terminal delegate delivers to every recipient, so each stage runs
// once per Publish.
func (m *Mediator) compileNotification(notificationType reflect.Type, notification any, terminal NotificationNext) NotificationNext {
	sorted := m.notifications.sortedFor(notificationType, m.resolver)

	next := terminal
	for i := len(sorted) - 1; i >= 0; i-- {
		e := sorted[i]
		mw, ok := e.middleware.(NotificationMiddleware)
		if !ok {
			continue
		}
		inner := next
		next = func(ctx context.Context) error {
			if c, ok := e.middleware.(Conditional); ok && !c.ShouldExecute(notification) {
				return inner(ctx)
			}
			return mw.ExecuteNotification(ctx, notification, inner)
		}
	}
	return next
}
