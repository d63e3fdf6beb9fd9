package mediator

import (
	"context"
	"iter"
	"reflect"
)

// SendStream dispatches a streaming request and returns a lazy response
// sequence.
//
// Nothing executes at call time: handler binding, the single-handler
// invariant, and every middleware preamble run once the caller begins
// ranging over the sequence. This keeps the result composable with
// chained iterator operators before any work starts.
//
// The sequence stops after yielding an error. Cancelling ctx stops the
// upstream enumeration at the next element boundary.
//
// Prefer the generic SendStream function for a typed sequence.
func (m *Mediator) SendStream(ctx context.Context, request any) iter.Seq2[any, error] {
	requestType := reflect.TypeOf(request)
	name := requestName(requestType)
	m.stats.trackRequest(request, name)

	return func(yield func(any, error) bool) {
		if err := ctx.Err(); err != nil {
			yield(nil, err)
			return
		}

		handler, err := m.bindStream(requestType)
		if err != nil {
			yield(nil, err)
			return
		}

		chain := m.compileStream(requestType, request, func(ctx context.Context) iter.Seq2[any, error] {
			return func(yield func(any, error) bool) {
				for v, err := range handler.invokeStream(ctx, request) {
					if cerr := ctx.Err(); cerr != nil {
						yield(nil, cerr)
						return
					}
					if !yield(v, err) {
						return
					}
					if err != nil {
						return
					}
				}
			}
		})

		ctx = m.hooks.callOnDispatch(ctx, name)
		for v, err := range chain(ctx) {
			if !yield(v, err) {
				return
			}
			if err != nil {
				return
			}
		}
	}
}

// bindStream enforces the single-handler invariant for streaming
// requests.
func (m *Mediator) bindStream(requestType reflect.Type) (streamInvoker, error) {
	var handlers []streamInvoker
	for _, instance := range m.resolver.ResolveAll(requestType) {
		if h, ok := instance.(streamInvoker); ok {
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

// SendStream dispatches a streaming request and asserts each element
// to R.
//
// Example:
//
//	for row, err := range mediator.SendStream[Row](ctx, m, ExportQuery{Table: "users"}) {
//	    if err != nil {
//	        return err
//	    }
//	    write(row)
//	}
func SendStream[R any](ctx context.Context, m *Mediator, request any) iter.Seq2[R, error] {
	return func(yield func(R, error) bool) {
		var zero R
		for v, err := range m.SendStream(ctx, request) {
			if err != nil {
				yield(zero, err)
				return
			}
			typed, ok := v.(R)
			if !ok {
				yield(zero, &ResponseTypeError{
					RequestType: reflect.TypeOf(request),
					Expected:    TypeOf[R](),
					Got:         reflect.TypeOf(v),
				})
				return
			}
			if !yield(typed, nil) {
				return
			}
		}
	}
}
