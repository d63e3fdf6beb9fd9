package mediator

import (
	"context"
	"iter"
)

// Handler processes a request and returns a typed response.
// Use this for queries and commands; each request type is bound to
// exactly one handler at dispatch time.
//
// The type parameters are: T for the request, R for the response.
//
// Example:
//
//	type GetUserHandler struct {
//	    db *sql.DB
//	}
//
//	func (h *GetUserHandler) Handle(ctx context.Context, q GetUserQuery) (*User, error) {
//	    return h.db.QueryUser(ctx, q.UserID)
//	}
type Handler[T, R any] interface {
	Handle(ctx context.Context, request T) (R, error)
}

// HandlerFunc is a function adapter for Handler. Use for simple handlers
// that don't need a struct:
//
//	mediator.RegisterHandlerFunc(reg, func(ctx context.Context, q PingQuery) (string, error) {
//	    return "pong", nil
//	})
type HandlerFunc[T, R any] func(ctx context.Context, request T) (R, error)

// Handle implements the Handler interface.
func (f HandlerFunc[T, R]) Handle(ctx context.Context, request T) (R, error) {
	return f(ctx, request)
}

// StreamHandler processes a request and produces a lazy sequence of
// responses. The sequence is not evaluated until the caller ranges over
// it, which keeps SendStream composable with chained iterator operators.
//
// Example:
//
//	type ExportHandler struct {
//	    store *RowStore
//	}
//
//	func (h *ExportHandler) Handle(ctx context.Context, req ExportQuery) iter.Seq2[Row, error] {
//	    return func(yield func(Row, error) bool) {
//	        for _, row := range h.store.Rows(req.Table) {
//	            if !yield(row, nil) {
//	                return
//	            }
//	        }
//	    }
//	}
type StreamHandler[T, R any] interface {
	Handle(ctx context.Context, request T) iter.Seq2[R, error]
}

// StreamHandlerFunc is a function adapter for StreamHandler.
type StreamHandlerFunc[T, R any] func(ctx context.Context, request T) iter.Seq2[R, error]

// Handle implements the StreamHandler interface.
func (f StreamHandlerFunc[T, R]) Handle(ctx context.Context, request T) iter.Seq2[R, error] {
	return f(ctx, request)
}

// NotificationHandler processes a broadcast notification. Unlike request
// handlers, any number of notification handlers may be registered for the
// same notification type; Publish delivers to all of them.
type NotificationHandler[T any] interface {
	Handle(ctx context.Context, notification T) error
}

// NotificationHandlerFunc is a function adapter for NotificationHandler.
type NotificationHandlerFunc[T any] func(ctx context.Context, notification T) error

// Handle implements the NotificationHandler interface.
func (f NotificationHandlerFunc[T]) Handle(ctx context.Context, notification T) error {
	return f(ctx, notification)
}

// Query marks a request as a query for statistics classification.
// Embed it in request structs whose names don't end in "Query":
//
//	type FetchActiveUsers struct {
//	    mediator.Query
//	    Limit int
//	}
type Query struct{}

func (Query) requestKind() requestKind { return kindQuery }

// Command marks a request as a command for statistics classification.
// Embed it in request structs whose names don't end in "Command".
type Command struct{}

func (Command) requestKind() requestKind { return kindCommand }

type requestKind int

const (
	kindUnknown requestKind = iota
	kindQuery
	kindCommand
)

type kinded interface {
	requestKind() requestKind
}
