// Package mediator provides an in-process request/response and
// publish/subscribe dispatch engine with ordered middleware pipelines.
//
// Callers submit a typed request (query, command, or streaming request)
// or a typed notification; the mediator routes it through zero or more
// middleware stages to exactly the right recipients: a single handler
// for requests, every handler and subscriber for notifications.
//
// # Quick Start
//
// Define a request and its handler:
//
//	type GetUserQuery struct {
//	    UserID string
//	}
//
//	type GetUserHandler struct {
//	    db *sql.DB
//	}
//
//	func (h *GetUserHandler) Handle(ctx context.Context, q GetUserQuery) (*User, error) {
//	    return h.db.QueryUser(ctx, q.UserID)
//	}
//
// Populate a registry, create a mediator, and dispatch:
//
//	reg := mediator.NewRegistry()
//	mediator.RegisterHandler(reg, &GetUserHandler{db: db})
//
//	m := mediator.New(reg)
//
//	user, err := mediator.Send[*User](ctx, m, GetUserQuery{UserID: "42"})
//
// # Design Philosophy
//
// The package separates concerns into three layers:
//
//   - Registry: maps request and notification types to handler instances
//   - Mediator: binds types to handlers, compiles and drives pipelines
//   - Handlers: pure business logic with typed requests
//
// This separation allows:
//   - Exactly-one-handler enforcement for commands and queries
//   - Zero-to-many delivery for notifications
//   - Cross-cutting behavior via middleware instead of handler plumbing
//   - Easy testing with plain structs and function adapters
//
// # Requests and the Single-Handler Invariant
//
// A request type must resolve to exactly one handler at dispatch time.
// Zero handlers fail with ErrHandlerNotFound; more than one fail with
// ErrAmbiguousHandlers. Both are detected per dispatch, not at startup,
// so registry contents stay authoritative.
//
// # Middleware Pipelines
//
// Middleware wraps dispatch with cross-cutting behavior. Three pipeline
// kinds exist (requests, streaming requests, notifications), each an
// ordered registry on the mediator:
//
//	m.Use(&Logging{logger: logger})
//	m.Use(&Validation{}, mediator.WithOrder(10))
//	m.UseNotification(&Audit{})
//
// Execution order is discovered per middleware through a fixed
// precedence chain: a StaticOrder method on the type, then the order
// declared with WithOrder, then a non-zero instance Order method, and
// finally a per-pipeline fallback counter that preserves registration
// order. Lower order runs earlier (outermost): its before-code runs
// first and its after-code runs last.
//
// Middleware can narrow itself to certain request types with ForType or
// a TypeMatcher, and can skip individual requests by implementing
// Conditional: a false ShouldExecute is indistinguishable from the
// middleware never having been registered.
//
// # Streaming
//
// SendStream returns a lazy iter.Seq2 sequence. Nothing executes,
// not even handler binding, until the caller ranges over it, so
// binding errors surface at first consumption. Streaming middleware
// wraps the upstream sequence and may filter or fan out elements.
//
//	for row, err := range mediator.SendStream[Row](ctx, m, ExportQuery{Table: "users"}) {
//	    ...
//	}
//
// # Notifications
//
// Publish delivers a notification to every automatic handler registered
// for its type plus every live runtime subscriber, through the
// notification pipeline. Zero recipients is not an error. Subscribers
// are added and removed at runtime:
//
//	mediator.Subscribe[OrderShipped](m, auditLog)
//	defer mediator.Unsubscribe[OrderShipped](m, auditLog)
//
// InspectNotification classifies how a notification type is consumed
// (automatic handlers, manual subscribers, hybrid, or none) from the
// live state on every call.
//
// # Hooks and Statistics
//
// Hooks provide observability without coupling to specific logging or
// metrics systems:
//
//	m := mediator.New(reg,
//	    mediator.WithOnDispatch(func(ctx context.Context, request string) context.Context {
//	        return logx.WithCtx(ctx, slog.String("request", request))
//	    }),
//	    mediator.WithOnFailure(func(ctx context.Context, request string, err error, d time.Duration) {
//	        metrics.Incr("mediator.failure", "request:"+request)
//	    }),
//	)
//
// The mediator also tracks the distinct query, command, and notification
// type names it has seen; Stats exposes counts, a snapshot, and a
// line-based Report for external rendering.
//
// # Thread Safety
//
// Mediator is safe for concurrent dispatch after configuration is
// complete. Do not call Use, UseStream, UseNotification, or registry
// Register functions after dispatch begins. Subscribe and Unsubscribe
// are safe at any time; an in-flight Publish delivers to a
// point-in-time snapshot of the subscriber set.
package mediator
