package mediator

import (
	"context"
	"iter"
	"reflect"
	"sync"
)

// Resolver is the boundary with the service registry. The mediator
// re-resolves handler bindings on every dispatch so that registry
// mutations are always visible; it never caches bindings.
//
// ResolveOne is used for middleware order discovery: when a middleware
// type exposes an instance-level order, the mediator asks the resolver
// for an instance of that type. A false return skips instance-level
// discovery without error.
type Resolver interface {
	// ResolveOne returns a single instance of the given type, or false
	// if the type is not registered or cannot be constructed.
	ResolveOne(t reflect.Type) (any, bool)

	// ResolveAll returns every instance registered for the given type,
	// in registration order. An unknown type yields an empty slice.
	ResolveAll(t reflect.Type) []any
}

// Registry is the default in-memory Resolver. Populate it once at
// startup with the Register* functions, then hand it to New. Reads are
// safe for concurrent use during dispatch; registration is expected to
// finish before dispatch begins.
type Registry struct {
	mu       sync.RWMutex
	services map[reflect.Type][]any
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{services: make(map[reflect.Type][]any)}
}

// Provide registers an instance under an explicit type key. The typed
// Register* functions are preferred; Provide exists for wiring code that
// works with reflect.Type directly (e.g. middleware instances for
// order discovery).
func (r *Registry) Provide(t reflect.Type, instance any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.services[t] = append(r.services[t], instance)
}

// ResolveOne implements Resolver. It returns the first instance
// registered for t.
func (r *Registry) ResolveOne(t reflect.Type) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	instances := r.services[t]
	if len(instances) == 0 {
		return nil, false
	}
	return instances[0], true
}

// ResolveAll implements Resolver.
func (r *Registry) ResolveAll(t reflect.Type) []any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	instances := r.services[t]
	out := make([]any, len(instances))
	copy(out, instances)
	return out
}

// TypeOf returns the reflect.Type for T without allocating a value.
// Useful with Provide, InspectNotification, and middleware type queries.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// requestInvoker is the erased form of Handler stored in a registry.
type requestInvoker interface {
	invoke(ctx context.Context, request any) (any, error)
}

// streamInvoker is the erased form of StreamHandler.
type streamInvoker interface {
	invokeStream(ctx context.Context, request any) iter.Seq2[any, error]
}

// notificationInvoker is the erased form of NotificationHandler. It is
// shared by registry-discovered handlers and runtime subscribers.
type notificationInvoker interface {
	invokeNotification(ctx context.Context, notification any) error
}

type requestAdapter[T, R any] struct {
	handler Handler[T, R]
}

func (a requestAdapter[T, R]) invoke(ctx context.Context, request any) (any, error) {
	return a.handler.Handle(ctx, request.(T))
}

type streamAdapter[T, R any] struct {
	handler StreamHandler[T, R]
}

func (a streamAdapter[T, R]) invokeStream(ctx context.Context, request any) iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		for v, err := range a.handler.Handle(ctx, request.(T)) {
			if !yield(v, err) {
				return
			}
		}
	}
}

type notificationAdapter[T any] struct {
	handler NotificationHandler[T]
}

func (a notificationAdapter[T]) invokeNotification(ctx context.Context, notification any) error {
	return a.handler.Handle(ctx, notification.(T))
}

// RegisterHandler binds a request handler to the exact request type T.
// Registering more than one handler for the same type is not rejected
// here; Send reports ErrAmbiguousHandlers at dispatch time.
//
// This is a package-level function (not a method) due to Go generics
// limitations: methods cannot have type parameters independent of the
// receiver.
//
// Example:
//
//	mediator.RegisterHandler(reg, &GetUserHandler{db: db})
func RegisterHandler[T, R any](r *Registry, h Handler[T, R]) {
	r.Provide(TypeOf[T](), requestAdapter[T, R]{handler: h})
}

// RegisterHandlerFunc is a convenience function for registering a
// handler function.
func RegisterHandlerFunc[T, R any](r *Registry, fn func(ctx context.Context, request T) (R, error)) {
	RegisterHandler(r, HandlerFunc[T, R](fn))
}

// RegisterStreamHandler binds a streaming handler to the exact request
// type T. The single-handler invariant applies to streaming requests the
// same way it applies to Send.
func RegisterStreamHandler[T, R any](r *Registry, h StreamHandler[T, R]) {
	r.Provide(TypeOf[T](), streamAdapter[T, R]{handler: h})
}

// RegisterStreamHandlerFunc is a convenience function for registering a
// streaming handler function.
func RegisterStreamHandlerFunc[T, R any](r *Registry, fn func(ctx context.Context, request T) iter.Seq2[R, error]) {
	RegisterStreamHandler(r, StreamHandlerFunc[T, R](fn))
}

// RegisterNotificationHandler binds a notification handler to the
// notification type T. Any number of handlers may share a type.
func RegisterNotificationHandler[T any](r *Registry, h NotificationHandler[T]) {
	r.Provide(TypeOf[T](), notificationAdapter[T]{handler: h})
}

// RegisterNotificationHandlerFunc is a convenience function for
// registering a notification handler function.
func RegisterNotificationHandlerFunc[T any](r *Registry, fn func(ctx context.Context, notification T) error) {
	RegisterNotificationHandler(r, NotificationHandlerFunc[T](fn))
}
