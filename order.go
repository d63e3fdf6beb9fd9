package mediator

import "reflect"

// Order discovery runs a fixed strategy chain; the first strategy that
// produces a value wins:
//
//  1. StaticOrder() on a zero value of the middleware type.
//  2. The order declared with WithOrder at registration.
//  3. Order() on a live instance, counted only when non-zero. The
//     instance comes from the resolver when one is supplied, otherwise
//     the registered instance is used. Resolution failure skips the
//     tier silently.
//  4. A fallback counter shared per pipeline: the first middleware
//     lacking tiers 1-3 gets 1, the second 2, and so on in
//     registration order.
//
// Type-level and declared orders are resolvable without construction, so
// they are safe for startup analysis; the instance tier supports orders
// computed from configuration at runtime.

type orderStrategy func(e *middlewareEntry, r Resolver) (int, bool)

var orderStrategies = []orderStrategy{
	staticOrder,
	declaredOrder,
	instanceOrder,
}

// resolveOrder returns the order for an entry, or false if only the
// fallback tier remains.
func resolveOrder(e *middlewareEntry, r Resolver) (int, bool) {
	for _, strategy := range orderStrategies {
		if order, ok := strategy(e, r); ok {
			return order, true
		}
	}
	return 0, false
}

// staticOrder reads StaticOrder from a fresh zero value so the result
// cannot depend on the registered instance's state.
func staticOrder(e *middlewareEntry, _ Resolver) (int, bool) {
	t := e.typ
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	zero := reflect.New(t)
	if s, ok := zero.Interface().(StaticOrderer); ok {
		return s.StaticOrder(), true
	}
	if s, ok := zero.Elem().Interface().(StaticOrderer); ok {
		return s.StaticOrder(), true
	}
	return 0, false
}

func declaredOrder(e *middlewareEntry, _ Resolver) (int, bool) {
	if e.hasDeclared {
		return e.declaredOrder, true
	}
	return 0, false
}

// instanceOrder consults Order() on a live instance: a resolver-built
// one when the resolver knows the middleware type, otherwise the
// registered instance. Zero is treated as unset so that partially
// configured middleware falls back cleanly.
func instanceOrder(e *middlewareEntry, r Resolver) (int, bool) {
	instance := e.middleware
	if r != nil {
		if resolved, ok := r.ResolveOne(e.typ); ok {
			instance = resolved
		}
	}
	o, ok := instance.(Orderer)
	if !ok {
		return 0, false
	}
	if order := o.Order(); order != 0 {
		return order, true
	}
	return 0, false
}
