package mediator

import (
	"reflect"
	"sort"
	"sync"
)

// Pipeline is an ordered collection of middleware registrations for one
// pipeline kind. Each Mediator owns three: requests, streaming requests,
// and notifications.
//
// Populate pipelines at startup, before dispatch begins. Registration is
// not guarded against concurrent dispatch.
type Pipeline struct {
	entries  []*middlewareEntry
	fallback int // next fallback order, shared across this pipeline

	// Applicability per request type is computed once at first dispatch.
	selection sync.Map // reflect.Type -> []*middlewareEntry
}

type middlewareEntry struct {
	typ        reflect.Type
	middleware any
	config     any

	declaredOrder int
	hasDeclared   bool
	exactType     reflect.Type // ForType restriction, nil = unrestricted

	// order is the cached value: static, declared, or fallback. The
	// instance tier is re-evaluated against a live instance at compile
	// time and in DetailedInfo.
	order int
}

// MiddlewareInfo describes one registration for diagnostics.
type MiddlewareInfo struct {
	Type   reflect.Type
	Order  int
	Config any
}

func newPipeline() *Pipeline {
	return &Pipeline{}
}

// Use registers a middleware. Execution order is discovered through the
// order strategy chain (see order.go); middleware without any declared
// order executes in registration order after all ordered middleware
// with lower values.
func (p *Pipeline) Use(middleware any, opts ...MiddlewareOption) {
	e := &middlewareEntry{
		typ:        reflect.TypeOf(middleware),
		middleware: middleware,
	}
	for _, opt := range opts {
		opt(e)
	}
	if order, ok := resolveCachedOrder(e); ok {
		e.order = order
	} else {
		p.fallback++
		e.order = p.fallback
	}
	p.entries = append(p.entries, e)
	p.selection.Clear()
}

// resolveCachedOrder covers the tiers available without instantiation.
func resolveCachedOrder(e *middlewareEntry) (int, bool) {
	if order, ok := staticOrder(e, nil); ok {
		return order, true
	}
	return declaredOrder(e, nil)
}

// Registered returns the middleware types in registration order.
func (p *Pipeline) Registered() []reflect.Type {
	types := make([]reflect.Type, len(p.entries))
	for i, e := range p.entries {
		types[i] = e.typ
	}
	return types
}

// Configurations returns each registration with its configuration value,
// in registration order.
func (p *Pipeline) Configurations() []MiddlewareInfo {
	infos := make([]MiddlewareInfo, len(p.entries))
	for i, e := range p.entries {
		infos[i] = MiddlewareInfo{Type: e.typ, Order: e.order, Config: e.config}
	}
	return infos
}

// DetailedInfo returns each registration with its resolved order. With a
// nil resolver, cached orders are reported. With a resolver, the
// instance-level order tier is re-evaluated per entry; any resolution
// failure falls back silently to the cached value, so diagnostics never
// fail the query.
func (p *Pipeline) DetailedInfo(r Resolver) []MiddlewareInfo {
	infos := make([]MiddlewareInfo, len(p.entries))
	for i, e := range p.entries {
		order := e.order
		if r != nil {
			if resolved, ok := resolveOrder(e, r); ok {
				order = resolved
			}
		}
		infos[i] = MiddlewareInfo{Type: e.typ, Order: order, Config: e.config}
	}
	return infos
}

// selectFor returns the entries applicable to a request type, in
// registration order. The match is cached per distinct type.
func (p *Pipeline) selectFor(requestType reflect.Type) []*middlewareEntry {
	if cached, ok := p.selection.Load(requestType); ok {
		return cached.([]*middlewareEntry)
	}

	var selected []*middlewareEntry
	for _, e := range p.entries {
		if e.appliesTo(requestType) {
			selected = append(selected, e)
		}
	}

	actual, _ := p.selection.LoadOrStore(requestType, selected)
	return actual.([]*middlewareEntry)
}

func (e *middlewareEntry) appliesTo(requestType reflect.Type) bool {
	if e.exactType != nil {
		return e.exactType == requestType
	}
	if m, ok := e.middleware.(TypeMatcher); ok {
		return m.AppliesTo(requestType)
	}
	return true
}

// sortedFor returns the applicable entries sorted by resolved order
// ascending, preserving registration order on ties.
func (p *Pipeline) sortedFor(requestType reflect.Type, r Resolver) []*middlewareEntry {
	selected := p.selectFor(requestType)
	if len(selected) < 2 {
		return selected
	}

	sorted := make([]*middlewareEntry, len(selected))
	copy(sorted, selected)

	orders := make(map[*middlewareEntry]int, len(sorted))
	for _, e := range sorted {
		if order, ok := resolveOrder(e, r); ok {
			orders[e] = order
		} else {
			orders[e] = e.order
		}
	}

	// Stable sort preserves registration order among equal order keys.
	sort.SliceStable(sorted, func(i, j int) bool {
		return orders[sorted[i]] < orders[sorted[j]]
	})
	return sorted
}
