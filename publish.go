package mediator

import (
	"context"
	"errors"
	"reflect"
	"sync"
)

// Publish broadcasts a notification to every recipient registered for
// its runtime type: automatic handlers discovered through the resolver
// plus subscribers added at runtime with Subscribe.
//
// Zero recipients is not an error; the call completes trivially.
// Recipients are delivered in order (handlers first, then subscribers
// in subscription order) through the compiled notification pipeline.
// Per-recipient errors are collected with errors.Join so one failing
// recipient does not starve the rest.
//
// Delivery uses a point-in-time snapshot of the subscriber set, so an
// Unsubscribe during an in-flight Publish does not affect that
// delivery.
func (m *Mediator) Publish(ctx context.Context, notification any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	notificationType := reflect.TypeOf(notification)
	name := requestName(notificationType)
	m.stats.TrackNotification(name)

	recipients := m.bindNotification(notificationType)
	m.hooks.callOnPublish(ctx, name, len(recipients))
	if len(recipients) == 0 {
		return nil
	}

	chain := m.compileNotification(notificationType, notification, func(ctx context.Context) error {
		var errs []error
		for _, recipient := range recipients {
			if err := ctx.Err(); err != nil {
				errs = append(errs, err)
				break
			}
			if err := recipient.invokeNotification(ctx, notification); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})

	return chain(ctx)
}

// bindNotification gathers automatic handlers plus the current
// subscriber snapshot.
func (m *Mediator) bindNotification(notificationType reflect.Type) []notificationInvoker {
	var recipients []notificationInvoker
	for _, instance := range m.resolver.ResolveAll(notificationType) {
		if h, ok := instance.(notificationInvoker); ok {
			recipients = append(recipients, h)
		}
	}
	for _, s := range m.subscribers.snapshot(notificationType) {
		recipients = append(recipients, s)
	}
	return recipients
}

// Subscribe adds a runtime subscriber for the notification type T.
// Unlike registry handlers, subscribers come and go while dispatch is
// live; add and remove are safe for concurrent use.
//
// Example:
//
//	sub := &AuditLog{}
//	mediator.Subscribe[OrderShipped](m, sub)
//	defer mediator.Unsubscribe[OrderShipped](m, sub)
func Subscribe[T any](m *Mediator, handler NotificationHandler[T]) {
	t := TypeOf[T]()
	m.subscribers.add(t, handler, notificationAdapter[T]{handler: handler})
	m.hooks.callOnSubscribe(requestName(t))
}

// Unsubscribe removes a runtime subscriber previously added with
// Subscribe. Removing a subscriber that was never added is a no-op.
func Unsubscribe[T any](m *Mediator, handler NotificationHandler[T]) {
	t := TypeOf[T]()
	if m.subscribers.remove(t, handler) {
		m.hooks.callOnUnsubscribe(requestName(t))
	}
}

// subscriberSet is the live runtime subscriber collection, keyed by
// notification type. Slices are copy-on-write: snapshot returns the
// current slice without copying, and mutation replaces it, so an
// in-flight Publish keeps a stable view.
type subscriberSet struct {
	mu     sync.Mutex
	byType map[reflect.Type][]subscriberEntry
}

type subscriberEntry struct {
	key     any // the handler value itself, for identity on remove
	invoker notificationInvoker
}

func (s *subscriberSet) init() {
	s.byType = make(map[reflect.Type][]subscriberEntry)
}

func (s *subscriberSet) add(t reflect.Type, key any, invoker notificationInvoker) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.byType[t]
	updated := make([]subscriberEntry, len(current), len(current)+1)
	copy(updated, current)
	s.byType[t] = append(updated, subscriberEntry{key: key, invoker: invoker})
}

func (s *subscriberSet) remove(t reflect.Type, key any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	keyType := reflect.TypeOf(key)
	if keyType == nil || !keyType.Comparable() {
		return false
	}

	current := s.byType[t]
	for i, entry := range current {
		if reflect.TypeOf(entry.key) == keyType && entry.key == key {
			updated := make([]subscriberEntry, 0, len(current)-1)
			updated = append(updated, current[:i]...)
			updated = append(updated, current[i+1:]...)
			s.byType[t] = updated
			return true
		}
	}
	return false
}

func (s *subscriberSet) snapshot(t reflect.Type) []notificationInvoker {
	s.mu.Lock()
	current := s.byType[t]
	s.mu.Unlock()

	if len(current) == 0 {
		return nil
	}
	out := make([]notificationInvoker, len(current))
	for i := range current {
		out[i] = current[i].invoker
	}
	return out
}

func (s *subscriberSet) count(t reflect.Type) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byType[t])
}
