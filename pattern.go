package mediator

import "reflect"

// NotificationPattern classifies how a notification type is consumed:
// by automatic handlers discovered through the resolver, by runtime
// subscribers, both, or neither.
type NotificationPattern int

const (
	// PatternNone means no recipient of any kind is registered.
	PatternNone NotificationPattern = iota

	// PatternAutomaticHandlers means only resolver-discovered handlers
	// receive the notification.
	PatternAutomaticHandlers

	// PatternManualSubscribers means only runtime subscribers receive
	// the notification.
	PatternManualSubscribers

	// PatternHybrid means both handlers and subscribers are registered.
	PatternHybrid
)

func (p NotificationPattern) String() string {
	switch p {
	case PatternAutomaticHandlers:
		return "automatic-handlers"
	case PatternManualSubscribers:
		return "manual-subscribers"
	case PatternHybrid:
		return "hybrid"
	default:
		return "none"
	}
}

// ClassifyNotification derives the delivery pattern from recipient
// counts.
func ClassifyNotification(handlers, subscribers int) NotificationPattern {
	switch {
	case handlers > 0 && subscribers > 0:
		return PatternHybrid
	case handlers > 0:
		return PatternAutomaticHandlers
	case subscribers > 0:
		return PatternManualSubscribers
	default:
		return PatternNone
	}
}

// NotificationInsight describes the current consumption pattern of one
// notification type.
type NotificationInsight struct {
	NotificationType reflect.Type
	Pattern          NotificationPattern
	Handlers         int
	Subscribers      int

	// SupportsBroadcast is true when delivery reaches more than one
	// recipient.
	SupportsBroadcast bool
}

// InspectNotification reports the current pattern for a notification
// type. Subscriber membership changes at runtime, so the result is
// recomputed on every call and never cached.
func (m *Mediator) InspectNotification(notificationType reflect.Type) NotificationInsight {
	handlers := 0
	for _, instance := range m.resolver.ResolveAll(notificationType) {
		if _, ok := instance.(notificationInvoker); ok {
			handlers++
		}
	}
	subscribers := m.subscribers.count(notificationType)

	return NotificationInsight{
		NotificationType:  notificationType,
		Pattern:           ClassifyNotification(handlers, subscribers),
		Handlers:          handlers,
		Subscribers:       subscribers,
		SupportsBroadcast: handlers+subscribers > 1,
	}
}

// InspectNotification reports the current pattern for the notification
// type T.
func InspectNotification[T any](m *Mediator) NotificationInsight {
	return m.InspectNotification(TypeOf[T]())
}
