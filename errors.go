package mediator

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrHandlerNotFound is returned when a request type has no registered
// handler. Use errors.Is to detect it; the concrete error is a
// *HandlerNotFoundError naming the request type.
var ErrHandlerNotFound = errors.New("handler not found")

// ErrAmbiguousHandlers is returned when a request type resolves to more
// than one handler. Requests are single-handler by contract; register
// additional recipients as notification handlers instead.
var ErrAmbiguousHandlers = errors.New("multiple handlers registered")

// HandlerNotFoundError reports a request dispatched with no handler bound
// to its runtime type.
type HandlerNotFoundError struct {
	RequestType reflect.Type
}

func (e *HandlerNotFoundError) Error() string {
	return fmt.Sprintf("no handler registered for request type %s", e.RequestType)
}

func (e *HandlerNotFoundError) Unwrap() error { return ErrHandlerNotFound }

// AmbiguousHandlersError reports a request type bound to more than one
// handler at dispatch time.
type AmbiguousHandlersError struct {
	RequestType reflect.Type
	Count       int
}

func (e *AmbiguousHandlersError) Error() string {
	return fmt.Sprintf("%d handlers registered for request type %s, want exactly one", e.Count, e.RequestType)
}

func (e *AmbiguousHandlersError) Unwrap() error { return ErrAmbiguousHandlers }

// ResponseTypeError reports a response that does not match the type
// parameter supplied to Send or SendStream.
type ResponseTypeError struct {
	RequestType reflect.Type
	Expected    reflect.Type
	Got         reflect.Type
}

func (e *ResponseTypeError) Error() string {
	return fmt.Sprintf("handler for %s returned %s, want %s", e.RequestType, e.Got, e.Expected)
}
