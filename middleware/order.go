package middleware

import (
	"reflect"
	"strings"
)

// Order constants define the execution order for the built-in stages.
// Lower order = outermost middleware (executed first).
const (
	OrderCorrelation = -300 // outermost: IDs must exist before logging
	OrderLogging     = -200
	OrderMetrics     = -100
	OrderRateLimit   = 50
	OrderValidation  = 100 // innermost, closest to the handler
)

// requestName extracts a clean type name from a request, stripping
// pointer and package prefixes: "*commands.ShipOrder" becomes
// "ShipOrder".
func requestName(request any) string {
	if request == nil {
		return "unknown"
	}
	t := reflect.TypeOf(request)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if name := t.Name(); name != "" {
		return name
	}
	full := t.String()
	if i := strings.LastIndex(full, "."); i >= 0 {
		return full[i+1:]
	}
	return full
}
