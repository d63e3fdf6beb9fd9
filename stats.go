package mediator

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// Stats tracks the distinct request and notification type names observed
// by a mediator. The metric is "distinct types seen", not invocation
// count: tracking the same name repeatedly does not grow the reported
// numbers.
//
// All methods are safe for concurrent use; many dispatches may record
// and read simultaneously.
type Stats struct {
	queries       nameSet
	commands      nameSet
	notifications nameSet
}

// NewStats creates an empty tracker. Mediators create their own; use
// this directly only when tracking outside a mediator.
func NewStats() *Stats {
	return &Stats{}
}

// nameSet is a concurrent distinct-string set with a lock-free count.
type nameSet struct {
	names sync.Map // string -> struct{}
	count atomic.Int64
}

func (s *nameSet) add(name string) {
	if name == "" {
		return
	}
	if _, loaded := s.names.LoadOrStore(name, struct{}{}); !loaded {
		s.count.Add(1)
	}
}

func (s *nameSet) sorted() []string {
	var out []string
	s.names.Range(func(key, _ any) bool {
		out = append(out, key.(string))
		return true
	})
	sort.Strings(out)
	return out
}

// TrackQuery records a query type name. Empty names are ignored.
func (s *Stats) TrackQuery(name string) { s.queries.add(name) }

// TrackCommand records a command type name. Empty names are ignored.
func (s *Stats) TrackCommand(name string) { s.commands.add(name) }

// TrackNotification records a notification type name. Empty names are
// ignored.
func (s *Stats) TrackNotification(name string) { s.notifications.add(name) }

// trackRequest classifies a request and records its name. An explicit
// marker (embedded Query or Command) wins over the case-insensitive
// name-suffix heuristic; a request carrying neither signal counts as a
// query.
func (s *Stats) trackRequest(request any, name string) {
	if k, ok := request.(kinded); ok {
		if k.requestKind() == kindCommand {
			s.TrackCommand(name)
		} else {
			s.TrackQuery(name)
		}
		return
	}

	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, "command") {
		s.TrackCommand(name)
		return
	}
	s.TrackQuery(name)
}

// Snapshot is a point-in-time view of the tracked names.
type Snapshot struct {
	Queries       []string
	Commands      []string
	Notifications []string
}

// QueryCount returns the number of distinct query types observed.
func (s *Stats) QueryCount() int { return int(s.queries.count.Load()) }

// CommandCount returns the number of distinct command types observed.
func (s *Stats) CommandCount() int { return int(s.commands.count.Load()) }

// NotificationCount returns the number of distinct notification types
// observed.
func (s *Stats) NotificationCount() int { return int(s.notifications.count.Load()) }

// Snapshot returns the tracked names, sorted, as of the call.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Queries:       s.queries.sorted(),
		Commands:      s.commands.sorted(),
		Notifications: s.notifications.sorted(),
	}
}

// Renderer receives one report line at a time. Formatting and output
// belong to the caller; Stats only produces the data.
type Renderer interface {
	Render(line string)
}

// RenderFunc is a function adapter for Renderer.
type RenderFunc func(line string)

// Render implements the Renderer interface.
func (f RenderFunc) Render(line string) { f(line) }

// Report writes the current counts and names to r, one line per call.
func (s *Stats) Report(r Renderer) {
	snap := s.Snapshot()
	r.Render(fmt.Sprintf("queries: %d", len(snap.Queries)))
	for _, name := range snap.Queries {
		r.Render("  " + name)
	}
	r.Render(fmt.Sprintf("commands: %d", len(snap.Commands)))
	for _, name := range snap.Commands {
		r.Render("  " + name)
	}
	r.Render(fmt.Sprintf("notifications: %d", len(snap.Notifications)))
	for _, name := range snap.Notifications {
		r.Render("  " + name)
	}
}

// requestName returns the bare type name for a request or notification,
// stripping pointer and package qualifiers: "*commands.ShipOrder"
// becomes "ShipOrder".
func requestName(t reflect.Type) string {
	if t == nil {
		return ""
	}
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
