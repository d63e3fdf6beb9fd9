// Package envelope maps self-describing JSON envelopes onto mediator
// dispatch. An envelope carries a routing key and an opaque payload;
// the dispatcher matches the envelope format, decodes the payload into
// the registered request type, and sends it through the mediator,
// entirely in process.
//
//	d := envelope.New(m)
//	envelope.Route[GetUserQuery](d, "user/get")
//	envelope.RouteNotification[UserDeleted](d, "user/deleted")
//
//	response, err := d.Dispatch(ctx, []byte(`{"type":"user/get","payload":{"user_id":"42"}}`))
package envelope

import (
	"context"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/bjaus/mediator"
)

// ErrNoFormat is returned when no registered format matches an
// envelope.
var ErrNoFormat = errors.New("no format matched envelope")

// ErrNoRoute is returned when an envelope's key has no registered
// route.
var ErrNoRoute = errors.New("no route for envelope key")

// Parsed contains the result of format parsing.
type Parsed struct {
	// Key is the routing key used to find the request type.
	Key string

	// Payload is the raw bytes to decode into the request type.
	Payload []byte
}

// Format parses raw envelope bytes and extracts routing information.
// Formats are matched using their Discriminator before Parse is called,
// so cheap detection happens before expensive parsing.
type Format interface {
	// Name returns the format identifier for diagnostics.
	Name() string

	// Discriminator returns a predicate for cheap envelope detection.
	Discriminator() Discriminator

	// Parse attempts to parse raw bytes as this format.
	Parse(raw []byte) (Parsed, error)
}

// FormatFunc creates a Format from a name, discriminator, and parse
// function.
func FormatFunc(name string, disc Discriminator, parse func(raw []byte) (Parsed, error)) Format {
	return &formatFunc{name: name, disc: disc, parse: parse}
}

type formatFunc struct {
	name  string
	disc  Discriminator
	parse func(raw []byte) (Parsed, error)
}

func (f *formatFunc) Name() string                 { return f.name }
func (f *formatFunc) Discriminator() Discriminator { return f.disc }
func (f *formatFunc) Parse(raw []byte) (Parsed, error) {
	return f.parse(raw)
}

// StandardFormat returns the default envelope format: a JSON object
// with "type" and "payload" fields.
func StandardFormat() Format {
	return FormatFunc("standard", HasFields("type", "payload"), func(raw []byte) (Parsed, error) {
		var env struct {
			Type    string          `json:"type"`
			Payload json.RawMessage `json:"payload"`
		}
		if err := json.Unmarshal(raw, &env); err != nil {
			return Parsed{}, err
		}
		if env.Type == "" {
			return Parsed{}, errors.New("missing type field")
		}
		return Parsed{Key: env.Type, Payload: env.Payload}, nil
	})
}

// route decodes a payload and dispatches it through the mediator.
type route func(ctx context.Context, payload []byte) (any, error)

// Dispatcher routes envelopes to mediator requests and notifications.
//
// Configure it at startup: AddFormat and the Route functions are not
// safe to call concurrently with Dispatch.
type Dispatcher struct {
	mediator  *mediator.Mediator
	inspector Inspector
	formats   []Format
	routes    map[string]route
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithInspector replaces the default JSON inspector.
func WithInspector(i Inspector) DispatcherOption {
	return func(d *Dispatcher) {
		d.inspector = i
	}
}

// New creates a Dispatcher over m with the standard JSON envelope
// format registered.
func New(m *mediator.Mediator, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		mediator:  m,
		inspector: JSONInspector(),
		formats:   []Format{StandardFormat()},
		routes:    make(map[string]route),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// AddFormat registers an additional envelope format. Formats are
// matched in registration order, the standard format first.
func (d *Dispatcher) AddFormat(f Format) {
	d.formats = append(d.formats, f)
}

// Route binds an envelope key to the request type T. Dispatching an
// envelope with this key decodes its payload into T and sends it
// through the mediator.
func Route[T any](d *Dispatcher, key string) {
	d.routes[key] = func(ctx context.Context, payload []byte) (any, error) {
		var request T
		if err := json.Unmarshal(payload, &request); err != nil {
			return nil, fmt.Errorf("decode payload for %q: %w", key, err)
		}
		return d.mediator.Send(ctx, request)
	}
}

// RouteNotification binds an envelope key to the notification type T.
// Dispatching an envelope with this key publishes the decoded payload.
func RouteNotification[T any](d *Dispatcher, key string) {
	d.routes[key] = func(ctx context.Context, payload []byte) (any, error) {
		var notification T
		if err := json.Unmarshal(payload, &notification); err != nil {
			return nil, fmt.Errorf("decode payload for %q: %w", key, err)
		}
		return nil, d.mediator.Publish(ctx, notification)
	}
}

// Dispatch matches raw bytes against the registered formats, decodes
// the payload, and dispatches it through the mediator. For request
// routes the response is returned JSON-encoded; notification routes
// return nil bytes.
func (d *Dispatcher) Dispatch(ctx context.Context, raw []byte) ([]byte, error) {
	format := d.match(raw)
	if format == nil {
		return nil, ErrNoFormat
	}

	parsed, err := format.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse envelope with format %s: %w", format.Name(), err)
	}

	r, ok := d.routes[parsed.Key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoRoute, parsed.Key)
	}

	response, err := r(ctx, parsed.Payload)
	if err != nil {
		return nil, err
	}
	if response == nil {
		return nil, nil
	}
	return json.Marshal(response)
}

// match finds the first format whose discriminator accepts the
// envelope.
func (d *Dispatcher) match(raw []byte) Format {
	view, err := d.inspector.Inspect(raw)
	if err != nil {
		return nil
	}
	for _, f := range d.formats {
		if f.Discriminator()(view) {
			return f
		}
	}
	return nil
}
