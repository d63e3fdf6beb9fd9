package envelope

import (
	"errors"

	"github.com/tidwall/gjson"
)

// ErrInvalidJSON is returned when the input is not valid JSON.
var ErrInvalidJSON = errors.New("invalid JSON")

// Inspector examines raw bytes and returns a View for field queries.
type Inspector interface {
	Inspect(raw []byte) (View, error)
}

// View provides format-agnostic field access for discriminator
// matching.
type View interface {
	// HasField returns true if the path exists in the envelope.
	HasField(path string) bool

	// GetString returns the string value at path, or false if not
	// found or not a string.
	GetString(path string) (string, bool)
}

// Discriminator determines if a format should handle an envelope based
// on its content. Discriminators are cheap to evaluate compared to full
// parsing.
type Discriminator func(v View) bool

// HasFields returns a Discriminator that matches when all paths exist.
func HasFields(paths ...string) Discriminator {
	return func(v View) bool {
		for _, p := range paths {
			if !v.HasField(p) {
				return false
			}
		}
		return true
	}
}

// FieldEquals returns a Discriminator that matches when the path exists
// and equals the given string value.
func FieldEquals(path, value string) Discriminator {
	return func(v View) bool {
		s, ok := v.GetString(path)
		return ok && s == value
	}
}

// All returns a Discriminator that matches when every discriminator
// matches.
func All(ds ...Discriminator) Discriminator {
	return func(v View) bool {
		for _, d := range ds {
			if !d(v) {
				return false
			}
		}
		return true
	}
}

// Any returns a Discriminator that matches when at least one
// discriminator matches.
func Any(ds ...Discriminator) Discriminator {
	return func(v View) bool {
		for _, d := range ds {
			if d(v) {
				return true
			}
		}
		return false
	}
}

// JSONInspector returns an Inspector that uses gjson for field access.
// It is the default inspector for a Dispatcher.
func JSONInspector() Inspector {
	return jsonInspector{}
}

type jsonInspector struct{}

func (jsonInspector) Inspect(raw []byte) (View, error) {
	if !gjson.ValidBytes(raw) {
		return nil, ErrInvalidJSON
	}
	return jsonView{raw: raw}, nil
}

type jsonView struct {
	raw []byte
}

func (v jsonView) HasField(path string) bool {
	return gjson.GetBytes(v.raw, path).Exists()
}

func (v jsonView) GetString(path string) (string, bool) {
	r := gjson.GetBytes(v.raw, path)
	if !r.Exists() || r.Type != gjson.String {
		return "", false
	}
	return r.String(), true
}
