package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Envelope describes how a backend wraps list and entity payloads.
type Envelope string

// Supported envelopes.
const (
	EnvelopeBare Envelope = "bare" // [...] or {...}
	EnvelopeData Envelope = "data" // {"data": [...]} or {"data": {...}}
)

// FieldKind is the scalar type of an editable field.
type FieldKind string

// Field kinds.
const (
	KindString         FieldKind = "string"
	KindNullableString FieldKind = "nullable_string"
	KindNumber         FieldKind = "number"
	KindInteger        FieldKind = "integer"
	KindBool           FieldKind = "bool"
)

// Field is one editable field of a resource.
type Field struct {
	Name       string
	Kind       FieldKind
	Default    any
	Validators []Validator
}

// Resource describes one backend collection: where it lives, how its
// responses are wrapped, which fields the search box matches and which
// fields the edit form carries.
type Resource struct {
	Name         string
	Path         string
	Envelope     Envelope
	SearchFields []string
	Fields       []Field
}

// Resource definition errors.
var (
	ErrResourceNameEmpty = errors.New("resource name must not be empty")
	ErrResourcePathEmpty = errors.New("resource path must not be empty")
	ErrEnvelopeUnknown   = errors.New("unknown envelope")
	ErrNoFields          = errors.New("resource declares no editable fields")
)

// Validate checks that the definition is usable.
func (r Resource) Validate() error {
	if r.Name == "" {
		return ErrResourceNameEmpty
	}
	if r.Path == "" {
		return fmt.Errorf("%s: %w", r.Name, ErrResourcePathEmpty)
	}
	switch r.Envelope {
	case EnvelopeBare, EnvelopeData:
	default:
		return fmt.Errorf("%s: %w %q", r.Name, ErrEnvelopeUnknown, r.Envelope)
	}
	if len(r.Fields) == 0 {
		return fmt.Errorf("%s: %w", r.Name, ErrNoFields)
	}
	return nil
}

// FieldByName returns the named field definition.
func (r Resource) FieldByName(name string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Defaults returns a new draft holding every field's default value.
func (r Resource) Defaults() Draft {
	d := make(Draft, len(r.Fields))
	for _, f := range r.Fields {
		d[f.Name] = f.Default
	}
	return d
}

// DraftFrom copies the editable fields of e into a new draft.
func (r Resource) DraftFrom(e Entity) Draft {
	d := make(Draft, len(r.Fields))
	for _, f := range r.Fields {
		if v, ok := e.Field(f.Name); ok {
			d[f.Name] = v
		} else {
			d[f.Name] = f.Default
		}
	}
	return d
}

// Check runs every field validator against d.
// It returns nil when the draft is valid.
func (r Resource) Check(d Draft) FieldErrors {
	var errs FieldErrors
	for _, f := range r.Fields {
		for _, v := range f.Validators {
			if err := v(d[f.Name]); err != nil {
				if errs == nil {
					errs = FieldErrors{}
				}
				errs.Add(f.Name, err.Error())
			}
		}
	}
	return errs
}

// Draft is the working copy of an entity's editable fields.
type Draft map[string]any

// Clone returns a shallow copy.
func (d Draft) Clone() Draft {
	if d == nil {
		return nil
	}
	out := make(Draft, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// ErrFieldValue is returned when a text value does not fit the field kind.
var ErrFieldValue = errors.New("invalid field value")

// Parse converts text input into a value of the field's kind. An empty
// nullable string, or the literal null, becomes nil.
func (f Field) Parse(raw string) (any, error) {
	switch f.Kind {
	case KindNullableString:
		if raw == "" || raw == "null" {
			return nil, nil
		}
		return raw, nil
	case KindNumber:
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %q is not a number", f.Name, ErrFieldValue, raw)
		}
		return n, nil
	case KindInteger:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %q is not an integer", f.Name, ErrFieldValue, raw)
		}
		return n, nil
	case KindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %q is not true or false", f.Name, ErrFieldValue, raw)
		}
		return b, nil
	default:
		return raw, nil
	}
}
