package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID identifies an entity. Backends use either integer or string ids; both
// decode into ID and integer ids are encoded back as JSON numbers.
type ID string

// IsZero reports whether the id is empty.
func (id ID) IsZero() bool {
	return id == ""
}

func (id ID) String() string {
	return string(id)
}

// UnmarshalJSON accepts a JSON string or number.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, data)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes canonical integers as numbers and everything else as a
// string.
func (id ID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(string(id)), nil
	}
	return json.Marshal(string(id))
}

// IDFrom converts a decoded JSON value into an ID.
func IDFrom(v any) ID {
	switch x := v.(type) {
	case nil:
		return ""
	case ID:
		return x
	case string:
		return ID(x)
	case json.Number:
		return ID(x.String())
	case float64:
		return ID(strconv.FormatFloat(x, 'f', -1, 64))
	case int:
		return ID(strconv.Itoa(x))
	case int64:
		return ID(strconv.FormatInt(x, 10))
	default:
		return ID(fmt.Sprint(x))
	}
}

// Entity is one record of a backend resource.
// Field returns plain values (strings, numbers, bools or nil) so that callers
// copying them never alias the entity's storage.
type Entity interface {
	EntityID() ID
	Field(name string) (any, bool)
}

// Record is a map-backed Entity used when a resource is handled generically.
type Record map[string]any

// EntityID returns the record's "id" field.
func (r Record) EntityID() ID {
	return IDFrom(r["id"])
}

// Field returns the named value.
func (r Record) Field(name string) (any, bool) {
	v, ok := r[name]
	return v, ok
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// StringValue renders a field value for text matching. nil becomes "".
func StringValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case *string:
		if x == nil {
			return ""
		}
		return *x
	case ID:
		return string(x)
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// NumberValue converts a field value to float64 when it is numeric.
func NumberValue(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// optString dereferences a nullable string into a plain value.
func optString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
