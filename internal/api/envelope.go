package api

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/backdesk/pkg/types"
)

type dataEnvelope struct {
	Data json.RawMessage `json:"data"`
}

// UnwrapList returns the JSON array inside a list response shaped per env.
func UnwrapList(env types.Envelope, body []byte) ([]byte, error) {
	body = bytes.TrimSpace(body)
	switch env {
	case types.EnvelopeBare, "":
		if !isArray(body) {
			return nil, fmt.Errorf("%w: expected a JSON array", types.ErrMalformedResponse)
		}
		return body, nil
	case types.EnvelopeData:
		var d dataEnvelope
		if err := json.Unmarshal(body, &d); err != nil {
			return nil, fmt.Errorf("%w: %v", types.ErrMalformedResponse, err)
		}
		inner := bytes.TrimSpace(d.Data)
		if !isArray(inner) {
			return nil, fmt.Errorf("%w: expected an array under \"data\"", types.ErrMalformedResponse)
		}
		return inner, nil
	default:
		return nil, fmt.Errorf("%w %q", types.ErrEnvelopeUnknown, env)
	}
}

// UnwrapEntity returns the entity object of a create or update response.
// An empty body yields nil. With the data envelope, a body without a "data"
// object is returned unchanged since backends often reply bare on writes.
func UnwrapEntity(env types.Envelope, body []byte) ([]byte, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}
	if !isObject(body) {
		return nil, fmt.Errorf("%w: expected a JSON object", types.ErrMalformedResponse)
	}
	if env != types.EnvelopeData {
		return body, nil
	}
	var d dataEnvelope
	if err := json.Unmarshal(body, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrMalformedResponse, err)
	}
	if inner := bytes.TrimSpace(d.Data); isObject(inner) {
		return inner, nil
	}
	return body, nil
}

func isArray(b []byte) bool {
	return len(b) > 0 && b[0] == '[' && json.Valid(b)
}

func isObject(b []byte) bool {
	return len(b) > 0 && b[0] == '{' && json.Valid(b)
}
