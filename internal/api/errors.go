package api

import (
	"encoding/json"
	"strings"

	"github.com/mesh-intelligence/backdesk/pkg/types"
)

// errorBody covers the {message} and {errors:{field:[...]}} reply shapes.
// Some backends send a single string per field, or "detail" instead of
// "message".
type errorBody struct {
	Message string                     `json:"message"`
	Detail  string                     `json:"detail"`
	Errors  map[string]json.RawMessage `json:"errors"`
}

// decodeError converts a non-2xx response into a ValidationError when it
// carries per-field errors, or a ServerError otherwise.
func decodeError(status int, body []byte) error {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return &types.ServerError{Status: status}
	}
	msg := strings.TrimSpace(eb.Message)
	if msg == "" {
		msg = strings.TrimSpace(eb.Detail)
	}

	fields := types.FieldErrors{}
	for name, raw := range eb.Errors {
		var list []string
		if err := json.Unmarshal(raw, &list); err == nil {
			for _, m := range list {
				fields.Add(name, m)
			}
			continue
		}
		var single string
		if err := json.Unmarshal(raw, &single); err == nil {
			fields.Add(name, single)
		}
	}
	if len(fields) > 0 {
		return &types.ValidationError{Status: status, Message: msg, Fields: fields}
	}
	return &types.ServerError{Status: status, Message: msg}
}
