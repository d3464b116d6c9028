package types

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Lookup and state errors.
var (
	ErrNotFound          = errors.New("entity not found")
	ErrInvalidID         = errors.New("invalid entity ID")
	ErrDuplicateID       = errors.New("duplicate entity ID in collection")
	ErrUnknownResource   = errors.New("unknown resource")
	ErrUnknownField      = errors.New("unknown field")
	ErrSessionClosed     = errors.New("edit session is closed")
	ErrMalformedResponse = errors.New("malformed response body")
	ErrUnauthorized      = errors.New("not authenticated")
	ErrNotLoggedIn       = errors.New("no stored credential; run login first")
)

// GenericFailureMessage is shown when the backend rejects a request without
// saying why.
const GenericFailureMessage = "the request could not be completed"

// TransportError reports a failure to reach the backend or to read its reply:
// network errors, timeouts and undecodable bodies.
type TransportError struct {
	Op  string // HTTP method, or "decode"
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return "connection error: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServerError is a non-2xx response without per-field errors.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// Is makes a 401 response match ErrUnauthorized.
func (e *ServerError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// FieldErrors maps a field name to its validation messages.
type FieldErrors map[string][]string

// Add appends a message for field.
func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

// String renders the errors as "field: msg; field: msg" in field order.
func (fe FieldErrors) String() string {
	names := make([]string, 0, len(fe))
	for name := range fe {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+strings.Join(fe[name], ", "))
	}
	return strings.Join(parts, "; ")
}

// ValidationError carries per-field messages, either decoded from a 4xx
// {"errors": {...}} body or produced locally before a request is sent
// (Status 0).
type ValidationError struct {
	Status  int
	Message string
	Fields  FieldErrors
}

func (e *ValidationError) Error() string {
	switch {
	case e.Message != "" && len(e.Fields) > 0:
		return e.Message + ": " + e.Fields.String()
	case len(e.Fields) > 0:
		return e.Fields.String()
	case e.Message != "":
		return e.Message
	default:
		return GenericFailureMessage
	}
}

// Is makes a 401 validation response match ErrUnauthorized.
func (e *ValidationError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// UserMessage returns the text shown to an operator for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var te *TransportError
	if errors.As(err, &te) {
		return te.Error()
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	var se *ServerError
	if errors.As(err, &se) {
		return se.Error()
	}
	return err.Error()
}
