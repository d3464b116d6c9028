// Package session models the create/edit form lifecycle of one resource. A
// session owns a draft that never aliases the entities held by a store.
package session

import (
	"github.com/mesh-intelligence/backdesk/pkg/types"
)

// Mode is what an open session will submit.
type Mode string

// Session modes.
const (
	ModeNone   Mode = ""
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// State is the position in the closed -> creating|editing -> closed machine.
type State string

// Session states.
const (
	Closed   State = "closed"
	Creating State = "creating"
	Editing  State = "editing"
)

// EditSession is owned by a single caller and is not safe for concurrent use.
type EditSession struct {
	res    types.Resource
	open   bool
	mode   Mode
	target types.ID
	draft  types.Draft
}

// New returns a closed session for res.
func New(res types.Resource) *EditSession {
	return &EditSession{res: res}
}

// Resource returns the resource being edited.
func (s *EditSession) Resource() types.Resource { return s.res }

// OpenForCreate opens the session with the resource's default values.
func (s *EditSession) OpenForCreate() {
	s.open = true
	s.mode = ModeCreate
	s.target = ""
	s.draft = s.res.Defaults()
}

// OpenForEdit opens the session on a copy of e's editable fields.
func (s *EditSession) OpenForEdit(e types.Entity) error {
	id := e.EntityID()
	if id.IsZero() {
		return types.ErrInvalidID
	}
	s.open = true
	s.mode = ModeEdit
	s.target = id
	s.draft = s.res.DraftFrom(e)
	return nil
}

// UpdateField sets one draft value. No validation happens here.
func (s *EditSession) UpdateField(name string, value any) error {
	if !s.open {
		return types.ErrSessionClosed
	}
	s.draft[name] = value
	return nil
}

// Close discards the draft. Closing a closed session does nothing.
func (s *EditSession) Close() {
	s.open = false
	s.mode = ModeNone
	s.target = ""
	s.draft = nil
}

// Validate runs the resource's field validators against the draft.
// It returns nil when the draft is valid or the session is closed.
func (s *EditSession) Validate() types.FieldErrors {
	if !s.open {
		return nil
	}
	return s.res.Check(s.draft)
}

// IsOpen reports whether the session is open.
func (s *EditSession) IsOpen() bool { return s.open }

// Mode returns the submit mode, ModeNone when closed.
func (s *EditSession) Mode() Mode { return s.mode }

// TargetID returns the id being edited, empty unless in edit mode.
func (s *EditSession) TargetID() types.ID { return s.target }

// Draft returns a copy of the draft, nil when closed.
func (s *EditSession) Draft() types.Draft { return s.draft.Clone() }

// State returns the state machine position.
func (s *EditSession) State() State {
	switch {
	case !s.open:
		return Closed
	case s.mode == ModeEdit:
		return Editing
	default:
		return Creating
	}
}
