// Package mutation sends the create, update and delete requests of a data
// table and reconciles its store afterwards.
package mutation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/backdesk/internal/metrics"
	"github.com/mesh-intelligence/backdesk/internal/notify"
	"github.com/mesh-intelligence/backdesk/internal/session"
	"github.com/mesh-intelligence/backdesk/pkg/types"
)

// Mutation operations, used in log fields and metrics.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Collection is the store a coordinator reconciles.
type Collection[E types.Entity] interface {
	Resource() types.Resource
	Refresh(ctx context.Context) types.FetchStatus
	ApplyCreated(e E)
	ApplyUpdated(e E) error
	ApplyDeleted(id types.ID) error
}

// Result describes the outcome of Submit or Remove.
type Result struct {
	OK        bool
	Cancelled bool
	Message   string
	Err       error
	Fields    types.FieldErrors
	ID        types.ID
	// Refresh is the store status after reconciliation. A failed refetch
	// does not undo a successful mutation.
	Refresh types.FetchStatus
}

// Coordinator turns edit sessions and delete requests into backend calls.
type Coordinator[E types.Entity] struct {
	mut       types.Mutator
	coll      Collection[E]
	notes     *notify.Center
	confirm   Confirmer
	reconcile string
	decode    func([]byte) (E, error)
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// Option configures a Coordinator.
type Option[E types.Entity] func(*Coordinator[E])

// WithConfirmer sets who approves deletes. The default approves everything.
func WithConfirmer[E types.Entity](c Confirmer) Option[E] {
	return func(co *Coordinator[E]) { co.confirm = c }
}

// WithReconcile selects types.ReconcileRefetch (default) or
// types.ReconcileSplice.
func WithReconcile[E types.Entity](mode string) Option[E] {
	return func(co *Coordinator[E]) { co.reconcile = mode }
}

// WithEntityDecoder replaces the decoder used for splice reconciliation.
func WithEntityDecoder[E types.Entity](d func([]byte) (E, error)) Option[E] {
	return func(co *Coordinator[E]) { co.decode = d }
}

// WithLogger sets the logger.
func WithLogger[E types.Entity](l *zap.Logger) Option[E] {
	return func(co *Coordinator[E]) { co.logger = l }
}

// WithMetrics counts mutation outcomes.
func WithMetrics[E types.Entity](m *metrics.Metrics) Option[E] {
	return func(co *Coordinator[E]) { co.metrics = m }
}

// New creates a coordinator that writes through mut and reconciles coll.
func New[E types.Entity](mut types.Mutator, coll Collection[E], notes *notify.Center, opts ...Option[E]) *Coordinator[E] {
	co := &Coordinator[E]{
		mut:       mut,
		coll:      coll,
		notes:     notes,
		confirm:   AlwaysConfirm,
		reconcile: types.ReconcileRefetch,
		decode:    decodeEntity[E],
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(co)
	}
	co.logger = co.logger.With(zap.String("resource", coll.Resource().Name))
	return co
}

// Submit validates the session's draft and sends it: POST in create mode,
// PUT to the target id in edit mode. On success the session is closed and
// the store reconciled. On any failure the session stays open with its
// draft intact.
func (co *Coordinator[E]) Submit(ctx context.Context, s *session.EditSession) Result {
	res := co.coll.Resource()
	if !s.IsOpen() {
		return Result{Err: types.ErrSessionClosed, Message: types.ErrSessionClosed.Error()}
	}

	op := OpCreate
	if s.Mode() == session.ModeEdit {
		op = OpUpdate
	}

	if fields := s.Validate(); fields != nil {
		verr := &types.ValidationError{Fields: fields}
		co.metrics.RecordMutation(res.Name, op, "invalid")
		co.notify(notify.KindError, verr.Error())
		return Result{Err: verr, Fields: fields, Message: verr.Error()}
	}

	var (
		body []byte
		err  error
		id   = s.TargetID()
	)
	if op == OpCreate {
		body, err = co.mut.Create(ctx, res, s.Draft())
	} else {
		body, err = co.mut.Update(ctx, res, id, s.Draft())
	}
	if err != nil {
		return co.failed(op, err)
	}

	s.Close()
	status, created := co.reconcileWrite(ctx, op, body)
	if op == OpCreate {
		id = created
	}
	msg := fmt.Sprintf("%s: record %s", res.Name, pastTense(op))
	co.metrics.RecordMutation(res.Name, op, "ok")
	co.notify(notify.KindSuccess, msg)
	co.logger.Info("mutation succeeded", zap.String("op", op), zap.String("id", id.String()))
	return Result{OK: true, Message: msg, ID: id, Refresh: status}
}

// Remove asks for confirmation, then deletes id. A declined confirmation
// sends nothing. A failed delete leaves the collection untouched.
func (co *Coordinator[E]) Remove(ctx context.Context, id types.ID) Result {
	res := co.coll.Resource()
	if id.IsZero() {
		return Result{Err: types.ErrInvalidID, Message: types.ErrInvalidID.Error()}
	}

	ok, err := co.confirm.Confirm(ctx, fmt.Sprintf("Delete %s %s?", res.Name, id))
	if err != nil {
		return Result{Err: err, Message: err.Error(), ID: id}
	}
	if !ok {
		co.metrics.RecordMutation(res.Name, OpDelete, "cancelled")
		return Result{Cancelled: true, Message: "delete cancelled", ID: id}
	}

	if err := co.mut.Delete(ctx, res, id); err != nil {
		r := co.failed(OpDelete, err)
		r.ID = id
		return r
	}

	status := co.reconcileDelete(ctx, id)
	msg := fmt.Sprintf("%s: record deleted", res.Name)
	co.metrics.RecordMutation(res.Name, OpDelete, "ok")
	co.notify(notify.KindSuccess, msg)
	co.logger.Info("mutation succeeded", zap.String("op", OpDelete), zap.String("id", id.String()))
	return Result{OK: true, Message: msg, ID: id, Refresh: status}
}

func (co *Coordinator[E]) failed(op string, err error) Result {
	msg := types.UserMessage(err)
	if msg == "" {
		msg = types.GenericFailureMessage
	}
	co.metrics.RecordMutation(co.coll.Resource().Name, op, "error")
	co.notify(notify.KindError, msg)
	co.logger.Warn("mutation failed", zap.String("op", op), zap.Error(err))

	r := Result{Err: err, Message: msg}
	var verr *types.ValidationError
	if errors.As(err, &verr) {
		r.Fields = verr.Fields
	}
	return r
}

// reconcileWrite updates the store after a create or update. It returns the
// store status and, when the backend echoed the entity, its id.
func (co *Coordinator[E]) reconcileWrite(ctx context.Context, op string, body []byte) (types.FetchStatus, types.ID) {
	var (
		e       E
		decoded bool
	)
	if len(bytes.TrimSpace(body)) > 0 {
		if v, err := co.decode(body); err == nil && !v.EntityID().IsZero() {
			e, decoded = v, true
		}
	}
	var id types.ID
	if decoded {
		id = e.EntityID()
	}

	if co.reconcile == types.ReconcileSplice && decoded {
		if op == OpCreate {
			co.coll.ApplyCreated(e)
			return types.FetchStatus{State: types.StateLoaded}, id
		}
		if err := co.coll.ApplyUpdated(e); err == nil {
			return types.FetchStatus{State: types.StateLoaded}, id
		}
	}
	return co.refetch(ctx), id
}

func (co *Coordinator[E]) reconcileDelete(ctx context.Context, id types.ID) types.FetchStatus {
	if co.reconcile == types.ReconcileSplice {
		if err := co.coll.ApplyDeleted(id); err == nil {
			return types.FetchStatus{State: types.StateLoaded}
		}
	}
	return co.refetch(ctx)
}

func (co *Coordinator[E]) refetch(ctx context.Context) types.FetchStatus {
	status := co.coll.Refresh(ctx)
	if status.Failed() {
		co.logger.Warn("refresh after mutation failed", zap.String("message", status.Message))
	}
	return status
}

func (co *Coordinator[E]) notify(kind notify.Kind, msg string) {
	if co.notes != nil {
		co.notes.Push(kind, msg)
	}
}

func decodeEntity[E types.Entity](body []byte) (E, error) {
	var e E
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	err := dec.Decode(&e)
	return e, err
}

func pastTense(op string) string {
	switch op {
	case OpCreate:
		return "created"
	case OpUpdate:
		return "updated"
	default:
		return "deleted"
	}
}
