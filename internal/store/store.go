// Package store holds the last-fetched collection of one backend resource
// together with the status of its most recent fetch.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/backdesk/internal/metrics"
	"github.com/mesh-intelligence/backdesk/internal/sqlite"
	"github.com/mesh-intelligence/backdesk/pkg/types"
)

// SnapshotCache persists the last good payload of a resource.
type SnapshotCache interface {
	SaveSnapshot(ctx context.Context, resource string, payload []byte, items int) error
	LoadSnapshot(ctx context.Context, resource string) (sqlite.Snapshot, error)
}

// Decoder turns an unwrapped JSON array into entities.
type Decoder[E types.Entity] func(payload []byte) ([]E, error)

// Store is the cached collection of one resource. The collection and its
// FetchStatus change together under one lock. It is safe for concurrent use.
type Store[E types.Entity] struct {
	res      types.Resource
	lister   types.Lister
	decode   Decoder[E]
	logger   *zap.Logger
	metrics  *metrics.Metrics
	ordering string
	cache    SnapshotCache
	now      func() time.Time

	mu     sync.RWMutex
	items  []E
	status types.FetchStatus
	stale  bool
	issued uint64
}

// Option configures a Store.
type Option[E types.Entity] func(*Store[E])

// WithLogger sets the logger.
func WithLogger[E types.Entity](l *zap.Logger) Option[E] {
	return func(s *Store[E]) { s.logger = l }
}

// WithMetrics records refresh outcomes in m.
func WithMetrics[E types.Entity](m *metrics.Metrics) Option[E] {
	return func(s *Store[E]) { s.metrics = m }
}

// WithOrdering selects how overlapping refreshes resolve: types.OrderLatestIssued
// (default) or types.OrderLastCompleted.
func WithOrdering[E types.Entity](policy string) Option[E] {
	return func(s *Store[E]) { s.ordering = policy }
}

// WithSnapshotCache saves every successful payload to c and enables Restore.
func WithSnapshotCache[E types.Entity](c SnapshotCache) Option[E] {
	return func(s *Store[E]) { s.cache = c }
}

// WithDecoder replaces the default JSON decoder.
func WithDecoder[E types.Entity](d Decoder[E]) Option[E] {
	return func(s *Store[E]) { s.decode = d }
}

// WithClock sets the time source used for LoadedAt.
func WithClock[E types.Entity](now func() time.Time) Option[E] {
	return func(s *Store[E]) { s.now = now }
}

// New creates an empty store in the idle state.
func New[E types.Entity](res types.Resource, lister types.Lister, opts ...Option[E]) *Store[E] {
	s := &Store[E]{
		res:      res,
		lister:   lister,
		decode:   DecodeJSON[E],
		logger:   zap.NewNop(),
		ordering: types.OrderLatestIssued,
		now:      time.Now,
		status:   types.FetchStatus{State: types.StateIdle},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("resource", res.Name))
	return s
}

// Resource returns the resource definition the store fetches.
func (s *Store[E]) Resource() types.Resource {
	return s.res
}

// Refresh fetches the collection. On success the collection is replaced and
// the status becomes loaded; on any failure the status becomes error and the
// previous collection is kept. Failures are reported only through the
// returned status.
//
// Under types.OrderLatestIssued a response that arrives after a newer
// Refresh was issued is discarded and the current status is returned.
func (s *Store[E]) Refresh(ctx context.Context) types.FetchStatus {
	s.mu.Lock()
	s.issued++
	gen := s.issued
	s.status.State = types.StateLoading
	s.status.Message = ""
	s.mu.Unlock()

	payload, err := s.lister.List(ctx, s.res)
	var items []E
	if err == nil {
		items, err = s.decodeUnique(payload)
		if err != nil {
			err = &types.TransportError{Op: "decode", URL: s.res.Path, Err: err}
		}
	}

	s.mu.Lock()
	log := s.logger.With(zap.Uint64("generation", gen))

	if s.ordering != types.OrderLastCompleted && gen < s.issued {
		status, latest := s.status, s.issued
		s.mu.Unlock()
		log.Debug("discarding superseded response", zap.Uint64("latest", latest))
		s.metrics.RecordRefresh(s.res.Name, "stale", 0)
		return status
	}

	if err != nil {
		s.status = types.FetchStatus{
			State:    types.StateError,
			Message:  types.UserMessage(err),
			LoadedAt: s.status.LoadedAt,
		}
		status, size := s.status, len(s.items)
		s.mu.Unlock()
		log.Warn("refresh failed", zap.Error(err))
		s.metrics.RecordRefresh(s.res.Name, "error", size)
		return status
	}

	s.items = items
	s.stale = false
	s.status = types.FetchStatus{State: types.StateLoaded, LoadedAt: s.now()}
	status := s.status
	s.mu.Unlock()

	log.Debug("refresh loaded", zap.Int("items", len(items)))
	s.metrics.RecordRefresh(s.res.Name, "loaded", len(items))

	if s.cache != nil {
		if err := s.cache.SaveSnapshot(ctx, s.res.Name, payload, len(items)); err != nil {
			log.Warn("saving snapshot failed", zap.Error(err))
		}
	}
	return status
}

// Restore fills an idle store from the snapshot cache. The restored
// collection is marked stale and LoadedAt is the snapshot time. It reports
// whether a snapshot was applied; a missing snapshot is not an error.
func (s *Store[E]) Restore(ctx context.Context) (bool, error) {
	if s.cache == nil {
		return false, nil
	}
	snap, err := s.cache.LoadSnapshot(ctx, s.res.Name)
	if errors.Is(err, types.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	items, err := s.decodeUnique(snap.Payload)
	if err != nil {
		return false, fmt.Errorf("decoding %s snapshot: %w", s.res.Name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status.State != types.StateIdle {
		return false, nil
	}
	s.items = items
	s.stale = true
	s.status = types.FetchStatus{State: types.StateLoaded, LoadedAt: snap.FetchedAt}
	return true, nil
}

func (s *Store[E]) decodeUnique(payload []byte) ([]E, error) {
	items, err := s.decode(payload)
	if err != nil {
		return nil, err
	}
	seen := make(map[types.ID]struct{}, len(items))
	for _, e := range items {
		id := e.EntityID()
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: %s", types.ErrDuplicateID, id)
		}
		seen[id] = struct{}{}
	}
	return items, nil
}

// DecodeJSON decodes a JSON array, keeping numbers as json.Number for
// map-backed entities.
func DecodeJSON[E types.Entity](payload []byte) ([]E, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var items []E
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrMalformedResponse, err)
	}
	if items == nil {
		items = []E{}
	}
	return items, nil
}

// Items returns a copy of the collection in backend order.
func (s *Store[E]) Items() []E {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]E, len(s.items))
	copy(out, s.items)
	return out
}

// Status returns the status of the most recent fetch.
func (s *Store[E]) Status() types.FetchStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Len returns the collection size.
func (s *Store[E]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Find returns the entity with id.
func (s *Store[E]) Find(id types.ID) (E, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexLocked(id)
	if i < 0 {
		var zero E
		return zero, false
	}
	return s.items[i], true
}

// Invalidate marks the collection stale without touching it.
func (s *Store[E]) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stale = true
}

// Stale reports whether the collection may no longer match the backend.
func (s *Store[E]) Stale() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stale
}

func (s *Store[E]) indexLocked(id types.ID) int {
	for i, e := range s.items {
		if e.EntityID() == id {
			return i
		}
	}
	return -1
}
