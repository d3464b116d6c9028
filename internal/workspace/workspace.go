// Package workspace wires one store per catalog resource and refreshes them
// together for the dashboard.
package workspace

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/backdesk/internal/catalog"
	"github.com/mesh-intelligence/backdesk/internal/metrics"
	"github.com/mesh-intelligence/backdesk/internal/mutation"
	"github.com/mesh-intelligence/backdesk/internal/notify"
	"github.com/mesh-intelligence/backdesk/internal/store"
	"github.com/mesh-intelligence/backdesk/pkg/types"
)

// DefaultConcurrency bounds RefreshAll when no limit is configured.
const DefaultConcurrency = 4

// Workspace holds a generic record store for every catalog resource.
type Workspace struct {
	cat         *catalog.Catalog
	table       types.Table
	notes       *notify.Center
	logger      *zap.Logger
	metrics     *metrics.Metrics
	cache       store.SnapshotCache
	ordering    string
	reconcile   string
	concurrency int

	stores map[string]*store.Store[types.Record]
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithLogger sets the logger passed to every store and coordinator.
func WithLogger(l *zap.Logger) Option {
	return func(w *Workspace) { w.logger = l }
}

// WithMetrics sets the metrics passed to every store and coordinator.
func WithMetrics(m *metrics.Metrics) Option {
	return func(w *Workspace) { w.metrics = m }
}

// WithSnapshotCache enables snapshot save and restore on every store.
func WithSnapshotCache(c store.SnapshotCache) Option {
	return func(w *Workspace) { w.cache = c }
}

// WithOrdering sets the store response ordering policy.
func WithOrdering(policy string) Option {
	return func(w *Workspace) { w.ordering = policy }
}

// WithReconcile sets the coordinator reconcile mode.
func WithReconcile(mode string) Option {
	return func(w *Workspace) { w.reconcile = mode }
}

// WithConcurrency bounds how many resources RefreshAll fetches at once.
func WithConcurrency(n int) Option {
	return func(w *Workspace) { w.concurrency = n }
}

// New creates stores for every resource of cat backed by table.
func New(cat *catalog.Catalog, table types.Table, notes *notify.Center, opts ...Option) *Workspace {
	w := &Workspace{
		cat:         cat,
		table:       table,
		notes:       notes,
		logger:      zap.NewNop(),
		ordering:    types.OrderLatestIssued,
		reconcile:   types.ReconcileRefetch,
		concurrency: DefaultConcurrency,
		stores:      make(map[string]*store.Store[types.Record]),
	}
	for _, opt := range opts {
		opt(w)
	}

	for _, res := range cat.All() {
		storeOpts := []store.Option[types.Record]{
			store.WithLogger[types.Record](w.logger),
			store.WithMetrics[types.Record](w.metrics),
			store.WithOrdering[types.Record](w.ordering),
		}
		if w.cache != nil {
			storeOpts = append(storeOpts, store.WithSnapshotCache[types.Record](w.cache))
		}
		w.stores[res.Name] = store.New[types.Record](res, table, storeOpts...)
	}
	return w
}

// Catalog returns the resource catalog.
func (w *Workspace) Catalog() *catalog.Catalog { return w.cat }

// Notifications returns the shared notification center.
func (w *Workspace) Notifications() *notify.Center { return w.notes }

// Store returns the store of the named resource.
func (w *Workspace) Store(name string) (*store.Store[types.Record], error) {
	s, ok := w.stores[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrUnknownResource, name)
	}
	return s, nil
}

// Coordinator returns a mutation coordinator for the named resource.
func (w *Workspace) Coordinator(name string, confirm mutation.Confirmer) (*mutation.Coordinator[types.Record], error) {
	s, err := w.Store(name)
	if err != nil {
		return nil, err
	}
	opts := []mutation.Option[types.Record]{
		mutation.WithLogger[types.Record](w.logger),
		mutation.WithMetrics[types.Record](w.metrics),
		mutation.WithReconcile[types.Record](w.reconcile),
	}
	if confirm != nil {
		opts = append(opts, mutation.WithConfirmer[types.Record](confirm))
	}
	return mutation.New[types.Record](w.table, s, w.notes, opts...), nil
}

// Restore loads snapshots into every idle store. Snapshot errors are logged
// and skipped.
func (w *Workspace) Restore(ctx context.Context) int {
	restored := 0
	for name, s := range w.stores {
		ok, err := s.Restore(ctx)
		if err != nil {
			w.logger.Warn("restoring snapshot failed", zap.String("resource", name), zap.Error(err))
			continue
		}
		if ok {
			restored++
		}
	}
	return restored
}

// RefreshAll refreshes every store concurrently, at most the configured
// number at a time. Individual failures are reported in the returned
// statuses; the error is non-nil only when ctx ends first.
func (w *Workspace) RefreshAll(ctx context.Context) (map[string]types.FetchStatus, error) {
	g, gctx := errgroup.WithContext(ctx)
	if w.concurrency > 0 {
		g.SetLimit(w.concurrency)
	}

	var mu sync.Mutex
	statuses := make(map[string]types.FetchStatus, len(w.stores))

	for name, s := range w.stores {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			st := s.Refresh(gctx)
			mu.Lock()
			statuses[name] = st
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return statuses, err
	}
	return statuses, nil
}
