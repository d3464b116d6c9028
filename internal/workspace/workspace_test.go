package workspace

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/backdesk/internal/api"
	"github.com/mesh-intelligence/backdesk/internal/catalog"
	"github.com/mesh-intelligence/backdesk/internal/notify"
	"github.com/mesh-intelligence/backdesk/internal/sqlite"
	"github.com/mesh-intelligence/backdesk/pkg/types"
)

var replies = map[string]string{
	"/customers":           `{"data":[{"id":1,"name":"Ada","email":"ada@x.io"},{"id":2,"name":"Bob","email":"bob@x.io"}]}`,
	"/products":            `{"data":[{"id":1,"code":"P1","name":"Bolt","price":2.5,"stock":10},{"id":2,"code":"P2","name":"Nut","price":1,"stock":3}]}`,
	"/suppliers":           `[{"id":1,"name":"Acme"}]`,
	"/purchases":           `[{"id":1,"reference":"PO-1","total":100},{"id":2,"reference":"PO-2","total":50.5}]`,
	"/quotes":              `[{"id":1,"status":"draft","total":10},{"id":2,"status":"sent","total":20}]`,
	"/invoices":            `{"data":[{"id":1,"status":"paid","total":300},{"id":2,"status":"sent","total":120},{"id":3,"status":"draft","total":5}]}`,
	"/users":               `[]`,
	"/inventory-movements": `{"data":[]}`,
}

func newBackend(t *testing.T, fail map[string]bool) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var inflight, peak atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := inflight.Add(1)
		defer inflight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)

		if fail[r.URL.Path] {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		body, ok := replies[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts, &peak
}

func TestRefreshAll(t *testing.T) {
	ts, peak := newBackend(t, map[string]bool{"/users": true})
	client := api.New(ts.URL, 5*time.Second)
	w := New(catalog.Standard(), client, notify.NewCenter(0), WithConcurrency(2))

	statuses, err := w.RefreshAll(context.Background())
	require.NoError(t, err)

	assert.Len(t, statuses, len(types.StandardResourceNames))
	assert.Equal(t, types.StateLoaded, statuses[types.ResourceCustomers].State)
	assert.Equal(t, types.StateError, statuses[types.ResourceUsers].State)
	assert.Equal(t, "request failed with status 503", statuses[types.ResourceUsers].Message)
	assert.LessOrEqual(t, peak.Load(), int32(2), "concurrency limit is honoured")

	s, err := w.Store(types.ResourceInvoices)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())
}

func TestRefreshAllCancelled(t *testing.T) {
	ts, _ := newBackend(t, nil)
	w := New(catalog.Standard(), api.New(ts.URL, time.Second), notify.NewCenter(0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := w.RefreshAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStoreUnknown(t *testing.T) {
	w := New(catalog.Standard(), api.New("http://unused", time.Second), notify.NewCenter(0))
	_, err := w.Store("widgets")
	assert.ErrorIs(t, err, types.ErrUnknownResource)
	_, err = w.Coordinator("widgets", nil)
	assert.ErrorIs(t, err, types.ErrUnknownResource)
}

func TestSummary(t *testing.T) {
	ts, _ := newBackend(t, nil)
	w := New(catalog.Standard(), api.New(ts.URL, 5*time.Second), notify.NewCenter(0))
	_, err := w.RefreshAll(context.Background())
	require.NoError(t, err)

	sum := w.Summary()

	require.Len(t, sum.Resources, len(types.StandardResourceNames))
	assert.Equal(t, "customers", sum.Resources[0].Name)
	assert.Equal(t, 2, sum.Resources[0].Count)
	assert.InDelta(t, 28.0, sum.InventoryValue, 1e-9)
	assert.Equal(t, 1, sum.LowStock)
	assert.InDelta(t, 30.0, sum.QuotesTotal, 1e-9)
	assert.InDelta(t, 425.0, sum.InvoicesTotal, 1e-9)
	assert.InDelta(t, 120.0, sum.InvoicesOpen, 1e-9)
	assert.InDelta(t, 150.5, sum.PurchasesTotal, 1e-9)
	assert.Equal(t, map[string]int{"paid": 1, "sent": 1, "draft": 1}, sum.InvoicesByStatus)
	assert.Equal(t, map[string]int{"draft": 1, "sent": 1}, sum.QuotesByStatus)
}

func TestRestoreFromSnapshotCache(t *testing.T) {
	cache := sqlite.NewCache()
	require.NoError(t, cache.Attach(filepath.Join(t.TempDir(), "snapshots.db")))
	defer cache.Detach()

	ts, _ := newBackend(t, nil)
	first := New(catalog.Standard(), api.New(ts.URL, 5*time.Second), notify.NewCenter(0), WithSnapshotCache(cache))
	_, err := first.RefreshAll(context.Background())
	require.NoError(t, err)

	offline := New(catalog.Standard(), api.New("http://127.0.0.1:1", time.Second), notify.NewCenter(0), WithSnapshotCache(cache))
	assert.Equal(t, len(types.StandardResourceNames), offline.Restore(context.Background()))

	s, err := offline.Store(types.ResourceSuppliers)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
	assert.True(t, s.Stale())
}

func TestCoordinatorUsesWorkspaceStore(t *testing.T) {
	var deleted atomic.Bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodDelete && r.URL.Path == "/suppliers/1":
			deleted.Store(true)
			w.WriteHeader(http.StatusNoContent)
		case deleted.Load():
			w.Write([]byte(`[]`))
		default:
			w.Write([]byte(`[{"id":1,"name":"Acme"}]`))
		}
	}))
	defer ts.Close()

	w := New(catalog.Standard(), api.New(ts.URL, 5*time.Second), notify.NewCenter(0))
	s, err := w.Store(types.ResourceSuppliers)
	require.NoError(t, err)
	s.Refresh(context.Background())

	co, err := w.Coordinator(types.ResourceSuppliers, nil)
	require.NoError(t, err)
	r := co.Remove(context.Background(), "1")

	require.True(t, r.OK, r.Message)
	assert.Equal(t, 0, s.Len())
	assert.Len(t, w.Notifications().Active(), 1)
}
