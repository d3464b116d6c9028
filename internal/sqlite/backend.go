// Package sqlite implements the snapshot cache: a local SQLite database that
// keeps the last successfully fetched payload per resource so that the CLI
// can show last-known-good data when the backend is unreachable.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/backdesk/pkg/types"
)

// Cache errors.
var (
	ErrAlreadyAttached = errors.New("snapshot cache already attached")
	ErrDetached        = errors.New("snapshot cache detached")
)

// Snapshot is one cached collection payload.
type Snapshot struct {
	Resource  string
	Payload   []byte
	Items     int
	FetchedAt time.Time
}

// Cache stores raw collection payloads keyed by resource name.
type Cache struct {
	mu       sync.RWMutex
	attached bool
	path     string
	db       *sql.DB
	now      func() time.Time
}

// NewCache creates a detached cache. Call Attach before use.
func NewCache() *Cache {
	return &Cache{now: time.Now}
}

// Attach opens (creating if needed) the database at path and applies the
// schema. Returns ErrAlreadyAttached if already attached.
func (c *Cache) Attach(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.attached {
		return ErrAlreadyAttached
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening snapshot cache: %w", err)
	}
	// Single connection: sqlite serializes writers.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return fmt.Errorf("applying snapshot schema: %w", err)
	}

	c.db = db
	c.path = path
	c.attached = true
	return nil
}

// Detach closes the database. Detach is idempotent.
func (c *Cache) Detach() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.attached {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	c.attached = false
	return err
}

// Path returns the database file the cache is attached to.
func (c *Cache) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.path
}

// SaveSnapshot replaces the cached payload for resource.
func (c *Cache) SaveSnapshot(ctx context.Context, resource string, payload []byte, items int) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.attached {
		return ErrDetached
	}
	_, err := c.db.ExecContext(ctx, upsertSnapshot,
		resource, payload, items, c.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("saving snapshot for %s: %w", resource, err)
	}
	return nil
}

// LoadSnapshot returns the cached payload for resource, or types.ErrNotFound.
func (c *Cache) LoadSnapshot(ctx context.Context, resource string) (Snapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.attached {
		return Snapshot{}, ErrDetached
	}

	var (
		snap      Snapshot
		fetchedAt string
	)
	row := c.db.QueryRowContext(ctx, selectSnapshot, resource)
	if err := row.Scan(&snap.Resource, &snap.Payload, &snap.Items, &fetchedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, types.ErrNotFound
		}
		return Snapshot{}, fmt.Errorf("loading snapshot for %s: %w", resource, err)
	}
	t, err := time.Parse(time.RFC3339Nano, fetchedAt)
	if err != nil {
		return Snapshot{}, fmt.Errorf("parsing snapshot time for %s: %w", resource, err)
	}
	snap.FetchedAt = t
	return snap, nil
}

// DeleteSnapshot removes the cached payload for resource. Deleting a missing
// snapshot is not an error.
func (c *Cache) DeleteSnapshot(ctx context.Context, resource string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.attached {
		return ErrDetached
	}
	if _, err := c.db.ExecContext(ctx, deleteSnapshot, resource); err != nil {
		return fmt.Errorf("deleting snapshot for %s: %w", resource, err)
	}
	return nil
}

// Resources lists the resource names that have a snapshot, sorted.
func (c *Cache) Resources(ctx context.Context) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.attached {
		return nil, ErrDetached
	}
	rows, err := c.db.QueryContext(ctx, listSnapshots)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, rows.Err()
}
