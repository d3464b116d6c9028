// Package notify keeps the transient success and error messages shown to the
// operator. Each notification expires after a fixed TTL.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/backdesk/internal/metrics"
)

// DefaultTTL is how long a notification stays visible.
const DefaultTTL = 3 * time.Second

// Kind classifies a notification.
type Kind string

// Notification kinds.
const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notification is one message to the operator.
type Notification struct {
	ID        string
	Kind      Kind
	Message   string
	CreatedAt time.Time
}

// Center holds active notifications. It is safe for concurrent use.
type Center struct {
	ttl     time.Duration
	now     func() time.Time
	logger  *zap.Logger
	metrics *metrics.Metrics

	mu    sync.Mutex
	items []Notification
	sinks []func(Notification)
}

// Option configures a Center.
type Option func(*Center)

// WithClock sets the time source used for creation and expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Center) { c.now = now }
}

// WithLogger logs every notification at info or warn.
func WithLogger(l *zap.Logger) Option {
	return func(c *Center) { c.logger = l }
}

// WithMetrics counts notifications by kind.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Center) { c.metrics = m }
}

// NewCenter creates a center whose notifications expire after ttl.
// A non-positive ttl selects DefaultTTL.
func NewCenter(ttl time.Duration, opts ...Option) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Center{ttl: ttl, now: time.Now, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe calls fn synchronously for every notification pushed afterwards.
func (c *Center) Subscribe(fn func(Notification)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sinks = append(c.sinks, fn)
}

// Push records a notification.
func (c *Center) Push(kind Kind, message string) Notification {
	n := Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   message,
		CreatedAt: c.now(),
	}

	c.mu.Lock()
	c.pruneLocked(n.CreatedAt)
	c.items = append(c.items, n)
	sinks := append([]func(Notification){}, c.sinks...)
	c.mu.Unlock()

	if kind == KindError {
		c.logger.Warn("notification", zap.String("kind", string(kind)), zap.String("message", message))
	} else {
		c.logger.Info("notification", zap.String("kind", string(kind)), zap.String("message", message))
	}
	c.metrics.RecordNotification(string(kind))
	for _, fn := range sinks {
		fn(n)
	}
	return n
}

// Success pushes a success notification.
func (c *Center) Success(message string) Notification {
	return c.Push(KindSuccess, message)
}

// Error pushes an error notification.
func (c *Center) Error(message string) Notification {
	return c.Push(KindError, message)
}

// Active returns the unexpired notifications, oldest first.
func (c *Center) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pruneLocked(c.now())
	out := make([]Notification, len(c.items))
	copy(out, c.items)
	return out
}

// Dismiss removes the notification with id before it expires.
func (c *Center) Dismiss(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, n := range c.items {
		if n.ID == id {
			c.items = append(c.items[:i:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Center) pruneLocked(now time.Time) {
	kept := c.items[:0]
	for _, n := range c.items {
		if now.Sub(n.CreatedAt) < c.ttl {
			kept = append(kept, n)
		}
	}
	clear(c.items[len(kept):])
	c.items = kept
}
