package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/backdesk/internal/api"
	"github.com/mesh-intelligence/backdesk/internal/auth"
	"github.com/mesh-intelligence/backdesk/internal/catalog"
	"github.com/mesh-intelligence/backdesk/internal/logging"
	"github.com/mesh-intelligence/backdesk/internal/metrics"
	"github.com/mesh-intelligence/backdesk/internal/mutation"
	"github.com/mesh-intelligence/backdesk/internal/notify"
	"github.com/mesh-intelligence/backdesk/internal/paths"
	"github.com/mesh-intelligence/backdesk/internal/sqlite"
	"github.com/mesh-intelligence/backdesk/internal/store"
	"github.com/mesh-intelligence/backdesk/internal/workspace"
	"github.com/mesh-intelligence/backdesk/pkg/types"
)

// runtime is everything a command needs to talk to the backend.
type runtime struct {
	cfg       types.Config
	dataDir   string
	tokenPath string
	logger    *zap.Logger
	registry  *prometheus.Registry
	metrics   *metrics.Metrics
	creds     *auth.Credentials
	client    *api.Client
	cache     *sqlite.Cache
	notes     *notify.Center
	ws        *workspace.Workspace

	mu sync.Mutex

	// lastError is the message of the most recent error notification.
	lastError string

	// denied is set once the backend has answered 401.
	denied bool
}

// open loads configuration and wires the client, cache and workspace.
// Notifications are printed to errOut as they are pushed.
func (a *app) open(errOut io.Writer) (*runtime, error) {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return nil, sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return nil, userError(err)
	}
	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, cfg.DataDir)
	if err != nil {
		return nil, sysError(fmt.Errorf("resolve data dir: %w", err))
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, userError(err)
	}

	rt := &runtime{
		cfg:       cfg,
		dataDir:   dataDir,
		tokenPath: paths.TokenFile(dataDir),
		logger:    logger,
		registry:  prometheus.NewRegistry(),
		creds:     auth.NewCredentials(""),
	}
	rt.metrics = metrics.New(rt.registry)

	rt.notes = notify.NewCenter(cfg.NotificationTTL,
		notify.WithLogger(logger),
		notify.WithMetrics(rt.metrics))
	rt.notes.Subscribe(func(n notify.Notification) {
		rt.mu.Lock()
		defer rt.mu.Unlock()
		if n.Kind == notify.KindError {
			rt.lastError = n.Message
		}
		fmt.Fprintf(errOut, "%s: %s\n", n.Kind, n.Message)
	})

	if ok, err := auth.Restore(rt.creds, rt.tokenPath, cfg.BaseURL); err != nil {
		logger.Warn("reading token file failed", zap.String("path", rt.tokenPath), zap.Error(err))
	} else if ok && rt.creds.Expired(time.Now(), 0) {
		logger.Warn("stored token has expired", zap.String("subject", rt.creds.Subject()))
	}

	rt.client = api.New(cfg.BaseURL, cfg.Timeout,
		api.WithCredentials(rt.creds),
		api.WithLogger(logger),
		api.WithMetrics(rt.metrics),
		api.WithAuthPaths(cfg.Auth),
		api.WithUnauthorizedHook(rt.unauthorized))

	cat, err := catalog.Standard().Apply(cfg.Resources)
	if err != nil {
		return nil, userError(err)
	}

	rt.cache = sqlite.NewCache()
	if err := rt.cache.Attach(paths.SnapshotFile(dataDir)); err != nil {
		return nil, sysError(fmt.Errorf("open snapshot cache: %w", err))
	}

	rt.ws = workspace.New(cat, rt.client, rt.notes,
		workspace.WithLogger(logger),
		workspace.WithMetrics(rt.metrics),
		workspace.WithSnapshotCache(rt.cache),
		workspace.WithOrdering(cfg.Ordering),
		workspace.WithReconcile(cfg.Reconcile),
		workspace.WithConcurrency(cfg.RefreshConcurrency))
	return rt, nil
}

// unauthorized runs when the backend answers 401.
func (rt *runtime) unauthorized() {
	rt.mu.Lock()
	rt.denied = true
	rt.mu.Unlock()
	if !rt.cfg.LogoutOnUnauthorized || !rt.creds.Present() {
		return
	}
	rt.creds.Clear()
	if err := auth.DeleteToken(rt.tokenPath); err != nil {
		rt.logger.Warn("removing token file failed", zap.Error(err))
	}
	rt.notes.Error("session expired; run backdesk login")
}

// failure converts a failed mutation result into a command error. Errors
// already shown as a notification are not printed again.
func (rt *runtime) failure(r mutation.Result) error {
	rt.mu.Lock()
	last := rt.lastError
	rt.mu.Unlock()
	if r.Message != "" && r.Message == last {
		return reported(r.Err)
	}
	return &exitErr{code: classify(r.Err), err: r.Err}
}

// close writes the metrics textfile when configured and releases the cache.
func (rt *runtime) close() {
	if path := rt.cfg.MetricsTextfile; path != "" {
		if err := metrics.WriteTextfile(path, rt.registry); err != nil {
			rt.logger.Warn("writing metrics textfile failed", zap.String("path", path), zap.Error(err))
		}
	}
	if err := rt.cache.Detach(); err != nil {
		rt.logger.Warn("closing snapshot cache failed", zap.Error(err))
	}
	_ = rt.logger.Sync()
}

// resource looks up name in the catalog, reporting unknown names as user
// errors.
func (rt *runtime) resource(name string) (types.Resource, error) {
	res, err := rt.ws.Catalog().Lookup(name)
	if err != nil {
		return types.Resource{}, userError(fmt.Errorf("%w (valid: %s)", err, strings.Join(rt.ws.Catalog().Names(), ", ")))
	}
	return res, nil
}

// runFunc is the body of a command that needs a runtime.
type runFunc func(ctx context.Context, cmd *cobra.Command, args []string, rt *runtime) error

// withRuntime opens a runtime around fn and closes it afterwards.
func (a *app) withRuntime(fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		rt, err := a.open(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer rt.close()
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return fn(ctx, cmd, args, rt)
	}
}

// refreshed restores and refreshes the named store. A failed refresh is
// fatal unless a snapshot is available, in which case a warning is printed
// and the cached rows are used.
func refreshed(ctx context.Context, cmd *cobra.Command, rt *runtime, name string) (*store.Store[types.Record], error) {
	s, err := rt.ws.Store(name)
	if err != nil {
		return nil, userError(err)
	}
	restored, err := s.Restore(ctx)
	if err != nil {
		rt.logger.Warn("restoring snapshot failed", zap.String("resource", name), zap.Error(err))
	}
	st := s.Refresh(ctx)
	if !st.Failed() {
		return s, nil
	}
	if restored {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s; showing data cached at %s\n",
			st.Message, st.LoadedAt.Local().Format(time.DateTime))
		return s, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, sysError(err)
	}
	rt.mu.Lock()
	denied := rt.denied
	rt.mu.Unlock()
	if denied {
		return nil, userError(fmt.Errorf("%s: %w", st.Message, types.ErrUnauthorized))
	}
	return nil, sysError(errors.New(st.Message))
}
