package types

import (
	"errors"
	"net/url"
	"time"
)

// Response ordering policies for concurrent refreshes of one collection.
const (
	// OrderLatestIssued drops a response when a newer refresh was issued.
	OrderLatestIssued = "latest-issued"
	// OrderLastCompleted applies every response; the last to arrive wins.
	OrderLastCompleted = "last-completed"
)

// Store reconciliation modes after a successful mutation.
const (
	ReconcileRefetch = "refetch"
	ReconcileSplice  = "splice"
)

// ResourceOverride replaces the path or envelope of a catalog resource.
type ResourceOverride struct {
	Path     string `mapstructure:"path" yaml:"path,omitempty"`
	Envelope string `mapstructure:"envelope" yaml:"envelope,omitempty"`
}

// LogConfig selects the logger level and encoding.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// AuthConfig holds the authentication endpoint paths.
type AuthConfig struct {
	LoginPath   string `mapstructure:"login_path" yaml:"login_path"`
	RefreshPath string `mapstructure:"refresh_path" yaml:"refresh_path"`
}

// Config holds everything needed to talk to one backend.
type Config struct {
	BaseURL              string                      `mapstructure:"base_url" yaml:"base_url"`
	Timeout              time.Duration               `mapstructure:"timeout" yaml:"timeout"`
	PageSize             int                         `mapstructure:"page_size" yaml:"page_size"`
	Currency             string                      `mapstructure:"currency" yaml:"currency"`
	Locale               string                      `mapstructure:"locale" yaml:"locale"`
	NotificationTTL      time.Duration               `mapstructure:"notification_ttl" yaml:"notification_ttl"`
	LogoutOnUnauthorized bool                        `mapstructure:"logout_on_unauthorized" yaml:"logout_on_unauthorized"`
	Ordering             string                      `mapstructure:"ordering" yaml:"ordering"`
	Reconcile            string                      `mapstructure:"reconcile" yaml:"reconcile"`
	RefreshConcurrency   int                         `mapstructure:"refresh_concurrency" yaml:"refresh_concurrency"`
	MetricsTextfile      string                      `mapstructure:"metrics_textfile" yaml:"metrics_textfile,omitempty"`
	DataDir              string                      `mapstructure:"data_dir" yaml:"data_dir,omitempty"`
	Log                  LogConfig                   `mapstructure:"log" yaml:"log"`
	Auth                 AuthConfig                  `mapstructure:"auth" yaml:"auth"`
	Resources            map[string]ResourceOverride `mapstructure:"resources" yaml:"resources,omitempty"`
}

// Config validation errors.
var (
	ErrBaseURLEmpty       = errors.New("base_url must not be empty")
	ErrBaseURLInvalid     = errors.New("base_url must be an absolute http(s) URL")
	ErrTimeoutInvalid     = errors.New("timeout must not be negative")
	ErrOrderingUnknown    = errors.New("unknown ordering policy")
	ErrReconcileUnknown   = errors.New("unknown reconcile mode")
	ErrConcurrencyInvalid = errors.New("refresh_concurrency must not be negative")
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:              "http://localhost:8000/api",
		Timeout:              30 * time.Second,
		PageSize:             DefaultPageSize,
		Currency:             "USD",
		Locale:               "en",
		NotificationTTL:      3 * time.Second,
		LogoutOnUnauthorized: true,
		Ordering:             OrderLatestIssued,
		Reconcile:            ReconcileRefetch,
		RefreshConcurrency:   4,
		Log:                  LogConfig{Level: "warn", Format: "console"},
		Auth:                 AuthConfig{LoginPath: "/auth/login", RefreshPath: "/auth/refresh"},
	}
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return ErrBaseURLEmpty
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrBaseURLInvalid
	}
	if c.Timeout < 0 {
		return ErrTimeoutInvalid
	}
	if c.PageSize <= 0 {
		return ErrPageSizeInvalid
	}
	switch c.Ordering {
	case OrderLatestIssued, OrderLastCompleted:
	default:
		return ErrOrderingUnknown
	}
	switch c.Reconcile {
	case ReconcileRefetch, ReconcileSplice:
	default:
		return ErrReconcileUnknown
	}
	if c.RefreshConcurrency < 0 {
		return ErrConcurrencyInvalid
	}
	return nil
}
