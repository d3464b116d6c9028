package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/backdesk/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "BACKDESK"
)

// loadConfig reads config.yaml from configDir over the built-in defaults.
// BACKDESK_* environment variables override both. A missing config.yaml is
// not an error.
func loadConfig(configDir string) (types.Config, error) {
	v := viper.New()
	setDefaults(v, types.DefaultConfig())

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return types.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every key so that environment overrides apply even
// when config.yaml omits the key.
func setDefaults(v *viper.Viper, def types.Config) {
	v.SetDefault("base_url", def.BaseURL)
	v.SetDefault("timeout", def.Timeout)
	v.SetDefault("page_size", def.PageSize)
	v.SetDefault("currency", def.Currency)
	v.SetDefault("locale", def.Locale)
	v.SetDefault("notification_ttl", def.NotificationTTL)
	v.SetDefault("logout_on_unauthorized", def.LogoutOnUnauthorized)
	v.SetDefault("ordering", def.Ordering)
	v.SetDefault("reconcile", def.Reconcile)
	v.SetDefault("refresh_concurrency", def.RefreshConcurrency)
	v.SetDefault("metrics_textfile", def.MetricsTextfile)
	v.SetDefault("data_dir", def.DataDir)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("auth.login_path", def.Auth.LoginPath)
	v.SetDefault("auth.refresh_path", def.Auth.RefreshPath)
}

// configFile is the structure written to config.yaml by init. Durations are
// kept as text so the file stays readable.
type configFile struct {
	BaseURL              string           `yaml:"base_url"`
	Timeout              string           `yaml:"timeout"`
	PageSize             int              `yaml:"page_size"`
	Currency             string           `yaml:"currency"`
	Locale               string           `yaml:"locale"`
	NotificationTTL      string           `yaml:"notification_ttl"`
	LogoutOnUnauthorized bool             `yaml:"logout_on_unauthorized"`
	Ordering             string           `yaml:"ordering"`
	Reconcile            string           `yaml:"reconcile"`
	RefreshConcurrency   int              `yaml:"refresh_concurrency"`
	DataDir              string           `yaml:"data_dir,omitempty"`
	Log                  types.LogConfig  `yaml:"log"`
	Auth                 types.AuthConfig `yaml:"auth"`
}

func newConfigFile(cfg types.Config) configFile {
	return configFile{
		BaseURL:              cfg.BaseURL,
		Timeout:              cfg.Timeout.String(),
		PageSize:             cfg.PageSize,
		Currency:             cfg.Currency,
		Locale:               cfg.Locale,
		NotificationTTL:      cfg.NotificationTTL.String(),
		LogoutOnUnauthorized: cfg.LogoutOnUnauthorized,
		Ordering:             cfg.Ordering,
		Reconcile:            cfg.Reconcile,
		RefreshConcurrency:   cfg.RefreshConcurrency,
		DataDir:              cfg.DataDir,
		Log:                  cfg.Log,
		Auth:                 cfg.Auth,
	}
}
