package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/backdesk/internal/paths"
	"github.com/mesh-intelligence/backdesk/internal/sqlite"
	"github.com/mesh-intelligence/backdesk/pkg/types"
)

func (a *app) newInitCmd() *cobra.Command {
	var baseURL string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config.yaml and create the snapshot cache",
		Long: "Create the configuration directory with a default config.yaml, then create\n" +
			"the data directory and the snapshot cache. An existing config.yaml is kept.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(cmd, baseURL)
		},
	}
	cmd.Flags().StringVar(&baseURL, "base-url", "", "backend base URL written to a new config.yaml")
	return cmd
}

func (a *app) runInit(cmd *cobra.Command, baseURL string) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return sysError(fmt.Errorf("create config directory: %w", err))
	}

	cfg := types.DefaultConfig()
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	configPath := paths.ConfigFile(configDir)
	written, err := writeConfigIfMissing(configPath, cfg)
	if err != nil {
		return sysError(fmt.Errorf("write config: %w", err))
	}

	loaded, err := loadConfig(configDir)
	if err != nil {
		return userError(err)
	}
	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, loaded.DataDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve data dir: %w", err))
	}

	cache := sqlite.NewCache()
	if err := cache.Attach(paths.SnapshotFile(dataDir)); err != nil {
		return sysError(fmt.Errorf("initialize snapshot cache: %w", err))
	}
	if err := cache.Detach(); err != nil {
		return sysError(fmt.Errorf("finalize snapshot cache: %w", err))
	}

	out := cmd.OutOrStdout()
	if written {
		fmt.Fprintf(out, "wrote %s\n", configPath)
	} else {
		fmt.Fprintf(out, "kept existing %s\n", configPath)
	}
	fmt.Fprintf(out, "snapshot cache at %s\n", paths.SnapshotFile(dataDir))
	return nil
}

// writeConfigIfMissing creates config.yaml from cfg if the file does not
// exist. It reports whether the file was written.
func writeConfigIfMissing(path string, cfg types.Config) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}

	data, err := yaml.Marshal(newConfigFile(cfg))
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
