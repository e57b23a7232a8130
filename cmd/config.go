package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/eykd/structgen-go/internal/logging"
	"github.com/eykd/structgen-go/internal/settings"
)

// envPrefix namespaces the environment variables read into Config.
const envPrefix = "STRUCTGEN"

// Config is the resolved run configuration shared by all subcommands.
type Config struct {
	Root        string
	MaxPath     int
	SettingsDir string
	LogDir      string
	LogLevel    string
}

type configKey struct{}

func withConfig(ctx context.Context, cfg Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// configFrom returns the Config stored by the root command, or the zero
// Config when a subcommand runs on its own.
func configFrom(ctx context.Context) Config {
	if ctx != nil {
		if cfg, ok := ctx.Value(configKey{}).(Config); ok {
			return cfg
		}
	}
	return Config{}
}

// loadConfig layers flags over STRUCTGEN_* environment variables over the
// optional --config file.
func loadConfig(v *viper.Viper, flags *pflag.FlagSet) (Config, error) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return Config{}, fmt.Errorf("binding flags: %w", err)
	}

	if file := v.GetString("config"); file != "" {
		path, err := homedir.Expand(file)
		if err != nil {
			return Config{}, fmt.Errorf("expanding config path: %w", err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := Config{
		Root:        strings.TrimSpace(v.GetString("root")),
		MaxPath:     v.GetInt("max-path"),
		SettingsDir: v.GetString("settings-dir"),
		LogDir:      v.GetString("log-dir"),
		LogLevel:    v.GetString("log-level"),
	}

	var err error
	if cfg.SettingsDir, err = expandDir(cfg.SettingsDir); err != nil {
		return Config{}, err
	}
	if cfg.SettingsDir == "" {
		cfg.SettingsDir = defaultSettingsDir()
	}
	if cfg.LogDir, err = expandDir(cfg.LogDir); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func expandDir(dir string) (string, error) {
	if dir == "" {
		return "", nil
	}
	expanded, err := homedir.Expand(dir)
	if err != nil {
		return "", fmt.Errorf("expanding %q: %w", dir, err)
	}
	return expanded, nil
}

// defaultSettingsDir returns <user config dir>/structgen, or "" when the
// platform has no user config dir.
func defaultSettingsDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "structgen")
}

// fillRootFromSettings falls back to the saved default root when no root
// was configured.
func fillRootFromSettings(cfg Config, fsys afero.Fs, log *slog.Logger) Config {
	if cfg.Root != "" || cfg.SettingsDir == "" {
		return cfg
	}
	st, err := settings.NewStore(fsys, logging.Sub(log, "settings")).Load(cfg.SettingsDir)
	if err != nil {
		log.Warn("settings unavailable", "dir", cfg.SettingsDir, "err", err)
		return cfg
	}
	cfg.Root = st.RootDir
	return cfg
}
