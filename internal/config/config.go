package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const appName = "mdviewer"

// Storage backends accepted by storage.backend.
var storageBackends = []string{"file", "sqlite", "mem", "keyring", "redis"}

// applyDefaults seeds Viper with defaults defined in GetConfigOptions.
func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load resolves configuration with precedence: defaults < file < env.
// The provided Viper instance is mutated with defaults, file contents, and env.
func Load(ctx context.Context, v *viper.Viper) error {
	// SetConfigFile upstream wins; these paths are fallbacks.
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, appName))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", appName))
		}
		v.AddConfigPath(".")
	}

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// an explicit --config path that does not exist is not an error either
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	// MDVIEWER_* env vars, with "." in keys mapped to "_"
	v.SetEnvPrefix(appName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		v.Set("data_dir", defaultDataDir())
	}
	return nil
}

// defaultDataDir resolves $XDG_DATA_HOME/mdviewer or ~/.local/share/mdviewer.
func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", appName)
}

// DefaultConfigPath resolves the standard config.toml location.
func DefaultConfigPath() string {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, _ := os.UserHomeDir()
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, appName, "config.toml")
}

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// GetConfigOptions is the single table of options, their defaults and help.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		{Key: "data_dir", Default: defaultDataDir(), Comment: "Directory for local state (recent list file or database)"},

		{Key: "storage.backend", Default: "file", Comment: "Recent list backend: file, sqlite, mem, keyring or redis"},
		{Key: "storage.url", Default: "", Comment: "Backend URL; empty derives one from storage.backend and data_dir"},

		{Key: "fetch.max_bytes", Default: 5 * 1024 * 1024, Comment: "Largest document accepted from a URL or file"},
		{Key: "fetch.timeout", Default: "30s", Comment: "HTTP timeout for remote documents"},

		{Key: "render.style", Default: "auto", Comment: "Terminal style: auto, dark, light, dracula, notty"},
		{Key: "render.word_wrap", Default: 0, Comment: "Terminal wrap width; 0 follows the terminal"},
		{Key: "render.theme", Default: "light", Comment: "Preview page theme: light or dark"},
		{Key: "render.mermaid_js", Default: "https://cdn.jsdelivr.net/npm/mermaid@11/dist/mermaid.min.js", Comment: "Script URL for mermaid diagrams"},

		{Key: "server.addr", Default: "127.0.0.1:6419", Comment: "Listen address for mdviewer serve"},

		{Key: "analytics.enabled", Default: true, Comment: "Record usage events"},
		{Key: "analytics.sink", Default: "log", Comment: "Event sink: log, prometheus or both"},

		{Key: "log.verbose", Default: false, Comment: "Write the debug log to stderr"},
	}
}

// ResolveDataDir returns data_dir with a leading ~ expanded.
func ResolveDataDir(v *viper.Viper) string {
	dir := v.GetString("data_dir")
	if dir == "" {
		dir = defaultDataDir()
	}
	if strings.HasPrefix(dir, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, dir[1:])
		}
	}
	return dir
}

// ResolveStorageURL returns storage.url, or the URL implied by storage.backend.
func ResolveStorageURL(v *viper.Viper) (string, error) {
	if u := strings.TrimSpace(v.GetString("storage.url")); u != "" {
		return u, nil
	}
	dir := ResolveDataDir(v)
	switch b := strings.ToLower(strings.TrimSpace(v.GetString("storage.backend"))); b {
	case "", "file":
		return "file://" + filepath.Join(dir, "recent.json"), nil
	case "sqlite":
		return "sqlite://" + filepath.Join(dir, appName+".db"), nil
	case "mem":
		return "mem://", nil
	case "keyring":
		return "keyring://" + appName, nil
	case "redis":
		return "redis://localhost:6379/0", nil
	default:
		return "", fmt.Errorf("unknown storage.backend %q", b)
	}
}
