// Package config handles configuration file loading and resolution of the
// OpenBench installation layout.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/benchtheme/internal/backup"
	"github.com/jmylchreest/benchtheme/internal/css"
	"github.com/jmylchreest/benchtheme/internal/theme"
	"github.com/jmylchreest/benchtheme/internal/version"
)

// Default configuration values, relative to the installation root.
const (
	DefaultStaticDir   = "OpenBench/static"
	DefaultThemesDir   = "themes"
	DefaultBackupsDir  = "theme_backups"
	DefaultVersionFile = "OpenBench/config.py"
	DefaultDebounce    = 250 * time.Millisecond
)

// DefaultCSSFiles are the stylesheets that are backed up and restored.
var DefaultCSSFiles = []string{"style.css", "form.css", "paging.css", "base.css"}

// ErrRootNotFound is returned when no OpenBench installation can be located.
var ErrRootNotFound = errors.New("could not find OpenBench root directory; use --path")

// Config represents the benchtheme configuration.
type Config struct {
	Paths   PathsConfig   `toml:"paths"`
	CSS     CSSConfig     `toml:"css"`
	Version VersionConfig `toml:"version"`
	Watch   WatchConfig   `toml:"watch"`
}

// PathsConfig locates the installation. Relative paths are resolved against Root.
type PathsConfig struct {
	Root        string `toml:"root"`         // Empty = auto-detect
	StaticDir   string `toml:"static_dir"`   // Directory holding the stylesheets
	ThemesDir   string `toml:"themes_dir"`   // Directory holding theme_*.json files
	BackupsDir  string `toml:"backups_dir"`  // Directory holding backup_* directories
	VersionFile string `toml:"version_file"` // File declaring the static version
}

// CSSConfig lists the stylesheets and extra mapping rules.
type CSSConfig struct {
	Files []string   `toml:"files"`
	Rules []css.Rule `toml:"rules"` // Appended to the built-in mapping table
}

// VersionConfig describes the version declaration.
type VersionConfig struct {
	Key          string `toml:"key"`           // Constant name in the version file
	DefaultTheme string `toml:"default_theme"` // Theme that removes the suffix
}

// WatchConfig holds settings for the watch command.
type WatchConfig struct {
	Debounce Duration `toml:"debounce"`
}

// Duration is a time.Duration that can be unmarshaled from strings like "250ms"
// or from integer milliseconds.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '250ms', '1s' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			Root:        "",
			StaticDir:   DefaultStaticDir,
			ThemesDir:   DefaultThemesDir,
			BackupsDir:  DefaultBackupsDir,
			VersionFile: DefaultVersionFile,
		},
		CSS: CSSConfig{
			Files: append([]string(nil), DefaultCSSFiles...),
		},
		Version: VersionConfig{
			Key:          version.DefaultKey,
			DefaultTheme: theme.DefaultThemeName,
		},
		Watch: WatchConfig{
			Debounce: Duration(DefaultDebounce),
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "benchtheme", "config.toml")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Rules returns the built-in mapping table followed by any configured rules.
func (c *Config) Rules() []css.Rule {
	rules := append([]css.Rule(nil), css.DefaultRules...)
	return append(rules, c.CSS.Rules...)
}

// StylesheetFiles returns css.files followed by any other file a mapping
// rule rewrites, so everything apply touches is also backed up.
func (c *Config) StylesheetFiles() []string {
	files := append([]string(nil), c.CSS.Files...)
	for _, rule := range c.Rules() {
		if rule.File != "" && !slices.Contains(files, rule.File) {
			files = append(files, rule.File)
		}
	}
	return files
}

// Layout is the resolved set of absolute paths for one installation.
type Layout struct {
	Root        string
	StaticDir   string
	ThemesDir   string
	BackupsDir  string
	VersionFile string
	CSSFiles    []string
}

// Resolve builds the Layout for root, resolving relative configured paths against it.
func (c *Config) Resolve(root string) Layout {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(root, filepath.FromSlash(p))
	}

	return Layout{
		Root:        root,
		StaticDir:   abs(c.Paths.StaticDir),
		ThemesDir:   abs(c.Paths.ThemesDir),
		BackupsDir:  abs(c.Paths.BackupsDir),
		VersionFile: abs(c.Paths.VersionFile),
		CSSFiles:    c.StylesheetFiles(),
	}
}

// BackupTargets lists the live files included in backups: every stylesheet
// followed by the version file.
func (l Layout) BackupTargets() []backup.Target {
	targets := make([]backup.Target, 0, len(l.CSSFiles)+1)
	for _, name := range l.CSSFiles {
		targets = append(targets, backup.Target{Name: name, Path: filepath.Join(l.StaticDir, name)})
	}
	if l.VersionFile != "" {
		targets = append(targets, backup.Target{Name: filepath.Base(l.VersionFile), Path: l.VersionFile})
	}
	return targets
}

// EnsureDirs creates the themes and backups directories.
func (l Layout) EnsureDirs() error {
	for _, dir := range []string{l.ThemesDir, l.BackupsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
