// Package version rewrites the static asset version declaration so browsers
// fetch restyled CSS instead of serving cached copies.
package version

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/jmylchreest/benchtheme/internal/fsutil"
)

// DefaultKey is the name of the version constant in OpenBench's config.py.
const DefaultKey = "OPENBENCH_STATIC_VERSION"

// Version errors.
var (
	ErrVersionPatternNotFound = errors.New("version declaration not found")
	ErrInvalidVersion         = errors.New("invalid static version")
)

// unsafeChars may not appear in a written version: they would end the
// quoted literal or the line.
const unsafeChars = "'\"\\\r\n"

// SuffixSeparator separates the base version from the theme suffix.
const SuffixSeparator = "-"

// Base strips any theme suffix: "v6-seajay" -> "v6".
func Base(v string) string {
	if idx := strings.Index(v, SuffixSeparator); idx >= 0 {
		return v[:idx]
	}
	return v
}

// Suffix returns the theme suffix of v, or "" when it has none: "v6-seajay" -> "seajay".
func Suffix(v string) string {
	if _, suffix, found := strings.Cut(v, SuffixSeparator); found {
		return suffix
	}
	return ""
}

// WithTheme returns the version for a theme short name.
// The default theme (compared case-insensitively) gets no suffix.
func WithTheme(v, shortName, defaultTheme string) string {
	base := Base(v)
	if shortName == "" || strings.EqualFold(shortName, defaultTheme) {
		return base
	}
	return base + SuffixSeparator + shortName
}

// Change describes a version rewrite.
type Change struct {
	Old string `json:"old" yaml:"old"`
	New string `json:"new" yaml:"new"`
}

// Updater edits the version declaration in a configuration file.
type Updater struct {
	logger       *slog.Logger
	path         string
	defaultTheme string
	pattern      *regexp.Regexp
}

// NewUpdater creates an updater for the declaration of key in path.
// An empty key uses DefaultKey.
func NewUpdater(path, key, defaultTheme string, logger *slog.Logger) *Updater {
	if logger == nil {
		logger = slog.Default()
	}
	if key == "" {
		key = DefaultKey
	}
	return &Updater{
		logger:       logger,
		path:         path,
		defaultTheme: defaultTheme,
		// KEY = 'value' or KEY = "value"
		pattern: regexp.MustCompile(`(?m)^(\s*` + regexp.QuoteMeta(key) + `\s*=\s*)(?:'([^'\n]*)'|"([^"\n]*)")`),
	}
}

// Path returns the configuration file being edited.
func (u *Updater) Path() string {
	return u.path
}

// Current returns the declared version.
func (u *Updater) Current() (string, error) {
	content, err := os.ReadFile(u.path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", u.path, err)
	}
	_, value, _, err := u.locate(string(content))
	return value, err
}

// Preview returns the change Update would make without writing.
func (u *Updater) Preview(shortName string) (Change, error) {
	current, err := u.Current()
	if err != nil {
		return Change{}, err
	}
	return Change{Old: current, New: WithTheme(current, shortName, u.defaultTheme)}, nil
}

// Update rewrites the version for the theme short name and returns the change.
// The file is left untouched when the version is already current.
func (u *Updater) Update(shortName string) (Change, error) {
	data, err := os.ReadFile(u.path)
	if err != nil {
		return Change{}, fmt.Errorf("failed to read %s: %w", u.path, err)
	}
	content := string(data)

	loc, old, quote, err := u.locate(content)
	if err != nil {
		return Change{}, err
	}

	change := Change{Old: old, New: WithTheme(old, shortName, u.defaultTheme)}
	if strings.ContainsAny(change.New, unsafeChars) {
		return Change{}, fmt.Errorf("%w: %q", ErrInvalidVersion, change.New)
	}
	if change.New == change.Old {
		u.logger.Debug("static version unchanged", "version", old)
		return change, nil
	}

	// loc spans prefix + quoted value
	updated := content[:loc[0]] + content[loc[2]:loc[3]] + quote + change.New + quote + content[loc[1]:]
	if err := fsutil.WriteFile(u.path, []byte(updated)); err != nil {
		return Change{}, err
	}

	u.logger.Info("updated static version", "old", change.Old, "new", change.New)
	return change, nil
}

// locate finds the declaration and returns its submatch indexes, value and quote.
func (u *Updater) locate(content string) ([]int, string, string, error) {
	loc := u.pattern.FindStringSubmatchIndex(content)
	if loc == nil {
		return nil, "", "", fmt.Errorf("%w in %s", ErrVersionPatternNotFound, u.path)
	}
	if loc[4] >= 0 {
		return loc, content[loc[4]:loc[5]], "'", nil
	}
	return loc, content[loc[6]:loc[7]], `"`, nil
}
