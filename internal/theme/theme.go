package theme

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Theme loading errors.
var (
	ErrInvalidThemeFile = errors.New("invalid theme file")
	ErrMissingField     = errors.New("missing color field")
)

// DefaultThemeName is the short name of the stock OpenBench theme.
// Applying it removes the version suffix.
const DefaultThemeName = "original"

// Color categories used by the mapping table.
const (
	CategoryBackgrounds = "backgrounds"
	CategoryText        = "text"
	CategoryLinks       = "links"
	CategoryUIElements  = "ui_elements"
	CategoryButtons     = "buttons"
)

var (
	nonIdentRegex   = regexp.MustCompile(`[^a-z0-9_]+`)
	hexColorRegex   = regexp.MustCompile(`^#(?:[0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)
)

// Document is a parsed theme file.
type Document struct {
	Name        string                       `json:"name" yaml:"name"`
	Description string                       `json:"description" yaml:"description"`
	Colors      map[string]map[string]string `json:"colors" yaml:"colors"`

	// Path is where the document was loaded from (empty for bundled themes).
	Path string `json:"-" yaml:"-"`
}

// ShortName returns the identifier used as the static version suffix:
// the theme name lower-cased, with every run of characters outside
// [a-z0-9_] replaced by one underscore and outer underscores trimmed.
func (d *Document) ShortName() string {
	name := nonIdentRegex.ReplaceAllString(strings.ToLower(d.Name), "_")
	return strings.Trim(name, "_")
}

// IsDefault reports whether the document is the stock theme.
func (d *Document) IsDefault() bool {
	return d.ShortName() == DefaultThemeName
}

// Lookup returns the color for category/field.
// Absent or unparseable values return an error wrapping ErrMissingField.
func (d *Document) Lookup(category, field string) (string, error) {
	fields, ok := d.Colors[category]
	if !ok {
		return "", fmt.Errorf("%w: %s.%s (no %q category)", ErrMissingField, category, field, category)
	}
	value, ok := fields[field]
	if !ok || strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("%w: %s.%s", ErrMissingField, category, field)
	}
	value = strings.TrimSpace(value)
	if !IsHexColor(value) {
		return "", fmt.Errorf("%w: %s.%s has invalid color %q", ErrMissingField, category, field, value)
	}
	return value, nil
}

// Fields returns the field names of a category in sorted order.
func (d *Document) Fields(category string) []string {
	fields := d.Colors[category]
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Categories returns the category names in sorted order.
func (d *Document) Categories() []string {
	names := make([]string, 0, len(d.Colors))
	for name := range d.Colors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsHexColor reports whether s is a #rgb or #rrggbb color.
func IsHexColor(s string) bool {
	if !hexColorRegex.MatchString(s) {
		return false
	}
	_, err := colorful.Hex(s)
	return err == nil
}

// Info provides basic theme information for listing.
type Info struct {
	File        string `json:"file" yaml:"file"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Path        string `json:"path,omitempty" yaml:"path,omitempty"`
	IsBundled   bool   `json:"bundled" yaml:"bundled"`
	Error       string `json:"error,omitempty" yaml:"error,omitempty"`
}
