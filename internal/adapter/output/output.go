// Package output provides output formatters for themes, backups and apply results.
package output

import (
	"io"
	"sort"
	"time"

	"github.com/jmylchreest/benchtheme/internal/apply"
	"github.com/jmylchreest/benchtheme/internal/backup"
	"github.com/jmylchreest/benchtheme/internal/css"
	"github.com/jmylchreest/benchtheme/internal/theme"
	"github.com/jmylchreest/benchtheme/internal/version"
)

// Formatter formats command results for output.
type Formatter interface {
	// Themes writes a theme listing.
	Themes(w io.Writer, themes []theme.Info) error

	// Backups writes a backup listing, newest first.
	Backups(w io.Writer, backups []backup.Record) error

	// Theme writes one theme's colors and the mapped fields it lacks.
	Theme(w io.Writer, doc *theme.Document, missing []error) error

	// Applied writes the outcome of an apply.
	Applied(w io.Writer, result *apply.Result) error

	// Status writes the installation's current theme state.
	Status(w io.Writer, status apply.Status) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatPlain FormatType = "plain"
	FormatJSON  FormatType = "json"
	FormatYAML  FormatType = "yaml"
	FormatIDs   FormatType = "ids"
)

// FormatTypes lists the accepted --output values.
var FormatTypes = []FormatType{FormatPlain, FormatJSON, FormatYAML, FormatIDs}

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType, opts FormatterOptions) Formatter {
	switch format {
	case FormatJSON:
		return NewJSONFormatter(opts)
	case FormatYAML:
		return NewYAMLFormatter(opts)
	case FormatIDs:
		return NewIDsFormatter()
	case FormatPlain:
		fallthrough
	default:
		return NewPlainFormatter(opts)
	}
}

// FormatterOptions configures formatter behavior.
type FormatterOptions struct {
	Template  string    // Custom per-item template for plain listings
	ShowIndex bool      // Show 1-based index prefix
	ShowPath  bool      // Show file and directory paths
	ShowDiff  bool      // Print dry-run diffs
	Now       time.Time // Reference time for relative ages (zero = time.Now)
}

// DefaultFormatterOptions returns sensible defaults for terminal output.
func DefaultFormatterOptions() FormatterOptions {
	return FormatterOptions{
		ShowIndex: true,
		ShowDiff:  true,
	}
}

// ApplySummary is the serializable form of an apply.Result.
type ApplySummary struct {
	Theme     string            `json:"theme" yaml:"theme"`
	ShortName string            `json:"short_name" yaml:"short_name"`
	DryRun    bool              `json:"dry_run" yaml:"dry_run"`
	Backup    string            `json:"backup,omitempty" yaml:"backup,omitempty"`
	Version   version.Change    `json:"version" yaml:"version"`
	Files     []string          `json:"files" yaml:"files"`
	Changes   []css.Change      `json:"changes" yaml:"changes"`
	Warnings  []string          `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Diffs     map[string]string `json:"diffs,omitempty" yaml:"diffs,omitempty"`
}

// ThemeDetail is the serializable form of a theme and its missing fields.
type ThemeDetail struct {
	Name        string                       `json:"name" yaml:"name"`
	ShortName   string                       `json:"short_name" yaml:"short_name"`
	Description string                       `json:"description,omitempty" yaml:"description,omitempty"`
	Path        string                       `json:"path,omitempty" yaml:"path,omitempty"`
	Colors      map[string]map[string]string `json:"colors" yaml:"colors"`
	Missing     []string                     `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// Detail flattens a theme document.
func Detail(doc *theme.Document, missing []error) ThemeDetail {
	d := ThemeDetail{
		Name:        doc.Name,
		ShortName:   doc.ShortName(),
		Description: doc.Description,
		Path:        doc.Path,
		Colors:      doc.Colors,
	}
	for _, err := range missing {
		d.Missing = append(d.Missing, err.Error())
	}
	return d
}

// Summarize flattens an apply result.
func Summarize(result *apply.Result) ApplySummary {
	s := ApplySummary{
		DryRun:  result.DryRun,
		Version: result.Version,
	}
	if result.Theme != nil {
		s.Theme = result.Theme.Name
		s.ShortName = result.Theme.ShortName()
	}
	if result.Backup != nil {
		s.Backup = result.Backup.ID
	}
	if r := result.Report; r != nil {
		s.Files = r.Files
		s.Changes = r.Changes
		s.Diffs = r.Diffs
		for _, w := range r.Warnings {
			s.Warnings = append(s.Warnings, w.Error())
		}
	}
	return s
}

// sortedKeys returns the keys of m in order.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
