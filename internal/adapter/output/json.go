package output

import (
	"encoding/json"
	"io"

	"github.com/jmylchreest/benchtheme/internal/apply"
	"github.com/jmylchreest/benchtheme/internal/backup"
	"github.com/jmylchreest/benchtheme/internal/theme"
)

// JSONFormatter formats results as JSON.
type JSONFormatter struct {
	opts FormatterOptions
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(opts FormatterOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Themes writes themes as a JSON array.
func (f *JSONFormatter) Themes(w io.Writer, themes []theme.Info) error {
	if themes == nil {
		themes = []theme.Info{}
	}
	return f.encode(w, themes)
}

// Backups writes backups as a JSON array.
func (f *JSONFormatter) Backups(w io.Writer, backups []backup.Record) error {
	if backups == nil {
		backups = []backup.Record{}
	}
	return f.encode(w, backups)
}

// Theme writes the theme detail as a JSON object.
func (f *JSONFormatter) Theme(w io.Writer, doc *theme.Document, missing []error) error {
	return f.encode(w, Detail(doc, missing))
}

// Applied writes the apply summary as a JSON object.
func (f *JSONFormatter) Applied(w io.Writer, result *apply.Result) error {
	s := Summarize(result)
	if !f.opts.ShowDiff {
		s.Diffs = nil
	}
	return f.encode(w, s)
}

// Status writes the status as a JSON object.
func (f *JSONFormatter) Status(w io.Writer, status apply.Status) error {
	return f.encode(w, status)
}

func (f *JSONFormatter) encode(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
