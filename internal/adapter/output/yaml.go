package output

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/benchtheme/internal/apply"
	"github.com/jmylchreest/benchtheme/internal/backup"
	"github.com/jmylchreest/benchtheme/internal/theme"
)

// YAMLFormatter formats results as YAML documents.
type YAMLFormatter struct {
	opts FormatterOptions
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(opts FormatterOptions) *YAMLFormatter {
	return &YAMLFormatter{opts: opts}
}

// Themes writes themes as a YAML sequence.
func (f *YAMLFormatter) Themes(w io.Writer, themes []theme.Info) error {
	if themes == nil {
		themes = []theme.Info{}
	}
	return f.encode(w, themes)
}

// Backups writes backups as a YAML sequence.
func (f *YAMLFormatter) Backups(w io.Writer, backups []backup.Record) error {
	if backups == nil {
		backups = []backup.Record{}
	}
	return f.encode(w, backups)
}

// Theme writes the theme detail as a YAML mapping.
func (f *YAMLFormatter) Theme(w io.Writer, doc *theme.Document, missing []error) error {
	return f.encode(w, Detail(doc, missing))
}

// Applied writes the apply summary as a YAML mapping.
func (f *YAMLFormatter) Applied(w io.Writer, result *apply.Result) error {
	s := Summarize(result)
	if !f.opts.ShowDiff {
		s.Diffs = nil
	}
	return f.encode(w, s)
}

// Status writes the status as a YAML mapping.
func (f *YAMLFormatter) Status(w io.Writer, status apply.Status) error {
	return f.encode(w, status)
}

func (f *YAMLFormatter) encode(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}
