package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/benchtheme/internal/apply"
	"github.com/jmylchreest/benchtheme/internal/backup"
	"github.com/jmylchreest/benchtheme/internal/theme"
)

// PlainFormatter formats results as human-readable text.
type PlainFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewPlainFormatter creates a new plain text formatter.
func NewPlainFormatter(opts FormatterOptions) *PlainFormatter {
	f := &PlainFormatter{opts: opts}

	// Parse custom template if provided
	if opts.Template != "" {
		tmpl, err := template.New("plain").Funcs(f.templateFuncs()).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// templateData provides data for custom templates.
type templateData struct {
	Index  int
	Theme  *theme.Info
	Backup *backup.Record
}

// Themes writes one line per theme.
func (f *PlainFormatter) Themes(w io.Writer, themes []theme.Info) error {
	for i := range themes {
		info := &themes[i]
		if f.template != nil {
			if err := f.execute(w, templateData{Index: i + 1, Theme: info}); err != nil {
				return err
			}
			continue
		}

		var sb strings.Builder
		if f.opts.ShowIndex {
			fmt.Fprintf(&sb, "[%d] ", i+1)
		}
		sb.WriteString(info.File)
		if info.Error != "" {
			fmt.Fprintf(&sb, " (invalid: %s)", info.Error)
		} else {
			fmt.Fprintf(&sb, " - %s", info.Name)
			if info.IsBundled {
				sb.WriteString(" [bundled]")
			}
		}
		sb.WriteString("\n")
		if info.Description != "" {
			sb.WriteString("    " + info.Description + "\n")
		}
		if f.opts.ShowPath && info.Path != "" {
			sb.WriteString("    " + info.Path + "\n")
		}

		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}

// Backups writes one line per backup.
func (f *PlainFormatter) Backups(w io.Writer, backups []backup.Record) error {
	if len(backups) == 0 {
		_, err := fmt.Fprintln(w, "No backups found")
		return err
	}

	for i := range backups {
		r := &backups[i]
		if f.template != nil {
			if err := f.execute(w, templateData{Index: i + 1, Backup: r}); err != nil {
				return err
			}
			continue
		}

		var sb strings.Builder
		if f.opts.ShowIndex {
			fmt.Fprintf(&sb, "[%d] ", i+1)
		}
		fmt.Fprintf(&sb, "%s  %s  %d files, %s",
			r.ID, f.age(r.CreatedAt), len(r.Files), humanize.Bytes(uint64(r.Size)))
		if r.Theme != "" {
			fmt.Fprintf(&sb, "  (before %s)", r.Theme)
		}
		sb.WriteString("\n")
		if f.opts.ShowPath {
			sb.WriteString("    " + r.Path + "\n")
		}

		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}

// Theme writes each category with a color swatch per field.
func (f *PlainFormatter) Theme(w io.Writer, doc *theme.Document, missing []error) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s (%s)\n", doc.Name, doc.ShortName())
	if doc.Description != "" {
		sb.WriteString("  " + doc.Description + "\n")
	}
	if f.opts.ShowPath && doc.Path != "" {
		sb.WriteString("  " + doc.Path + "\n")
	}

	for _, category := range doc.Categories() {
		fields := doc.Fields(category)
		width := 0
		for _, field := range fields {
			width = max(width, len(field))
		}

		sb.WriteString("\n" + category + "\n")
		for _, field := range fields {
			value := doc.Colors[category][field]
			fmt.Fprintf(&sb, "  %-*s  %s\n", width, field, Swatch(value))
		}
	}

	if len(missing) > 0 {
		fmt.Fprintf(&sb, "\nMissing fields (%d):\n", len(missing))
		for _, err := range missing {
			sb.WriteString("  - " + err.Error() + "\n")
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// Applied writes a summary of the changes, warnings and version bump.
func (f *PlainFormatter) Applied(w io.Writer, result *apply.Result) error {
	s := Summarize(result)
	var sb strings.Builder

	if s.DryRun {
		fmt.Fprintf(&sb, "Dry run: theme %q would change %d colors in %d files\n", s.Theme, len(s.Changes), len(s.Files))
	} else {
		fmt.Fprintf(&sb, "Applied theme %q: %d colors changed in %d files\n", s.Theme, len(s.Changes), len(s.Files))
	}

	if s.Backup != "" {
		fmt.Fprintf(&sb, "Backup: %s\n", s.Backup)
	}

	if s.Version.Old != "" || s.Version.New != "" {
		if s.Version.Old == s.Version.New {
			fmt.Fprintf(&sb, "Static version: %s (unchanged)\n", s.Version.New)
		} else {
			fmt.Fprintf(&sb, "Static version: %s -> %s\n", s.Version.Old, s.Version.New)
		}
	}

	if len(s.Warnings) > 0 {
		fmt.Fprintf(&sb, "Warnings (%d):\n", len(s.Warnings))
		for _, warning := range s.Warnings {
			sb.WriteString("  - " + warning + "\n")
		}
	}

	if f.opts.ShowDiff {
		for _, file := range sortedKeys(s.Diffs) {
			sb.WriteString("\n" + s.Diffs[file])
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// Status writes the current version, theme and latest backup.
func (f *PlainFormatter) Status(w io.Writer, status apply.Status) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Installation:   %s\n", status.Root)
	fmt.Fprintf(&sb, "Theme:          %s\n", status.Theme)
	fmt.Fprintf(&sb, "Static version: %s\n", status.Version)
	if status.Latest != nil {
		fmt.Fprintf(&sb, "Latest backup:  %s (%s, %d total)\n", status.Latest.ID, f.age(status.Latest.CreatedAt), status.Backups)
	} else {
		sb.WriteString("Latest backup:  none\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func (f *PlainFormatter) execute(w io.Writer, data templateData) error {
	if err := f.template.Execute(w, data); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func (f *PlainFormatter) now() time.Time {
	if f.opts.Now.IsZero() {
		return time.Now()
	}
	return f.opts.Now
}

// age returns a human-readable age like "3 hours ago".
func (f *PlainFormatter) age(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return humanize.RelTime(t, f.now(), "ago", "from now")
}

// templateFuncs returns template helper functions.
func (f *PlainFormatter) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"truncate": func(s string, maxLen int) string {
			if maxLen <= 0 || len(s) <= maxLen {
				return s
			}
			if maxLen <= 3 {
				return s[:maxLen]
			}
			return s[:maxLen-3] + "..."
		},
		"bytes": func(n int64) string {
			return humanize.Bytes(uint64(n))
		},
		"ago": f.age,
		"join": strings.Join,
	}
}
