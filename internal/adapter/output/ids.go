package output

import (
	"fmt"
	"io"

	"github.com/jmylchreest/benchtheme/internal/apply"
	"github.com/jmylchreest/benchtheme/internal/backup"
	"github.com/jmylchreest/benchtheme/internal/theme"
)

// IDsFormatter outputs bare identifiers, one per line.
// Useful for piping to other commands (e.g., benchtheme restore $(benchtheme backups -o ids | head -1)).
type IDsFormatter struct{}

// NewIDsFormatter creates a new IDs formatter.
func NewIDsFormatter() *IDsFormatter {
	return &IDsFormatter{}
}

// Themes writes theme file names.
func (f *IDsFormatter) Themes(w io.Writer, themes []theme.Info) error {
	for _, info := range themes {
		if _, err := fmt.Fprintln(w, info.File); err != nil {
			return err
		}
	}
	return nil
}

// Backups writes backup directory names.
func (f *IDsFormatter) Backups(w io.Writer, backups []backup.Record) error {
	for _, r := range backups {
		if _, err := fmt.Fprintln(w, r.ID); err != nil {
			return err
		}
	}
	return nil
}

// Theme writes the theme short name.
func (f *IDsFormatter) Theme(w io.Writer, doc *theme.Document, _ []error) error {
	_, err := fmt.Fprintln(w, doc.ShortName())
	return err
}

// Applied writes the backup ID, if one was taken.
func (f *IDsFormatter) Applied(w io.Writer, result *apply.Result) error {
	if result.Backup == nil {
		return nil
	}
	_, err := fmt.Fprintln(w, result.Backup.ID)
	return err
}

// Status writes the current theme short name.
func (f *IDsFormatter) Status(w io.Writer, status apply.Status) error {
	_, err := fmt.Fprintln(w, status.Theme)
	return err
}
