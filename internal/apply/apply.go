// Package apply sequences theme application: load the theme, snapshot the
// live files, rewrite the stylesheets and bump the static version.
//
// There is no rollback. When a step fails after a backup was taken, the live
// files are left as they are and the backup is the recovery path.
package apply

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"

	"github.com/jmylchreest/benchtheme/internal/backup"
	"github.com/jmylchreest/benchtheme/internal/config"
	"github.com/jmylchreest/benchtheme/internal/css"
	"github.com/jmylchreest/benchtheme/internal/theme"
	"github.com/jmylchreest/benchtheme/internal/version"
)

// ErrBundledTheme is returned when watching a theme that has no file on disk.
var ErrBundledTheme = errors.New("bundled themes cannot be watched; export them with init first")

// Options controls an apply.
type Options struct {
	Backup bool // snapshot the live files first
	DryRun bool // report changes without writing (implies no backup)
}

// Result describes an apply.
type Result struct {
	Theme   *theme.Document
	Backup  *backup.Record // nil when no backup was taken
	Report  *css.Report
	Version version.Change
	DryRun  bool
}

// Status describes the installation's current theme state.
type Status struct {
	Root    string         `json:"root" yaml:"root"`
	Version string         `json:"version" yaml:"version"`
	Theme   string         `json:"theme" yaml:"theme"` // short name from the version suffix
	Latest  *backup.Record `json:"latest_backup,omitempty" yaml:"latest_backup,omitempty"`
	Backups int            `json:"backups" yaml:"backups"`
}

// Service runs theme operations against one installation layout.
type Service struct {
	logger       *slog.Logger
	defaultTheme string
	layout       config.Layout
	rewriter     *css.Rewriter
	updater      *version.Updater
	backups      *backup.Manager
	debounce     config.Duration
}

// NewService wires the components for layout using cfg for the mapping
// table, version key and default theme.
func NewService(layout config.Layout, cfg *config.Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	return &Service{
		logger:       logger,
		defaultTheme: cfg.Version.DefaultTheme,
		layout:       layout,
		rewriter:     css.NewRewriter(layout.StaticDir, cfg.Rules(), logger),
		updater:      version.NewUpdater(layout.VersionFile, cfg.Version.Key, cfg.Version.DefaultTheme, logger),
		backups:      backup.NewManager(layout.BackupsDir, layout.BackupTargets(), logger),
		debounce:     cfg.Watch.Debounce,
	}
}

// Layout returns the installation layout.
func (s *Service) Layout() config.Layout {
	return s.layout
}

// Backups returns the backup manager.
func (s *Service) Backups() *backup.Manager {
	return s.backups
}

// ResolveTheme finds a theme by file name, path or short name.
func (s *Service) ResolveTheme(ref string) (*theme.Document, error) {
	return theme.Resolve(s.layout.ThemesDir, ref)
}

// Apply loads the theme ref and applies it.
func (s *Service) Apply(ctx context.Context, ref string, opts Options) (*Result, error) {
	doc, err := s.ResolveTheme(ref)
	if err != nil {
		return nil, err
	}
	return s.ApplyDocument(ctx, doc, opts)
}

// ApplyDocument applies an already loaded theme.
// The returned Result is non-nil whenever a step ran, including on failure,
// so callers can point at the backup.
func (s *Service) ApplyDocument(ctx context.Context, doc *theme.Document, opts Options) (*Result, error) {
	result := &Result{Theme: doc, DryRun: opts.DryRun}
	s.logger.Debug("applying theme", "name", doc.Name, "short", doc.ShortName(), "dry_run", opts.DryRun)

	if opts.Backup && !opts.DryRun {
		record, err := s.backups.Create(doc.ShortName())
		if err != nil {
			return result, fmt.Errorf("backup failed: %w", err)
		}
		result.Backup = &record
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	report, err := s.rewriter.Rewrite(doc, css.Options{DryRun: opts.DryRun})
	result.Report = report
	if err != nil {
		return result, err
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	if opts.DryRun {
		change, err := s.updater.Preview(doc.ShortName())
		if err != nil {
			return result, err
		}
		result.Version = change
		return result, nil
	}

	change, err := s.updater.Update(doc.ShortName())
	if err != nil {
		return result, err
	}
	result.Version = change

	s.logger.Info("theme applied", "name", doc.Name, "changes", len(report.Changes), "warnings", len(report.Warnings))
	return result, nil
}

// Backup snapshots the live files.
func (s *Service) Backup() (backup.Record, error) {
	return s.backups.Create("")
}

// ListBackups yields backups newest first.
func (s *Service) ListBackups() iter.Seq[backup.Record] {
	return s.backups.All()
}

// Restore copies backup id ("latest" for the most recent) over the live files.
// The current state is not backed up first.
func (s *Service) Restore(id string) (backup.Record, error) {
	return s.backups.Restore(id)
}

// PruneBackups removes old backups; see backup.Manager.Prune.
func (s *Service) PruneBackups(opts backup.PruneOptions) ([]backup.Record, error) {
	return s.backups.Prune(opts)
}

// Status reports the current static version, the theme it names and the
// most recent backup.
func (s *Service) Status() (Status, error) {
	current, err := s.updater.Current()
	if err != nil {
		return Status{}, err
	}

	status := Status{
		Root:    s.layout.Root,
		Version: current,
		Theme:   version.Suffix(current),
	}
	if status.Theme == "" {
		status.Theme = s.defaultTheme
	}

	for r := range s.backups.All() {
		if status.Latest == nil {
			latest := r
			status.Latest = &latest
		}
		status.Backups++
	}
	return status, nil
}

// ListThemes lists the themes in the themes directory and the bundled ones.
func (s *Service) ListThemes() ([]theme.Info, error) {
	return theme.List(s.layout.ThemesDir)
}

// ExportThemes writes the bundled themes into the themes directory and
// returns the paths written. Existing files are kept unless overwrite is set.
func (s *Service) ExportThemes(overwrite bool) ([]string, error) {
	return theme.ExportBundled(s.layout.ThemesDir, overwrite)
}

// Watch applies ref and re-applies it, without backups, every time its file
// changes. onApply receives each outcome. Watch blocks until ctx is done.
func (s *Service) Watch(ctx context.Context, ref string, onApply func(*Result, error)) error {
	doc, err := s.ResolveTheme(ref)
	if err != nil {
		return err
	}
	if doc.Path == "" {
		return fmt.Errorf("%w: %s", ErrBundledTheme, ref)
	}

	watcher, err := theme.NewWatcher(doc.Path, s.logger)
	if err != nil {
		return err
	}
	defer watcher.Stop()

	if s.debounce > 0 {
		watcher.SetDebounce(s.debounce.Duration())
	}
	watcher.SetChangeCallback(func(changed *theme.Document) {
		onApply(s.ApplyDocument(ctx, changed, Options{}))
	})

	onApply(s.ApplyDocument(ctx, doc, Options{}))

	if err := watcher.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	return nil
}
