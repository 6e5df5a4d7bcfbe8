// Package backup snapshots the live stylesheets and version file into
// timestamped directories and restores them.
//
// Restore overwrites the live files without taking a snapshot of its own;
// run Create first to keep the current state.
package backup

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jmylchreest/benchtheme/internal/fsutil"
)

// Backup errors.
var (
	ErrBackupCollision    = errors.New("backup directory already exists")
	ErrBackupNotFound     = errors.New("backup not found")
	ErrNoBackupsAvailable = errors.New("no backups available")
)

const (
	// Latest is the identifier that resolves to the most recent backup.
	Latest = "latest"

	// ManifestFile is written into every backup directory.
	ManifestFile = "manifest.json"

	// NamePrefix starts every backup directory name.
	NamePrefix = "backup_"

	// TimestampLayout is the time layout used in backup directory names.
	TimestampLayout = "20060102_150405"

	// maxSequence bounds the same-second disambiguation suffix.
	maxSequence = 99
)

// nameRegex matches backup_YYYYMMDD_HHMMSS with an optional _N suffix.
var nameRegex = regexp.MustCompile(`^backup_(\d{8}_\d{6})(?:_(\d+))?$`)

// Target is a live file included in backups.
type Target struct {
	Name string // file name inside the backup directory
	Path string // live path
}

// Record is one backup directory.
type Record struct {
	ID        string    `json:"id" yaml:"id"` // directory name
	Path      string    `json:"path" yaml:"path"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Sequence  int       `json:"sequence,omitempty" yaml:"sequence,omitempty"`
	Files     []string  `json:"files" yaml:"files"`
	Theme     string    `json:"theme,omitempty" yaml:"theme,omitempty"`
	Size      int64     `json:"size" yaml:"size"`
}

// Manifest is the metadata file stored in each backup directory.
type Manifest struct {
	ULID      string    `json:"ulid"`
	CreatedAt time.Time `json:"created_at"`
	Theme     string    `json:"theme,omitempty"` // theme about to be applied, if any
	Files     []string  `json:"files"`
}

// Manager creates, lists and restores backups under a root directory.
type Manager struct {
	logger  *slog.Logger
	root    string
	targets []Target
	now     func() time.Time
}

// NewManager creates a manager storing backups under root for the given targets.
func NewManager(root string, targets []Target, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		logger:  logger,
		root:    root,
		targets: targets,
		now:     time.Now,
	}
}

// Root returns the backups directory.
func (m *Manager) Root() string {
	return m.root
}

// Create copies the current targets into a new backup directory.
// theme optionally names the theme about to be applied and is stored in the manifest.
// Targets that do not exist are skipped.
func (m *Manager) Create(theme string) (Record, error) {
	if err := os.MkdirAll(m.root, 0755); err != nil {
		return Record{}, fmt.Errorf("failed to create backups directory: %w", err)
	}

	now := m.now()
	name, seq, err := m.reserve(now)
	if err != nil {
		return Record{}, err
	}
	dir := filepath.Join(m.root, name)

	r, err := m.fill(dir, now, theme)
	if err != nil {
		// Never leave a partial backup behind
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			m.logger.Warn("failed to remove incomplete backup", "path", dir, "error", rmErr)
		}
		return Record{}, err
	}
	r.ID = name
	r.Path = dir
	r.Sequence = seq

	m.logger.Info("backup created", "path", dir, "files", len(r.Files))
	return r, nil
}

// fill copies the targets and writes the manifest into dir.
func (m *Manager) fill(dir string, now time.Time, theme string) (Record, error) {
	var files []string
	var size int64
	for _, target := range m.targets {
		info, err := os.Stat(target.Path)
		if err != nil {
			if os.IsNotExist(err) {
				m.logger.Debug("skipping missing file", "path", target.Path)
				continue
			}
			return Record{}, err
		}

		if err := fsutil.CopyFile(target.Path, filepath.Join(dir, target.Name)); err != nil {
			return Record{}, fmt.Errorf("failed to back up %s: %w", target.Name, err)
		}
		files = append(files, target.Name)
		size += info.Size()
		m.logger.Debug("backed up file", "file", target.Name)
	}

	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return Record{}, fmt.Errorf("failed to generate ULID: %w", err)
	}
	manifest := Manifest{
		ULID:      id.String(),
		CreatedAt: now,
		Theme:     theme,
		Files:     files,
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return Record{}, err
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), data, 0644); err != nil {
		return Record{}, err
	}

	return Record{
		CreatedAt: now.Truncate(time.Second),
		Files:     files,
		Theme:     theme,
		Size:      size,
	}, nil
}

// reserve creates the backup directory for now and returns its name.
// A same-second collision takes the first free suffix _1, _2, ...
func (m *Manager) reserve(now time.Time) (string, int, error) {
	base := NamePrefix + now.Format(TimestampLayout)
	for seq := 0; seq <= maxSequence; seq++ {
		name := base
		if seq > 0 {
			name = base + "_" + strconv.Itoa(seq)
		}
		err := os.Mkdir(filepath.Join(m.root, name), 0755)
		if err == nil {
			return name, seq, nil
		}
		if !os.IsExist(err) {
			return "", 0, fmt.Errorf("failed to create backup directory: %w", err)
		}
	}
	return "", 0, fmt.Errorf("%w: %s (and %d suffixes)", ErrBackupCollision, base, maxSequence)
}

// All yields backups newest first. The directory is read when iteration
// starts, so each range over the sequence sees the current backups.
func (m *Manager) All() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		records, err := m.scan()
		if err != nil {
			m.logger.Warn("failed to read backups directory", "path", m.root, "error", err)
			return
		}
		for _, r := range records {
			if !yield(m.load(r)) {
				return
			}
		}
	}
}

// List returns all backups newest first.
func (m *Manager) List() []Record {
	return slices.Collect(m.All())
}

// Latest returns the most recent backup.
func (m *Manager) Latest() (Record, error) {
	for r := range m.All() {
		return r, nil
	}
	return Record{}, ErrNoBackupsAvailable
}

// Get returns the backup with the given directory name, the most recent
// one for "latest", or the Nth most recent for a 1-based index.
func (m *Manager) Get(id string) (Record, error) {
	if id == Latest {
		return m.Latest()
	}
	if index, err := strconv.Atoi(id); err == nil {
		return m.byIndex(index)
	}

	r, ok := parseName(id)
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", ErrBackupNotFound, id)
	}
	r.Path = filepath.Join(m.root, id)
	info, err := os.Stat(r.Path)
	if err != nil || !info.IsDir() {
		return Record{}, fmt.Errorf("%w: %s", ErrBackupNotFound, id)
	}
	return m.load(r), nil
}

// byIndex returns the index-th most recent backup (1-based).
func (m *Manager) byIndex(index int) (Record, error) {
	i := 0
	for r := range m.All() {
		i++
		if i == index {
			return r, nil
		}
	}
	return Record{}, fmt.Errorf("%w: index %d (have %d)", ErrBackupNotFound, index, i)
}

// Restore copies the files of backup id back over the live targets.
// Live files are untouched when the backup cannot be resolved.
func (m *Manager) Restore(id string) (Record, error) {
	r, err := m.Get(id)
	if err != nil {
		return Record{}, err
	}

	var restored []string
	for _, target := range m.targets {
		src := filepath.Join(r.Path, target.Name)
		if !fsutil.Exists(src) {
			continue
		}
		if err := fsutil.CopyFile(src, target.Path); err != nil {
			return r, fmt.Errorf("failed to restore %s: %w", target.Name, err)
		}
		restored = append(restored, target.Name)
		m.logger.Debug("restored file", "file", target.Name)
	}

	m.logger.Info("backup restored", "id", r.ID, "files", len(restored))
	r.Files = restored
	return r, nil
}

// scan reads the backup directory names sorted newest first.
func (m *Manager) scan() ([]Record, error) {
	entries, err := os.ReadDir(m.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var records []Record
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		r, ok := parseName(entry.Name())
		if !ok {
			continue
		}
		r.Path = filepath.Join(m.root, entry.Name())
		records = append(records, r)
	}

	slices.SortFunc(records, func(a, b Record) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return b.Sequence - a.Sequence
	})
	return records, nil
}

// load fills in files, size and theme from the backup directory.
func (m *Manager) load(r Record) Record {
	entries, err := os.ReadDir(r.Path)
	if err != nil {
		return r
	}

	r.Files = nil
	r.Size = 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if entry.Name() == ManifestFile {
			if manifest, err := readManifest(filepath.Join(r.Path, ManifestFile)); err == nil {
				r.Theme = manifest.Theme
			}
			continue
		}
		if info, err := entry.Info(); err == nil {
			r.Size += info.Size()
		}
		r.Files = append(r.Files, entry.Name())
	}
	return r
}

func readManifest(path string) (Manifest, error) {
	var manifest Manifest
	data, err := os.ReadFile(path)
	if err != nil {
		return manifest, err
	}
	err = json.Unmarshal(data, &manifest)
	return manifest, err
}

// parseName parses a backup directory name. Timestamps are local time,
// matching how they are written.
func parseName(name string) (Record, bool) {
	match := nameRegex.FindStringSubmatch(name)
	if match == nil {
		return Record{}, false
	}

	created, err := time.ParseInLocation(TimestampLayout, match[1], time.Local)
	if err != nil {
		return Record{}, false
	}

	seq := 0
	if match[2] != "" {
		seq, err = strconv.Atoi(match[2])
		if err != nil {
			return Record{}, false
		}
	}

	return Record{ID: name, CreatedAt: created, Sequence: seq}, true
}
