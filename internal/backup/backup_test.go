package backup

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	static  string
	config  string
	root    string
	targets []Target
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	base := t.TempDir()
	f := fixture{
		static: filepath.Join(base, "static"),
		config: filepath.Join(base, "config.py"),
		root:   filepath.Join(base, "theme_backups"),
	}
	require.NoError(t, os.MkdirAll(f.static, 0755))

	for _, name := range []string{"style.css", "form.css", "paging.css", "base.css"} {
		f.targets = append(f.targets, Target{Name: name, Path: filepath.Join(f.static, name)})
	}
	f.targets = append(f.targets, Target{Name: "config.py", Path: f.config})

	// base.css is deliberately absent
	f.write(t, "style.css", ":root { --bg-primary: #2E3440; }\n")
	f.write(t, "form.css", "input { color: #111111; }\n")
	f.write(t, "paging.css", ".page { color: #222222; }\n")
	require.NoError(t, os.WriteFile(f.config, []byte("OPENBENCH_STATIC_VERSION = 'v6'\n"), 0644))
	return f
}

func (f fixture) write(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(f.static, name), []byte(content), 0644))
}

func (f fixture) read(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(f.static, name))
	require.NoError(t, err)
	return string(data)
}

// clock returns a now func that advances by step on every call.
func clock(start time.Time, step time.Duration) func() time.Time {
	current := start
	return func() time.Time {
		now := current
		current = current.Add(step)
		return now
	}
}

func newManager(f fixture, now func() time.Time) *Manager {
	m := NewManager(f.root, f.targets, nil)
	m.now = now
	return m
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	start := time.Date(2026, 10, 19, 14, 30, 5, 0, time.Local)
	m := newManager(f, clock(start, time.Second))

	r, err := m.Create("seajay")
	require.NoError(t, err)

	assert.Equal(t, "backup_20261019_143005", r.ID)
	assert.Equal(t, filepath.Join(f.root, r.ID), r.Path)
	assert.Equal(t, []string{"style.css", "form.css", "paging.css", "config.py"}, r.Files)
	assert.Positive(t, r.Size)

	data, err := os.ReadFile(filepath.Join(r.Path, "style.css"))
	require.NoError(t, err)
	assert.Equal(t, f.read(t, "style.css"), string(data))
	assert.NoFileExists(t, filepath.Join(r.Path, "base.css"))

	data, err = os.ReadFile(filepath.Join(r.Path, ManifestFile))
	require.NoError(t, err)
	var manifest Manifest
	require.NoError(t, json.Unmarshal(data, &manifest))
	assert.Equal(t, "seajay", manifest.Theme)
	assert.Equal(t, r.Files, manifest.Files)
	_, err = ulid.Parse(manifest.ULID)
	assert.NoError(t, err)
}

func TestCreate_SameSecondCollision(t *testing.T) {
	f := newFixture(t)
	fixed := time.Date(2026, 10, 19, 9, 0, 0, 0, time.Local)
	m := newManager(f, func() time.Time { return fixed })

	var ids []string
	for range 3 {
		r, err := m.Create("")
		require.NoError(t, err)
		ids = append(ids, r.ID)
	}

	assert.Equal(t, []string{
		"backup_20261019_090000",
		"backup_20261019_090000_1",
		"backup_20261019_090000_2",
	}, ids)

	latest, err := m.Latest()
	require.NoError(t, err)
	assert.Equal(t, "backup_20261019_090000_2", latest.ID)
}

func TestCreate_CollisionExhausted(t *testing.T) {
	f := newFixture(t)
	fixed := time.Date(2026, 10, 19, 9, 0, 0, 0, time.Local)
	m := newManager(f, func() time.Time { return fixed })

	require.NoError(t, os.MkdirAll(filepath.Join(f.root, "backup_20261019_090000"), 0755))
	for seq := 1; seq <= maxSequence; seq++ {
		name := "backup_20261019_090000_" + strconv.Itoa(seq)
		require.NoError(t, os.MkdirAll(filepath.Join(f.root, name), 0755))
	}

	_, err := m.Create("")
	assert.True(t, errors.Is(err, ErrBackupCollision))
}

func TestAll_OrderedNewestFirst(t *testing.T) {
	f := newFixture(t)
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.Local)
	m := newManager(f, clock(start, 90*time.Minute))

	for range 3 {
		_, err := m.Create("")
		require.NoError(t, err)
	}

	// Noise that is not a backup
	require.NoError(t, os.MkdirAll(filepath.Join(f.root, "not_a_backup"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(f.root, "backup_garbage"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(f.root, "backup_20991231_235959"), nil, 0644))

	records := m.List()
	require.Len(t, records, 3)
	assert.Equal(t, "backup_20260102_060405", records[0].ID)
	assert.Equal(t, "backup_20260102_043405", records[1].ID)
	assert.Equal(t, "backup_20260102_030405", records[2].ID)

	for i := 1; i < len(records); i++ {
		assert.True(t, records[i-1].CreatedAt.After(records[i].CreatedAt))
	}

	// Restartable: a second pass yields the same sequence
	var again []string
	for r := range m.All() {
		again = append(again, r.ID)
	}
	assert.Equal(t, []string{records[0].ID, records[1].ID, records[2].ID}, again)

	// Early exit is honored
	count := 0
	for range m.All() {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestAll_MissingRoot(t *testing.T) {
	f := newFixture(t)
	m := newManager(f, time.Now)

	assert.Empty(t, m.List())
	_, err := m.Latest()
	assert.True(t, errors.Is(err, ErrNoBackupsAvailable))
}

func TestRestore_RoundTrip(t *testing.T) {
	f := newFixture(t)
	m := newManager(f, clock(time.Date(2026, 5, 1, 0, 0, 0, 0, time.Local), time.Second))

	beforeStyle := f.read(t, "style.css")
	beforeForm := f.read(t, "form.css")

	r, err := m.Create("seajay")
	require.NoError(t, err)

	f.write(t, "style.css", ":root { --bg-primary: #0B2027; }\n")
	f.write(t, "form.css", "mutated")
	require.NoError(t, os.WriteFile(f.config, []byte("OPENBENCH_STATIC_VERSION = 'v6-seajay'\n"), 0644))

	restored, err := m.Restore(r.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"style.css", "form.css", "paging.css", "config.py"}, restored.Files)

	assert.Equal(t, beforeStyle, f.read(t, "style.css"))
	assert.Equal(t, beforeForm, f.read(t, "form.css"))
	data, err := os.ReadFile(f.config)
	require.NoError(t, err)
	assert.Equal(t, "OPENBENCH_STATIC_VERSION = 'v6'\n", string(data))
}

func TestRestore_Latest(t *testing.T) {
	f := newFixture(t)
	m := newManager(f, clock(time.Date(2026, 5, 1, 0, 0, 0, 0, time.Local), time.Minute))

	_, err := m.Create("")
	require.NoError(t, err)

	f.write(t, "style.css", "second")
	second, err := m.Create("")
	require.NoError(t, err)

	f.write(t, "style.css", "third")

	r, err := m.Restore(Latest)
	require.NoError(t, err)
	assert.Equal(t, second.ID, r.ID)
	assert.Equal(t, m.List()[0].ID, r.ID)
	assert.Equal(t, "second", f.read(t, "style.css"))
}

func TestRestore_NotFoundLeavesFilesUntouched(t *testing.T) {
	f := newFixture(t)
	m := newManager(f, time.Now)
	_, err := m.Create("")
	require.NoError(t, err)

	f.write(t, "style.css", "live")

	for _, id := range []string{
		"backup_19990101_000000",
		"nonsense",
		"../static",
		"backup_20260101_000000/../../static",
	} {
		t.Run(id, func(t *testing.T) {
			_, err := m.Restore(id)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrBackupNotFound))
			assert.Equal(t, "live", f.read(t, "style.css"))
		})
	}
}

func TestRestore_NoBackups(t *testing.T) {
	f := newFixture(t)
	m := newManager(f, time.Now)

	_, err := m.Restore(Latest)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoBackupsAvailable))
}

func TestCreate_FailureRemovesPartialBackup(t *testing.T) {
	f := newFixture(t)
	// A directory where a file is expected makes the copy fail after
	// the earlier targets were already copied.
	require.NoError(t, os.Mkdir(filepath.Join(f.static, "base.css"), 0755))
	m := newManager(f, time.Now)

	_, err := m.Create("seajay")
	require.Error(t, err)

	assert.Empty(t, m.List())
	entries, err := os.ReadDir(f.root)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = m.Restore(Latest)
	assert.True(t, errors.Is(err, ErrNoBackupsAvailable))
}

func TestGet_LoadsManifestTheme(t *testing.T) {
	f := newFixture(t)
	m := newManager(f, time.Now)

	created, err := m.Create("navy_blue")
	require.NoError(t, err)

	r, err := m.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "navy_blue", r.Theme)
	assert.Equal(t, created.Size, r.Size)
	assert.ElementsMatch(t, created.Files, r.Files)
	assert.True(t, created.CreatedAt.Equal(r.CreatedAt))
}

func TestParseName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
		seq  int
	}{
		{"backup_20261019_143005", true, 0},
		{"backup_20261019_143005_3", true, 3},
		{"backup_20261019_1430", false, 0},
		{"backup_20261399_143005", false, 0},
		{"snapshot_20261019_143005", false, 0},
		{"backup_20261019_143005_", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := parseName(tt.name)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.seq, r.Sequence)
				assert.Equal(t, tt.name, r.ID)
			}
		})
	}
}
