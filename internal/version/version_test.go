package version

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.py")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func readConfig(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestBase(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"v6", "v6"},
		{"v6-seajay", "v6"},
		{"v6-navy_blue", "v6"},
		{"v12-restored", "v12"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Base(tt.input))
		})
	}
}

func TestSuffix(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"v6", ""},
		{"v6-seajay", "seajay"},
		{"v6-navy_blue", "navy_blue"},
		{"v6-", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Suffix(tt.input))
		})
	}
}

func TestWithTheme(t *testing.T) {
	tests := []struct {
		version  string
		theme    string
		expected string
	}{
		{"v6", "seajay", "v6-seajay"},
		{"v6-seajay", "navy_blue", "v6-navy_blue"},
		{"v6-seajay", "original", "v6"},
		{"v6-seajay", "Original", "v6"},
		{"v6", "original", "v6"},
		{"v6-seajay", "", "v6"},
	}

	for _, tt := range tests {
		t.Run(tt.version+"/"+tt.theme, func(t *testing.T) {
			assert.Equal(t, tt.expected, WithTheme(tt.version, tt.theme, "original"))
		})
	}
}

func TestUpdater_RoundTrip(t *testing.T) {
	original := "import os\n\nOPENBENCH_STATIC_VERSION = \"v6\"\nOTHER = 'x'\n"
	path := writeConfig(t, original)
	u := NewUpdater(path, "", "original", nil)

	change, err := u.Update("seajay")
	require.NoError(t, err)
	assert.Equal(t, Change{Old: "v6", New: "v6-seajay"}, change)
	assert.Equal(t, "import os\n\nOPENBENCH_STATIC_VERSION = \"v6-seajay\"\nOTHER = 'x'\n", readConfig(t, path))

	current, err := u.Current()
	require.NoError(t, err)
	assert.Equal(t, "v6-seajay", current)

	change, err = u.Update("original")
	require.NoError(t, err)
	assert.Equal(t, Change{Old: "v6-seajay", New: "v6"}, change)
	assert.Equal(t, original, readConfig(t, path))
}

func TestUpdater_SingleQuotes(t *testing.T) {
	path := writeConfig(t, "    OPENBENCH_STATIC_VERSION = 'v7-old'  # bump on css change\n")

	_, err := NewUpdater(path, "", "original", nil).Update("navy_blue")
	require.NoError(t, err)
	assert.Equal(t, "    OPENBENCH_STATIC_VERSION = 'v7-navy_blue'  # bump on css change\n", readConfig(t, path))
}

func TestUpdater_CustomKey(t *testing.T) {
	path := writeConfig(t, "STATIC_VERSION='3'\nOPENBENCH_STATIC_VERSION = 'v6'\n")

	_, err := NewUpdater(path, "STATIC_VERSION", "original", nil).Update("seajay")
	require.NoError(t, err)
	assert.Equal(t, "STATIC_VERSION='3-seajay'\nOPENBENCH_STATIC_VERSION = 'v6'\n", readConfig(t, path))
}

func TestUpdater_UnchangedDoesNotWrite(t *testing.T) {
	path := writeConfig(t, "OPENBENCH_STATIC_VERSION = 'v6'\n")
	require.NoError(t, os.Chmod(path, 0444))
	t.Cleanup(func() { os.Chmod(path, 0644) })

	change, err := NewUpdater(path, "", "original", nil).Update("original")
	require.NoError(t, err)
	assert.Equal(t, "v6", change.New)
}

func TestUpdater_PatternNotFound(t *testing.T) {
	content := "# OPENBENCH_STATIC_VERSION is set elsewhere\nDEBUG = True\n"
	path := writeConfig(t, content)
	u := NewUpdater(path, "", "original", nil)

	_, err := u.Update("seajay")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrVersionPatternNotFound))
	assert.Equal(t, content, readConfig(t, path))

	_, err = u.Current()
	assert.True(t, errors.Is(err, ErrVersionPatternNotFound))
}

func TestUpdater_MissingFile(t *testing.T) {
	u := NewUpdater(filepath.Join(t.TempDir(), "config.py"), "", "original", nil)

	_, err := u.Update("seajay")
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestUpdater_Preview(t *testing.T) {
	content := "OPENBENCH_STATIC_VERSION = 'v6-seajay'\n"
	path := writeConfig(t, content)

	change, err := NewUpdater(path, "", "original", nil).Preview("navy_blue")
	require.NoError(t, err)
	assert.Equal(t, Change{Old: "v6-seajay", New: "v6-navy_blue"}, change)
	assert.Equal(t, content, readConfig(t, path))
}

func TestUpdater_RejectsUnsafeSuffix(t *testing.T) {
	content := "OPENBENCH_STATIC_VERSION = 'v6'\n"
	path := writeConfig(t, content)
	u := NewUpdater(path, "", "original", nil)

	for _, suffix := range []string{"bob's", `say"hi`, `back\slash`, "two\nlines"} {
		t.Run(suffix, func(t *testing.T) {
			_, err := u.Update(suffix)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidVersion))
			assert.Equal(t, content, readConfig(t, path))
		})
	}
}
