package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requiredFields are the fields every bundled theme must define.
var requiredFields = map[string][]string{
	CategoryBackgrounds: {"bg-primary", "bg-secondary", "bg-tertiary"},
	CategoryText:        {"text-primary", "text-secondary", "text-muted"},
	CategoryLinks:       {"default"},
	CategoryUIElements: {
		"sidebar_hover", "table_header_bg", "table_border",
		"hover_row", "popup_bg", "popup_border",
	},
	CategoryButtons: {
		"btn_blue", "btn_blue_hover", "btn_start", "btn_start_hover",
		"btn_preset", "btn_preset_hover", "btn_yellow", "btn_yellow_hover",
		"btn_red", "btn_red_hover",
	},
}

func TestListEmbeddedThemes(t *testing.T) {
	assert.Equal(t, BundledThemes, ListEmbeddedThemes())
}

func TestGetEmbeddedTheme_Found(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"original", true},
		{"seajay", true},
		{"navy_blue", true},
		{"nonexistent", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, found := GetEmbeddedTheme(tt.name)
			assert.Equal(t, tt.expected, found)
		})
	}
}

func TestBundledThemes_Complete(t *testing.T) {
	for _, name := range BundledThemes {
		t.Run(name, func(t *testing.T) {
			doc, found := GetEmbeddedTheme(name)
			require.True(t, found)
			assert.Equal(t, name, doc.ShortName())

			for category, fields := range requiredFields {
				for _, field := range fields {
					_, err := doc.Lookup(category, field)
					assert.NoError(t, err, "theme %s should define %s.%s", name, category, field)
				}
			}
		})
	}
}

func TestExportBundled(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "themes")

	written, err := ExportBundled(dir, false)
	require.NoError(t, err)
	assert.Len(t, written, len(BundledThemes))

	// Local edits survive a second export
	custom := filepath.Join(dir, "theme_seajay.json")
	require.NoError(t, os.WriteFile(custom, []byte(`{"name": "Edited"}`), 0644))

	written, err = ExportBundled(dir, false)
	require.NoError(t, err)
	assert.Empty(t, written)

	doc, err := Load(custom)
	require.NoError(t, err)
	assert.Equal(t, "Edited", doc.Name)

	written, err = ExportBundled(dir, true)
	require.NoError(t, err)
	assert.Len(t, written, len(BundledThemes))
}
