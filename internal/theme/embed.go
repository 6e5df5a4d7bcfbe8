package theme

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// EmbeddedThemes contains all bundled theme documents.
//
//go:embed themes/*.json
var EmbeddedThemes embed.FS

// BundledThemes lists all embedded theme names.
var BundledThemes = []string{"navy_blue", "original", "seajay"}

// GetEmbeddedTheme retrieves a bundled theme by name (without prefix or extension).
func GetEmbeddedTheme(name string) (*Document, bool) {
	data, err := EmbeddedThemes.ReadFile("themes/" + ThemeFilePrefix + name + ".json")
	if err != nil {
		return nil, false
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, false
	}
	return doc, true
}

// ListEmbeddedThemes returns names of all embedded themes.
func ListEmbeddedThemes() []string {
	entries, err := fs.ReadDir(EmbeddedThemes, "themes")
	if err != nil {
		return BundledThemes
	}

	var themes []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		themes = append(themes, bundledName(name))
	}
	return themes
}

// ExportBundled writes the bundled themes into dir so they can be edited.
// Existing files are left alone unless overwrite is set.
// Returns the paths that were written.
func ExportBundled(dir string, overwrite bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	entries, err := fs.ReadDir(EmbeddedThemes, "themes")
	if err != nil {
		return nil, err
	}

	var written []string
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".json") {
			continue
		}

		dst := filepath.Join(dir, name)
		if _, err := os.Stat(dst); err == nil && !overwrite {
			continue
		}

		data, err := EmbeddedThemes.ReadFile("themes/" + name)
		if err != nil {
			return written, err
		}
		if err := os.WriteFile(dst, data, 0644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", dst, err)
		}
		written = append(written, dst)
	}
	return written, nil
}
