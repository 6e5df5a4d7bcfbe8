package theme

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ThemeFilePrefix is the file name prefix of theme documents in a themes directory.
const ThemeFilePrefix = "theme_"

// Load reads and parses a theme document from path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidThemeFile, path, err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.Path = path
	return doc, nil
}

// Parse decodes a theme document from JSON.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidThemeFile, err)
	}
	if strings.TrimSpace(doc.Name) == "" {
		return nil, fmt.Errorf("%w: missing \"name\"", ErrInvalidThemeFile)
	}
	if doc.ShortName() == "" {
		return nil, fmt.Errorf("%w: name %q has no letters or digits", ErrInvalidThemeFile, doc.Name)
	}
	if doc.Colors == nil {
		doc.Colors = make(map[string]map[string]string)
	}
	return &doc, nil
}

// Resolve finds a theme by reference.
// Resolution order:
//  1. ref relative to themesDir (e.g. "theme_navy_blue.json")
//  2. ref as a path of its own
//  3. themesDir/theme_<ref>.json, then themesDir/<ref>.json
//  4. bundled themes (ref with any "theme_" prefix and ".json" suffix removed)
//
// A file named like a bundled theme in themesDir overrides the bundled one.
func Resolve(themesDir, ref string) (*Document, error) {
	if ref == "" {
		return nil, fmt.Errorf("%w: empty theme reference", ErrInvalidThemeFile)
	}

	var candidates []string
	if themesDir != "" {
		candidates = append(candidates, filepath.Join(themesDir, ref))
	}
	candidates = append(candidates, ref)
	if themesDir != "" && !strings.HasSuffix(ref, ".json") {
		candidates = append(candidates,
			filepath.Join(themesDir, ThemeFilePrefix+ref+".json"),
			filepath.Join(themesDir, ref+".json"),
		)
	}

	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return Load(path)
		}
	}

	if doc, found := GetEmbeddedTheme(bundledName(ref)); found {
		return doc, nil
	}

	return nil, fmt.Errorf("%w: theme not found: %s", ErrInvalidThemeFile, ref)
}

// List returns the themes available in themesDir plus the bundled themes
// that are not overridden there. Entries are sorted by file name; files that
// fail to parse are listed with their error instead of aborting the listing.
func List(themesDir string) ([]Info, error) {
	seen := make(map[string]bool)
	var themes []Info

	if themesDir != "" {
		entries, err := os.ReadDir(themesDir)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}

		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || filepath.Ext(name) != ".json" {
				continue
			}

			path := filepath.Join(themesDir, name)
			info := Info{File: name, Path: path}
			doc, err := Load(path)
			if err != nil {
				info.Name = "Unnamed"
				info.Error = err.Error()
			} else {
				info.Name = doc.Name
				info.Description = doc.Description
			}
			seen[bundledName(name)] = true
			themes = append(themes, info)
		}
	}

	for _, name := range ListEmbeddedThemes() {
		if seen[name] {
			continue
		}
		doc, found := GetEmbeddedTheme(name)
		if !found {
			continue
		}
		themes = append(themes, Info{
			File:        ThemeFilePrefix + name + ".json",
			Name:        doc.Name,
			Description: doc.Description,
			IsBundled:   true,
		})
	}

	sort.SliceStable(themes, func(i, j int) bool {
		return themes[i].File < themes[j].File
	})

	return themes, nil
}

// bundledName strips directory, "theme_" prefix and ".json" suffix.
func bundledName(ref string) string {
	name := filepath.Base(ref)
	name = strings.TrimSuffix(name, ".json")
	return strings.TrimPrefix(name, ThemeFilePrefix)
}
