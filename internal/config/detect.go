package config

import (
	"os"
	"path/filepath"
)

// rootMarkers must all exist below a directory for it to count as an
// OpenBench installation.
var rootMarkers = []string{
	"manage.py",
	filepath.Join("OpenBench", "static", "style.css"),
	filepath.Join("Templates", "OpenBench"),
}

// IsRoot reports whether path looks like an OpenBench installation root.
func IsRoot(path string) bool {
	if path == "" {
		return false
	}
	for _, marker := range rootMarkers {
		if _, err := os.Stat(filepath.Join(path, marker)); err != nil {
			return false
		}
	}
	return true
}

// DetectRoot returns the installation root.
// An explicit path (flag or config) is trusted as long as it exists;
// otherwise the working directory and the executable's directory are tried.
func DetectRoot(explicit string) (string, error) {
	if explicit != "" {
		if info, err := os.Stat(explicit); err == nil && info.IsDir() {
			return filepath.Abs(explicit)
		}
		return "", ErrRootNotFound
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, cwd)
	}
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Dir(exe))
	}

	for _, candidate := range candidates {
		if IsRoot(candidate) {
			return candidate, nil
		}
	}
	return "", ErrRootNotFound
}
