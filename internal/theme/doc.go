// Package theme loads color-scheme documents from JSON files. Themes are
// resolved from the user's themes directory first and fall back to the
// bundled themes embedded in the binary.
package theme
