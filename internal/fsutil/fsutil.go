// Package fsutil provides the file write and copy helpers shared by the
// rewriting and backup packages.
package fsutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrWritePermission is returned when a live file cannot be written back.
var ErrWritePermission = errors.New("write permission error")

// WriteFile replaces the contents of path, keeping the existing file mode.
// The data is written to a temporary file in the same directory and renamed
// over the target so readers never see a truncated file.
func WriteFile(path string, data []byte) error {
	mode := fs.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return wrapWrite(path, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return wrapWrite(path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return wrapWrite(path, err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		os.Remove(tmpPath)
		return wrapWrite(path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return wrapWrite(path, err)
	}
	return nil
}

// CopyFile copies src to dst, preserving the permission bits and the
// modification time of src. dst is overwritten if it exists.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return wrapWrite(dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return wrapWrite(dst, err)
	}
	if err := out.Close(); err != nil {
		return wrapWrite(dst, err)
	}

	// Existing files keep their old mode through O_TRUNC
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return wrapWrite(dst, err)
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// wrapWrite tags err with ErrWritePermission while keeping the underlying
// error (e.g. fs.ErrPermission) reachable through errors.Is.
func wrapWrite(path string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrWritePermission, path, err)
}
