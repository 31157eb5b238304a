// Package fsutil holds the filesystem primitives shared by the file-backed adapters.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/aretw0/ensureline/pkg/domain"
)

// DefaultPerm is used for files that do not exist yet.
const DefaultPerm fs.FileMode = 0o644

// WriteFileAtomic replaces path with data without ever exposing a partial file.
// It writes to a temporary file in the same directory, fsyncs it, and renames it over
// the destination. The existing permission bits are kept.
func WriteFileAtomic(path string, data []byte) error {
	perm := DefaultPerm
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to ensure directory: %w", Classify(err))
	}

	// Same directory, so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", Classify(err))
	}
	tmpPath := tmpFile.Name()

	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Cannot rename an open file on Windows.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, Classify(err))
	}
	return nil
}

// CopyFile copies src to dst atomically, keeping the source permission bits.
func CopyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return Classify(err)
	}
	if err := WriteFileAtomic(dst, data); err != nil {
		return err
	}
	info, err := os.Stat(src)
	if err != nil {
		return Classify(err)
	}
	return os.Chmod(dst, info.Mode().Perm())
}

// ReadFile reads path, mapping missing files and permission failures to domain sentinels.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Classify(err)
	}
	return data, nil
}

// Classify wraps filesystem errors with the matching domain sentinel.
func Classify(err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %v", domain.ErrResourceNotFound, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %v", domain.ErrPermission, err)
	default:
		return err
	}
}
