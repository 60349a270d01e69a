// Package fsutil provides the filesystem primitives the provisioning
// workflow relies on: atomic whole-file replacement and write-if-missing
// semantics for template documents.
package fsutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteFileAtomic writes data to a file atomically by writing to a temporary
// file in the same directory and renaming it over the target. The parent
// directory is created if needed.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("fsutil: ensure directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("fsutil: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("fsutil: write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("fsutil: sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("fsutil: close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("fsutil: chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("fsutil: rename temp file: %w", err)
	}
	return nil
}

// WriteFileIfMissing writes data to path only when no file exists there yet.
// Returns true when the file was written. An existing file is never touched,
// which makes repeated provisioning runs safe for workspace documents.
func WriteFileIfMissing(path string, data []byte, perm os.FileMode) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("fsutil: stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return false, fmt.Errorf("fsutil: write %s: %w", path, err)
	}
	return true, nil
}

// CopyFileIfMissing copies src to dst when src exists and dst does not.
// A missing source is not an error; the copy is simply skipped.
// Returns true when a copy happened.
func CopyFileIfMissing(src, dst string) (bool, error) {
	if _, err := os.Stat(src); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("fsutil: stat %s: %w", src, err)
	}
	if _, err := os.Stat(dst); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("fsutil: stat %s: %w", dst, err)
	}

	in, err := os.Open(src)
	if err != nil {
		return false, fmt.Errorf("fsutil: open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return false, fmt.Errorf("fsutil: create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return false, fmt.Errorf("fsutil: copy to %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		return false, fmt.Errorf("fsutil: close %s: %w", dst, err)
	}
	return true, nil
}
