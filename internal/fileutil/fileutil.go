// Package fileutil holds output-file helpers for the oasref CLI.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// OwnerReadWrite is the file permission mode for expanded documents, which may
// contain sensitive API data (owner read/write only).
const OwnerReadWrite os.FileMode = 0o600

// SanitizeOutputPath cleans path, makes it absolute and rejects symlinks.
// New files in existing directories are accepted.
func SanitizeOutputPath(path string) (string, error) {
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("fileutil: cannot resolve absolute path: %w", err)
	}

	info, err := os.Lstat(abs)
	switch {
	case err == nil:
		if info.Mode()&os.ModeSymlink != 0 {
			return "", fmt.Errorf("fileutil: refusing to write to symlink: %s", abs)
		}
		if info.IsDir() {
			return "", fmt.Errorf("fileutil: output path is a directory: %s", abs)
		}
	case os.IsNotExist(err):
	default:
		return "", fmt.Errorf("fileutil: cannot stat path: %w", err)
	}
	return abs, nil
}

// SameFile reports whether two paths name the same location once made absolute.
func SameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

// WriteOutput sanitizes path and writes data with OwnerReadWrite permissions.
// It returns the absolute path written.
func WriteOutput(path string, data []byte) (string, error) {
	abs, err := SanitizeOutputPath(path)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(abs, data, OwnerReadWrite); err != nil {
		return "", fmt.Errorf("fileutil: writing %s: %w", abs, err)
	}
	return abs, nil
}
