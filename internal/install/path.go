// Package install places downloaded kernel images on disk.
package install

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrAlreadyExists indicates the destination kernel image is already present.
var ErrAlreadyExists = errors.New("new kernel already exists, not overriding")

// TargetPath returns the destination of a kernel image named name inside dir.
// The name must be a single path element.
func TargetPath(dir, name string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", fmt.Errorf("download directory is empty")
	}
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid kernel file name %q", name)
	}
	return filepath.Join(dir, name), nil
}

// Exists reports whether something is already present at path.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
}

// WriteNew creates path exclusively and copies r into it. A partially
// written file is removed before returning the error.
func WriteNew(path string, r io.Reader) (int64, error) {
	// #nosec G304 -- path derived from configured download dir and release name
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return 0, fmt.Errorf("%w: %s", ErrAlreadyExists, path)
		}
		return 0, fmt.Errorf("create %s: %w", path, err)
	}

	n, err := io.Copy(f, r)
	if err == nil {
		err = f.Sync()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	return n, nil
}
