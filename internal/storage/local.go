package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Local stores objects as plain files under a root directory. The locator it
// returns is the full filesystem path of the written file.
type Local struct {
	root string
}

// NewLocal creates a Local backend rooted at root, creating the directory if
// it does not exist.
func NewLocal(root string) (*Local, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root %q: %w", root, err)
	}
	return &Local{root: root}, nil
}

// Store writes data to a freshly named file under the root and fsyncs it
// before returning, so a returned path always refers to durable bytes.
func (l *Local) Store(_ context.Context, filename string, data []byte) (string, error) {
	path := filepath.Join(l.root, UniqueName(filename))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create parent directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %q: %w", path, err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write %q: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("sync %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close %q: %w", path, err)
	}

	return path, nil
}

// Fetch reads the whole file at path.
func (l *Local) Fetch(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}
	return data, nil
}

// Delete removes the file at path. Removing a missing file is an error.
func (l *Local) Delete(_ context.Context, path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove %q: %w", path, err)
	}
	return nil
}

// Type returns the backend tag recorded on file metadata.
func (l *Local) Type() string {
	return "local"
}
