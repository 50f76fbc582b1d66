package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Filesystem stores files under a local directory.
type Filesystem struct {
	root string
}

// NewFilesystem returns a filesystem store rooted at dir, creating it if
// needed.
func NewFilesystem(dir string) (*Filesystem, error) {
	if dir == "" {
		dir = "uploads/properties"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("upload: create dir %s: %w", dir, err)
	}
	return &Filesystem{root: dir}, nil
}

// sanitize rejects names that could escape the root directory.
func sanitize(filename string) (string, error) {
	if strings.TrimSpace(filename) == "" {
		return "", fmt.Errorf("upload: empty filename")
	}
	clean := filepath.Base(filepath.Clean(filename))
	if clean == "." || clean == ".." || strings.ContainsAny(clean, `/\`) {
		return "", fmt.Errorf("upload: invalid filename %q", filename)
	}
	return clean, nil
}

func (f *Filesystem) Save(ctx context.Context, filename string, r io.Reader) error {
	name, err := sanitize(filename)
	if err != nil {
		return err
	}

	// Write to a temp file first so a failed upload never leaves a partial
	// file at the final name.
	tmp, err := os.CreateTemp(f.root, ".tmp-*")
	if err != nil {
		return fmt.Errorf("upload: create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("upload: write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("upload: close temp: %w", err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(f.root, name)); err != nil {
		return fmt.Errorf("upload: store %s: %w", name, err)
	}
	return nil
}

func (f *Filesystem) Open(ctx context.Context, filename string) (io.ReadCloser, error) {
	name, err := sanitize(filename)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(f.root, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("upload: open %s: %w", name, err)
	}
	return file, nil
}
