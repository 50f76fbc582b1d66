package upload

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestFilesystem_SaveAndOpen(t *testing.T) {
	fs, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("new filesystem: %v", err)
	}
	ctx := context.Background()

	if err := fs.Save(ctx, "photo.png", strings.NewReader("fake png bytes")); err != nil {
		t.Fatalf("save: %v", err)
	}

	rc, err := fs.Open(ctx, "photo.png")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "fake png bytes" {
		t.Fatalf("round trip mismatch: %q", data)
	}
}

func TestFilesystem_Overwrite(t *testing.T) {
	fs, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("new filesystem: %v", err)
	}
	ctx := context.Background()

	if err := fs.Save(ctx, "photo.png", strings.NewReader("first")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := fs.Save(ctx, "photo.png", strings.NewReader("second")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	rc, err := fs.Open(ctx, "photo.png")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()

	data, _ := io.ReadAll(rc)
	if string(data) != "second" {
		t.Fatalf("expected latest content, got %q", data)
	}
}

func TestFilesystem_OpenMissing(t *testing.T) {
	fs, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("new filesystem: %v", err)
	}

	if _, err := fs.Open(context.Background(), "missing.png"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSanitize(t *testing.T) {
	valid := []string{"photo.png", "20250101_120000_scan.jpg"}
	for _, name := range valid {
		if got, err := sanitize(name); err != nil || got != name {
			t.Fatalf("sanitize(%q) = %q, %v", name, got, err)
		}
	}

	invalid := []string{"", "   ", ".", ".."}
	for _, name := range invalid {
		if _, err := sanitize(name); err == nil {
			t.Fatalf("expected error for %q", name)
		}
	}

	// Path components are stripped down to the base name, so traversal
	// never reaches outside the root.
	got, err := sanitize("../../etc/passwd")
	if err != nil {
		t.Fatalf("sanitize traversal: %v", err)
	}
	if got != "passwd" {
		t.Fatalf("expected base name, got %q", got)
	}
}
