package storage_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/portfolio-api/internal/storage"
)

func TestLocal_SaveOpenDelete(t *testing.T) {
	root := t.TempDir()
	store := storage.NewLocal(root, "/uploads/")

	n, err := store.Save("media/a.png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if n != int64(len("png-bytes")) {
		t.Errorf("Expected %d bytes, got %d", len("png-bytes"), n)
	}
	if _, err := os.Stat(filepath.Join(root, "media", "a.png")); err != nil {
		t.Errorf("Expected file on disk: %v", err)
	}

	f, err := store.Open("media/a.png")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	data, _ := io.ReadAll(f)
	f.Close()
	if string(data) != "png-bytes" {
		t.Errorf("Expected stored content, got %q", data)
	}

	if got := store.URL("media/a.png"); got != "/uploads/media/a.png" {
		t.Errorf("Expected /uploads/media/a.png, got %s", got)
	}

	if err := store.Delete("media/a.png"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete("media/a.png"); err != nil {
		t.Errorf("Expected deleting a missing file to succeed, got %v", err)
	}
}

func TestLocal_StaysInsideRoot(t *testing.T) {
	root := t.TempDir()
	store := storage.NewLocal(filepath.Join(root, "uploads"), "/uploads")

	if _, err := store.Save("../../escape.txt", strings.NewReader("x")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "uploads", "escape.txt")); err != nil {
		t.Errorf("Expected traversal to be clamped inside root: %v", err)
	}

	if _, err := store.Save("", strings.NewReader("x")); !errors.Is(err, storage.ErrInvalidPath) {
		t.Errorf("Expected ErrInvalidPath for empty path, got %v", err)
	}
}
