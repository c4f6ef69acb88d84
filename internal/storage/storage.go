// Package storage keeps uploaded files on local disk.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidPath is returned for paths escaping the storage root
var ErrInvalidPath = errors.New("invalid storage path")

// Local stores files under a root directory and serves them under a public URL prefix
type Local struct {
	root      string
	publicURL string
}

// NewLocal creates a local store rooted at root
func NewLocal(root, publicURL string) *Local {
	return &Local{root: root, publicURL: strings.TrimRight(publicURL, "/")}
}

// Root returns the directory files are stored under
func (s *Local) Root() string {
	return s.root
}

// resolve maps a relative storage path to a file path inside root
func (s *Local) resolve(rel string) (string, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(rel))
	if clean == string(filepath.Separator) {
		return "", ErrInvalidPath
	}
	return filepath.Join(s.root, clean), nil
}

// Save writes r to rel and returns the number of bytes written. The file is
// written to a temporary name first so readers never see partial content.
func (s *Local) Save(rel string, r io.Reader) (int64, error) {
	path, err := s.resolve(rel)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, fmt.Errorf("create upload directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return 0, fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("rename file: %w", err)
	}
	return n, nil
}

// Open opens a stored file for reading
func (s *Local) Open(rel string) (*os.File, error) {
	path, err := s.resolve(rel)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Delete removes a stored file; a missing file is not an error
func (s *Local) Delete(rel string) error {
	path, err := s.resolve(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// URL returns the public URL of a stored file
func (s *Local) URL(rel string) string {
	return s.publicURL + "/" + strings.TrimLeft(filepath.ToSlash(rel), "/")
}
