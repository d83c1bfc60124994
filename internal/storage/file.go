package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/claude/rpfocus/internal/models"
)

// File stores the state as a JSON document on disk. Writes go to a
// temporary file that is renamed into place.
type File struct {
	path string
}

var _ Store = (*File)(nil)

// NewFile returns a Store backed by path. The file need not exist.
func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Load(_ context.Context) (models.State, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return models.State{}, ErrNotFound
	}
	if err != nil {
		return models.State{}, fmt.Errorf("reading %s: %w", f.path, err)
	}
	return Decode(data)
}

func (f *File) Save(_ context.Context, s models.State) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replacing %s: %w", f.path, err)
	}
	return nil
}

func (f *File) Close() error { return nil }
