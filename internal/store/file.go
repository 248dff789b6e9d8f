package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// File keeps each key in <dir>/<key>.json. Writes go through a temp file
// and a rename so a crash never leaves a half-written slice behind.
type File struct {
	dir string
	mu  sync.Mutex
}

// NewFile creates the directory if needed.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &File{dir: dir}, nil
}

func (f *File) Get(ctx context.Context, key string) ([]byte, error) {
	if !validKey(key) {
		return nil, ErrInvalidKey
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	b, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return b, nil
}

func (f *File) Put(ctx context.Context, key string, value []byte) error {
	if !validKey(key) {
		return ErrInvalidKey
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.write(key, value)
}

// PutAll writes keys one by one; it is not atomic across keys.
func (f *File) PutAll(ctx context.Context, values map[string][]byte) error {
	for key := range values {
		if !validKey(key) {
			return fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for key, value := range values {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := f.write(key, value); err != nil {
			return err
		}
	}
	return nil
}

func (f *File) write(key string, value []byte) error {
	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), f.path(key)); err != nil {
		return fmt.Errorf("rename %s: %w", key, err)
	}
	return nil
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}
