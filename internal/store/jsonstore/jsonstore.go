package jsonstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/idilsaglam/tierlist/internal/store"
)

// JSON-backed storage. One human-readable file per key, portable.
// A sidecar lock file keeps a CLI invocation and a running board from
// interleaving writes.

const lockRetry = 25 * time.Millisecond

// Store keeps the blob in <dir>/<key>.json.
type Store struct {
	path string
	lock *flock.Flock
}

var _ store.Store = (*Store)(nil)

// New prepares a store rooted at dir. The directory is created on first save.
func New(dir, key string) *Store {
	if key == "" {
		key = store.DefaultKey
	}
	base := filepath.Join(dir, key)
	return &Store{
		path: base + ".json",
		lock: flock.New(base + ".lock"),
	}
}

// Path is the data file location.
func (s *Store) Path() string { return s.path }

func (s *Store) Load(ctx context.Context) ([]byte, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	return b, nil
}

func (s *Store) Save(ctx context.Context, blob []byte) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	locked, err := s.lock.TryLockContext(ctx, lockRetry)
	if err != nil {
		return fmt.Errorf("lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("lock: %s is busy", s.lock.Path())
	}
	defer func() { _ = s.lock.Unlock() }()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(blob); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return s.lock.Close() }
