package os

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

var ErrLocked = errors.New("file is locked by another process")

// Flock is an advisory lock bound to a file next to some output.
type Flock struct {
	f *flock.Flock
}

// NewFileLock makes a lock file at path (the parent directories should exist or be creatable).
func NewFileLock(path string) (*Flock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return &Flock{f: flock.New(path)}, nil
}

// TryLock takes the lock without blocking or returns ErrLocked.
func (f *Flock) TryLock() error {
	ok, err := f.f.TryLock()
	if err != nil {
		return err
	}
	if !ok {
		return ErrLocked
	}
	return nil
}

// Release unlocks and removes the lock file.
func (f *Flock) Release() error {
	if err := f.f.Unlock(); err != nil {
		return err
	}
	if err := os.Remove(f.f.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (f *Flock) Path() string { return f.f.Path() }
