package os

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestFlockExclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "out.mp4.lock")

	a, err := NewFileLock(path)
	if err != nil {
		t.Fatal(err)
	}
	if err = a.TryLock(); err != nil {
		t.Fatalf("first lock, %v", err)
	}

	b, err := NewFileLock(path)
	if err != nil {
		t.Fatal(err)
	}
	if err = b.TryLock(); !errors.Is(err, ErrLocked) {
		t.Fatalf("second lock should fail with ErrLocked, got %v", err)
	}

	if err = a.Release(); err != nil {
		t.Fatal(err)
	}
	if Exists(path) {
		t.Errorf("lock file %v should be removed", path)
	}
	if err = b.TryLock(); err != nil {
		t.Fatalf("lock after release, %v", err)
	}
	_ = b.Release()
}

func TestCheckCreateDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")
	if err := CheckCreateDir(dir); err != nil {
		t.Fatal(err)
	}
	if !IsDir(dir) {
		t.Errorf("%v is not created", dir)
	}
	if err := CheckCreateDir(dir); err != nil {
		t.Errorf("second call should be a no-op, %v", err)
	}
}
