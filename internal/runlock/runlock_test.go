package runlock_test

import (
	"errors"
	"path/filepath"
	"testing"

	"rawpack/internal/failures"
	"rawpack/internal/runlock"
)

func TestAcquireIsExclusivePerFolder(t *testing.T) {
	lockDir := filepath.Join(t.TempDir(), "locks")
	out := t.TempDir()

	first, err := runlock.Acquire(lockDir, out)
	if err != nil {
		t.Fatalf("first Acquire: %v", err)
	}

	if _, err := runlock.Acquire(lockDir, out); !errors.Is(err, failures.ErrArgument) {
		t.Fatalf("expected argument error for second run, got %v", err)
	}

	other, err := runlock.Acquire(lockDir, t.TempDir())
	if err != nil {
		t.Fatalf("lock on a different folder should succeed: %v", err)
	}
	defer other.Release()

	if err := first.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	again, err := runlock.Acquire(lockDir, out)
	if err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	if err := again.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
}

func TestPathForNormalizesFolder(t *testing.T) {
	dir := t.TempDir()
	a := runlock.PathFor("/locks", dir)
	b := runlock.PathFor("/locks", dir+"/./")
	if a != b {
		t.Fatalf("expected equivalent folders to share a lock, got %s and %s", a, b)
	}
	if filepath.Dir(a) != "/locks" || filepath.Ext(a) != ".lock" {
		t.Fatalf("unexpected lock path %s", a)
	}
}

func TestReleaseNil(t *testing.T) {
	var l *runlock.Lock
	if err := l.Release(); err != nil {
		t.Fatalf("nil Release returned %v", err)
	}
}
