// Package runlock keeps two pack runs from writing into the same output
// folder at once.
package runlock

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"rawpack/internal/failures"
)

// Lock is a held advisory lock for one output folder.
type Lock struct {
	path   string
	folder string
	lock   *flock.Flock
}

// PathFor returns the lock file used for outputFolder inside lockDir.
func PathFor(lockDir, outputFolder string) string {
	abs, err := filepath.Abs(outputFolder)
	if err != nil {
		abs = filepath.Clean(outputFolder)
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(lockDir, hex.EncodeToString(sum[:])[:16]+".lock")
}

// Acquire takes the lock for outputFolder without blocking. A folder already
// locked by another run yields an argument error.
func Acquire(lockDir, outputFolder string) (*Lock, error) {
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}
	path := PathFor(lockDir, outputFolder)
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, failures.Argumentf("another rawpack run is already writing to %s", outputFolder)
	}
	return &Lock{path: path, folder: outputFolder, lock: fl}, nil
}

// Path returns the lock file backing l.
func (l *Lock) Path() string {
	return l.path
}

// Release drops the lock. It is safe to call on a nil Lock.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
