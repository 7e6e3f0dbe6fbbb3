package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gofrs/flock"
)

// lockFilePermissions matches the standard config file permissions (owner rw, group/other r).
const lockFilePermissions = 0o644

// lockDirPermissions matches the standard directory permissions (owner rwx, group/other rx).
const lockDirPermissions = 0o755

// errDestinationLocked is returned when another run holds the destination lock.
var errDestinationLocked = errors.New("another sync into this destination is already running")

// runLockPath returns the lock file guarding destination. It lives next to
// the destination rather than inside it, so pruning never sees it.
func runLockPath(destination string) string {
	clean := filepath.Clean(destination)

	return filepath.Join(filepath.Dir(clean), "."+filepath.Base(clean)+".drivemirror.lock")
}

// acquireRunLock takes a non-blocking exclusive lock on path and records the
// current PID in it. The returned function releases the lock and removes the
// file.
func acquireRunLock(path string) (release func(), err error) {
	if err := os.MkdirAll(filepath.Dir(path), lockDirPermissions); err != nil {
		return nil, fmt.Errorf("creating lock directory: %w", err)
	}

	fl := flock.New(path)

	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("locking %s: %w", path, err)
	}

	if !locked {
		return nil, fmt.Errorf("%w (lock held on %s)", errDestinationLocked, path)
	}

	pid := strconv.Itoa(os.Getpid()) + "\n"
	if err := os.WriteFile(path, []byte(pid), lockFilePermissions); err != nil {
		fl.Unlock() //nolint:errcheck // already failing

		return nil, fmt.Errorf("writing lock file: %w", err)
	}

	return func() {
		os.Remove(path)
		fl.Unlock() //nolint:errcheck // best effort on exit
	}, nil
}
