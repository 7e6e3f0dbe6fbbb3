// Package sync mirrors a remote folder tree onto a local directory. A run
// walks the tree recursively, downloads or exports every leaf that has no
// local copy yet, and optionally prunes local entries that disappeared
// remotely. Individual item failures are logged and never abort a run.
package sync

import "errors"

var (
	// ErrAuth aborts a run before any traversal.
	ErrAuth = errors.New("sync: authentication failed")

	// ErrConfiguration reports an export setting that cannot serve an entry,
	// such as an enabled subtype without a target format or extension.
	ErrConfiguration = errors.New("sync: configuration error")

	// ErrUnsafeName rejects remote names that would escape their directory.
	ErrUnsafeName = errors.New("sync: unsafe remote name")

	// ErrRetryExhausted is returned when a call stays rate limited for every
	// allowed attempt.
	ErrRetryExhausted = errors.New("sync: retries exhausted")
)
