package sync

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Local permissions for mirrored content.
const (
	dirPerms  os.FileMode = 0o755
	filePerms os.FileMode = 0o644
)

// tempPattern names in-progress writes. It is independent of the target name
// so any name the filesystem accepts can be written.
const tempPattern = ".drivemirror-*.partial"

// writeAtomic streams r into a uniquely named temp file next to target and
// renames it into place, so target either does not exist or is complete.
// A half-written temp file is removed on failure; one left behind by a crash
// is not a remote entry and is removed by the next pruning pass.
func writeAtomic(fsys afero.Fs, target string, r io.Reader) (int64, error) {
	tmp, err := afero.TempFile(fsys, filepath.Dir(target), tempPattern)
	if err != nil {
		return 0, fmt.Errorf("creating temp file for %s: %w", target, err)
	}

	tmpName := tmp.Name()

	n, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		fsys.Remove(tmpName)

		return n, fmt.Errorf("writing %s: %w", target, err)
	}

	if err := tmp.Close(); err != nil {
		fsys.Remove(tmpName)
		return n, fmt.Errorf("closing temp file for %s: %w", target, err)
	}

	if err := fsys.Chmod(tmpName, filePerms); err != nil {
		fsys.Remove(tmpName)
		return n, fmt.Errorf("setting permissions on %s: %w", target, err)
	}

	if err := fsys.Rename(tmpName, target); err != nil {
		fsys.Remove(tmpName)
		return n, fmt.Errorf("renaming temp file to %s: %w", target, err)
	}

	return n, nil
}
