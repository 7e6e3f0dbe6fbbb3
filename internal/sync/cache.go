package sync

import "github.com/spf13/afero"

// CacheGate decides from local state alone whether a leaf can be skipped.
// A path that exists counts as materialized; neither content nor timestamps
// are compared, so a remote edit is only picked up after the local copy is
// removed.
type CacheGate struct {
	fs afero.Fs
}

// IsCached reports whether localPath exists. Stat errors other than
// "not exist" count as a miss so the download gets a chance to report them.
func (g CacheGate) IsCached(localPath string) bool {
	ok, err := afero.Exists(g.fs, localPath)

	return err == nil && ok
}
