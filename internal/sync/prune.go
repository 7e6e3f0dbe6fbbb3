package sync

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"
)

// defaultPruneWorkers bounds concurrent deletions within one directory.
const defaultPruneWorkers = 8

// PruneEngine removes local entries that no longer correspond to any entry
// of the latest remote listing of their directory.
type PruneEngine struct {
	fs      afero.Fs
	policy  *ExportPolicy
	workers int
	logger  *slog.Logger
}

// Prune deletes, recursively and concurrently, every entry of localDir that
// is not kept. It must only run after every child of the directory has
// settled. Deletion failures are logged and skipped. Returns the number of
// entries removed.
//
// An entry is kept when its name equals the raw remote name of an entry in
// keep, or that entry's resolved local name (so exported documents survive).
// Names are compared after NFC normalization.
func (p *PruneEngine) Prune(ctx context.Context, localDir string, keep []RemoteEntry) int {
	if ctx.Err() != nil {
		p.logger.Warn("run canceled, not pruning", slog.String("dir", localDir))
		return 0
	}

	infos, err := afero.ReadDir(p.fs, localDir)
	if err != nil {
		p.logger.Error("listing local directory for prune failed",
			slog.String("dir", localDir),
			slog.String("error", err.Error()),
		)

		return 0
	}

	kept := p.keepSet(keep)

	p.logger.Debug("pruning stale entries",
		slog.String("dir", localDir),
		slog.Int("local", len(infos)),
		slog.Int("remote", len(keep)),
	)

	var removed atomic.Int32

	g := new(errgroup.Group)
	g.SetLimit(p.workers)

	for _, info := range infos {
		name := info.Name()
		if kept.Contains(norm.NFC.String(name)) {
			continue
		}

		g.Go(func() error {
			path := filepath.Join(localDir, name)

			if err := p.fs.RemoveAll(path); err != nil {
				p.logger.Error("deleting stale entry failed",
					slog.String("path", path),
					slog.String("error", err.Error()),
				)

				return nil
			}

			p.logger.Info("deleted stale entry", slog.String("path", path))
			removed.Add(1)

			return nil
		})
	}

	_ = g.Wait() // every goroutine returns nil; failures are logged above

	return int(removed.Load())
}

func (p *PruneEngine) keepSet(keep []RemoteEntry) mapset.Set[string] {
	kept := mapset.NewThreadUnsafeSetWithSize[string](2 * len(keep))

	for _, e := range keep {
		kept.Add(norm.NFC.String(e.Name))

		if name, err := ResolveName(e, p.policy); err == nil {
			kept.Add(norm.NFC.String(name))
		}
	}

	return kept
}
