package sync

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	gosync "sync"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
	"golang.org/x/sync/semaphore"
)

// TreeWalker drives a run: for every directory it starts one branch per
// child, waits for all of them, and only then prunes the directory.
//
// Branches are goroutines joined by a WaitGroup. Remote calls and the writes
// that consume them hold a slot of a shared semaphore, so the number of
// in-flight requests stays bounded however wide or deep the tree is. A
// folder branch releases its slot before recursing, so waiting parents never
// starve their children.
type TreeWalker struct {
	root    string
	prune   bool
	policy  *ExportPolicy
	lister  Lister
	fetcher *ContentFetcher
	retry   *RetryPolicy
	cache   CacheGate
	pruner  *PruneEngine
	fs      afero.Fs
	sem     *semaphore.Weighted
	tally   *tally
	logger  *slog.Logger
}

// Walk processes entries, the listing of the directory at relParent (relative
// to the destination root; "" is the root itself). It returns once every
// branch below relParent has settled and the directory has been pruned.
func (w *TreeWalker) Walk(ctx context.Context, entries []RemoteEntry, relParent string) {
	selected := w.filter(entries)
	results := make([]branchResult, len(selected))

	var wg gosync.WaitGroup

	for i := range selected {
		wg.Add(1)

		go func() {
			defer wg.Done()

			results[i] = w.settle(ctx, selected[i], relParent)
		}()
	}

	wg.Wait()

	for _, r := range results {
		w.tally.record(r)
	}

	if !w.prune {
		return
	}

	// Entries dropped by the export filter are absent from the keep set, so
	// disabling a subtype removes copies exported by earlier runs.
	n := w.pruner.Prune(ctx, filepath.Join(w.root, relParent), selected)
	w.tally.pruned.Add(int64(n))
}

// filter drops documents whose subtype is not exported. Folders and opaque
// files always pass.
func (w *TreeWalker) filter(entries []RemoteEntry) []RemoteEntry {
	selected := make([]RemoteEntry, 0, len(entries))

	for _, e := range entries {
		if e.Kind == KindDocument && !w.policy.Enabled(e.Subtype) {
			w.logger.Debug("skipping document, export disabled",
				slog.String("name", e.Name),
				slog.String("subtype", e.Subtype),
			)

			continue
		}

		selected = append(selected, e)
	}

	return selected
}

// settle runs one branch and always produces a result, converting errors and
// panics into a logged failure.
func (w *TreeWalker) settle(ctx context.Context, e RemoteEntry, relParent string) (res branchResult) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("panic while syncing entry",
				slog.String("path", displayPath(relParent, e.Name)),
				slog.Any("panic", r),
			)

			res = branchResult{outcome: outcomeFailed}
		}
	}()

	var err error

	if e.Kind == KindFolder {
		res, err = w.syncFolder(ctx, e, relParent)
	} else {
		res, err = w.syncLeaf(ctx, e, relParent)
	}

	if err != nil {
		w.logger.Error("sync failed",
			slog.String("path", displayPath(relParent, e.Name)),
			slog.String("kind", e.Kind.String()),
			slog.String("error", err.Error()),
		)

		return branchResult{outcome: outcomeFailed}
	}

	return res
}

// syncFolder creates the local directory, lists the remote folder and walks
// it. A folder that cannot be listed is neither recursed into nor pruned.
func (w *TreeWalker) syncFolder(ctx context.Context, e RemoteEntry, relParent string) (branchResult, error) {
	if err := checkName(e.Name); err != nil {
		return branchResult{}, err
	}

	rel := filepath.Join(relParent, e.Name)

	w.logger.Info("creating folder", slog.String("path", displayPath(relParent, e.Name)))

	if err := w.fs.MkdirAll(filepath.Join(w.root, rel), dirPerms); err != nil {
		return branchResult{}, fmt.Errorf("creating folder: %w", err)
	}

	children, err := w.list(ctx, e.ID, rel)
	if err != nil {
		return branchResult{}, err
	}

	w.Walk(ctx, children, rel)

	return branchResult{outcome: outcomeFolder}, nil
}

// list fetches a folder listing through the retry policy while holding a
// transfer slot.
func (w *TreeWalker) list(ctx context.Context, folderID, rel string) ([]RemoteEntry, error) {
	if err := w.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("waiting for transfer slot: %w", err)
	}
	defer w.sem.Release(1)

	var files []RemoteEntry

	err := w.retry.Do(ctx, "list "+filepath.ToSlash(rel), func(ctx context.Context) error {
		listed, err := w.lister.ListChildren(ctx, folderID)
		if err != nil {
			return err
		}

		files = entriesFromFiles(listed)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing folder: %w", err)
	}

	return files, nil
}

// syncLeaf materializes a file or exported document unless a local copy
// already exists.
func (w *TreeWalker) syncLeaf(ctx context.Context, e RemoteEntry, relParent string) (branchResult, error) {
	name, err := ResolveName(e, w.policy)
	if err != nil {
		return branchResult{}, err
	}

	shown := displayPath(relParent, name)
	target := filepath.Join(w.root, relParent, name)

	if w.cache.IsCached(target) {
		w.logger.Info("using cached file", slog.String("path", shown))
		return branchResult{outcome: outcomeCached}, nil
	}

	if err := w.sem.Acquire(ctx, 1); err != nil {
		return branchResult{}, fmt.Errorf("waiting for transfer slot: %w", err)
	}
	defer w.sem.Release(1)

	rc, err := w.fetcher.Fetch(ctx, e)
	if err != nil {
		return branchResult{}, err
	}
	defer rc.Close()

	n, err := writeAtomic(w.fs, target, rc)
	if err != nil {
		return branchResult{}, err
	}

	w.logger.Info("saved file",
		slog.String("path", shown),
		slog.String("size", humanize.Bytes(uint64(n))), //nolint:gosec // n is a non-negative byte count
	)

	return branchResult{outcome: outcomeDownloaded, bytes: n}, nil
}

// displayPath renders a destination-relative path for logs: slash-separated
// with a leading slash.
func displayPath(relParent, name string) string {
	return "/" + filepath.ToSlash(filepath.Join(relParent, name))
}
