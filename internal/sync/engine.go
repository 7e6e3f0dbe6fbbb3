package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"golang.org/x/sync/semaphore"

	"github.com/tonimelisma/drivemirror/internal/gdrive"
)

// defaultTransferWorkers bounds concurrent remote calls when unset.
const defaultTransferWorkers = 8

// Options is the per-run configuration. It is read-only during a run and
// threaded explicitly through every component.
type Options struct {
	FolderID        string // remote root folder
	Destination     string // local root directory
	Export          ExportPolicy
	Prune           bool          // delete local entries absent remotely
	Transform       TransformFunc // nil = persist exports unchanged
	TransferWorkers int           // 0 = defaultTransferWorkers
	RetryBaseDelay  time.Duration // 0 = DefaultRetryBaseDelay
	RetryAttempts   int           // 0 = DefaultRetryMaxAttempts
}

// EngineConfig holds the options for creating an Engine.
type EngineConfig struct {
	Options Options
	Store   RemoteStore
	Fs      afero.Fs // nil = the OS filesystem
	Logger  *slog.Logger
}

// Engine runs mirror passes from a remote folder into a local directory.
type Engine struct {
	opts   Options
	store  RemoteStore
	fs     afero.Fs
	logger *slog.Logger

	// sleepFunc overrides RetryPolicy waits. Tests set it to avoid delays.
	sleepFunc func(ctx context.Context, d time.Duration) error
}

// NewEngine validates the configuration and creates an Engine.
func NewEngine(cfg *EngineConfig) (*Engine, error) {
	var errs []error

	if cfg.Store == nil {
		errs = append(errs, errors.New("sync: remote store is required"))
	}

	if cfg.Options.FolderID == "" {
		errs = append(errs, errors.New("sync: folder ID is required"))
	}

	if cfg.Options.Destination == "" {
		errs = append(errs, errors.New("sync: destination is required"))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	fsys := cfg.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	opts := cfg.Options
	if opts.TransferWorkers <= 0 {
		opts.TransferWorkers = defaultTransferWorkers
	}

	if opts.Export.Extensions == nil {
		opts.Export.Extensions = DefaultExtensions
	}

	return &Engine{
		opts:   opts,
		store:  cfg.Store,
		fs:     fsys,
		logger: logger,
	}, nil
}

// Run performs one mirror pass. Authentication and root listing failures are
// fatal and returned; every other failure is logged per item and counted in
// the report while the run carries on.
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	runID := uuid.NewString()
	logger := e.logger.With(slog.String("run_id", runID))
	start := time.Now()

	logger.Info("started downloading content",
		slog.String("folder_id", e.opts.FolderID),
		slog.String("destination", e.opts.Destination),
		slog.Bool("prune", e.opts.Prune),
	)

	if err := e.store.Authenticate(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuth, err)
	}

	retry := NewRetryPolicy(e.opts.RetryBaseDelay, e.opts.RetryAttempts, logger)
	if e.sleepFunc != nil {
		retry.sleepFunc = e.sleepFunc
	}

	var rootFiles []gdrive.File

	err := retry.Do(ctx, "list root folder", func(ctx context.Context) error {
		var err error
		rootFiles, err = e.store.ListChildren(ctx, e.opts.FolderID)

		return err
	})
	if err != nil {
		return nil, fmt.Errorf("sync: listing root folder %s: %w", e.opts.FolderID, err)
	}

	if err := e.fs.MkdirAll(e.opts.Destination, dirPerms); err != nil {
		return nil, fmt.Errorf("sync: creating destination %s: %w", e.opts.Destination, err)
	}

	t := &tally{}
	w := e.newWalker(t, retry, logger)
	w.Walk(ctx, entriesFromFiles(rootFiles), "")

	report := t.report(runID, time.Since(start))

	logger.Info("finished downloading content",
		slog.Int("folders", report.Folders),
		slog.Int("downloaded", report.Downloaded),
		slog.Int("cached", report.Cached),
		slog.Int("failed", report.Failed),
		slog.Int("pruned", report.Pruned),
		slog.String("bytes", humanize.Bytes(uint64(report.Bytes))), //nolint:gosec // byte totals are non-negative
		slog.Duration("duration", report.Duration),
	)

	return report, nil
}

func (e *Engine) newWalker(t *tally, retry *RetryPolicy, logger *slog.Logger) *TreeWalker {
	return &TreeWalker{
		root:   e.opts.Destination,
		prune:  e.opts.Prune,
		policy: &e.opts.Export,
		lister: e.store,
		fetcher: &ContentFetcher{
			source:    e.store,
			retry:     retry,
			policy:    &e.opts.Export,
			transform: e.opts.Transform,
			logger:    logger,
		},
		retry: retry,
		cache: CacheGate{fs: e.fs},
		pruner: &PruneEngine{
			fs:      e.fs,
			policy:  &e.opts.Export,
			workers: defaultPruneWorkers,
			logger:  logger,
		},
		fs:     e.fs,
		sem:    semaphore.NewWeighted(int64(e.opts.TransferWorkers)),
		tally:  t,
		logger: logger,
	}
}
