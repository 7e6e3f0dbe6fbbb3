package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tonimelisma/drivemirror/internal/config"
	"github.com/tonimelisma/drivemirror/internal/sync"
)

func newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Mirror the configured Drive folder into the destination",
		Long: `Run one mirror pass from the Drive folder into the local destination.

Folders are created, regular files downloaded, and enabled Google document
types exported. Anything already present locally is skipped without being
compared. With --prune, local entries that no longer exist in Drive are
deleted once their directory has been fully processed.

Failures of individual files are logged and counted; they do not change the
exit status. Authentication or root folder failures exit with status 1.`,
		Args: cobra.NoArgs,
		RunE: runSync,
	}

	cmd.Flags().StringVar(&flagDestination, "destination", "", "local directory to mirror into")
	cmd.Flags().BoolVar(&flagPrune, "prune", false, "delete local entries missing from Drive (delete_not_found)")

	return cmd
}

func runSync(cmd *cobra.Command, _ []string) error {
	if err := config.ValidateForSync(resolvedCfg); err != nil {
		return err
	}

	logger := buildLogger()
	ctx := shutdownContext(cmd.Context(), logger)

	unlock, err := acquireRunLock(runLockPath(resolvedCfg.Destination))
	if err != nil {
		return err
	}
	defer unlock()

	client, err := newDriveClient(ctx, resolvedCfg, logger)
	if err != nil {
		return err
	}

	report, err := mirror(ctx, client, resolvedCfg, logger)
	if err != nil {
		return err
	}

	printReport(os.Stderr, report)

	return nil
}

// mirror runs one pass against store with the resolved configuration.
func mirror(ctx context.Context, store sync.RemoteStore, rc *config.Resolved, logger *slog.Logger) (*sync.Report, error) {
	transform := sync.CommandTransform(rc.Export.TransformCommand, logger)

	engine, err := sync.NewEngine(&sync.EngineConfig{
		Options: rc.SyncOptions(transform),
		Store:   store,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}

	return engine.Run(ctx)
}

// printReport writes the one-line run summary unless --quiet is set.
func printReport(w io.Writer, r *sync.Report) {
	if flagQuiet {
		return
	}

	fmt.Fprintf(w, "Mirrored %d folders: %d downloaded (%s), %d cached, %d pruned, %d failed in %s\n",
		r.Folders, r.Downloaded, humanize.Bytes(uint64(r.Bytes)), //nolint:gosec // byte totals are non-negative
		r.Cached, r.Pruned, r.Failed, r.Duration.Round(durationDisplayPrecision))

	if r.Failed > 0 {
		fmt.Fprintf(w, "%d item(s) failed; see the log above for details\n", r.Failed)
	}
}
