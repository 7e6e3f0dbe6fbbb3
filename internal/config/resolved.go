package config

import (
	"maps"
	"slices"
	"time"

	"github.com/tonimelisma/drivemirror/internal/sync"
)

// ExtensionTable returns the built-in MIME type -> extension table with the
// configured [export.extensions] entries layered on top.
func (e *ExportConfig) ExtensionTable() map[string]string {
	table := maps.Clone(sync.DefaultExtensions)
	maps.Copy(table, e.Extensions)

	return table
}

// ExportPolicy converts the export settings into the policy the sync engine
// runs with.
func (e *ExportConfig) ExportPolicy() sync.ExportPolicy {
	formats := make(map[string]sync.ExportFormat, len(e.Formats()))
	for subtype, f := range e.Formats() {
		formats[subtype] = sync.ExportFormat{Enabled: f.Enabled, MimeType: f.MimeType}
	}

	return sync.ExportPolicy{
		Formats:    formats,
		Extensions: e.ExtensionTable(),
	}
}

// sortedSubtypes returns the configurable document subtypes in a stable order.
func sortedSubtypes(e *ExportConfig) []string {
	return slices.Sorted(maps.Keys(e.Formats()))
}

// RetryBaseDelayDuration returns the parsed initial backoff. Values were validated at
// load time; an unparsable value yields 0, which selects the engine default.
func (t *TransfersConfig) RetryBaseDelayDuration() time.Duration {
	d, err := time.ParseDuration(t.RetryBaseDelay)
	if err != nil {
		return 0
	}

	return d
}

// ConnectTimeoutDuration returns the parsed dial timeout, or 0 if unparsable.
func (n *NetworkConfig) ConnectTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(n.ConnectTimeout)
	return d
}

// DataTimeoutDuration returns the parsed response header timeout, or 0 if
// unparsable.
func (n *NetworkConfig) DataTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(n.DataTimeout)
	return d
}

// SyncOptions builds the engine options for a run. The transform hook is
// supplied by the caller because building it needs a logger.
func (r *Resolved) SyncOptions(transform sync.TransformFunc) sync.Options {
	return sync.Options{
		FolderID:        r.FolderID,
		Destination:     r.Destination,
		Export:          r.Export.ExportPolicy(),
		Prune:           r.DeleteNotFound,
		Transform:       transform,
		TransferWorkers: r.Transfers.TransferWorkers,
		RetryBaseDelay:  r.Transfers.RetryBaseDelayDuration(),
		RetryAttempts:   r.Transfers.RetryMaxAttempts,
	}
}
