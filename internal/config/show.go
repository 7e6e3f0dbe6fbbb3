package config

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
)

// RenderEffective writes the resolved configuration as a human-readable
// annotated summary to w. This powers the "config show" command, giving
// users visibility into the effective values after all four override layers
// (defaults -> file -> env -> CLI) have been applied.
func RenderEffective(r *Resolved, w io.Writer) error {
	ew := &errWriter{w: w}

	ew.printf("# Effective configuration (file: %s)\n\n", r.ConfigPath)

	renderTopLevel(ew, &r.Config)
	renderExportSection(ew, &r.Export)
	renderTransfersSection(ew, &r.Transfers)
	renderLoggingSection(ew, &r.Logging)
	renderNetworkSection(ew, &r.Network)

	return ew.err
}

// errWriter wraps an io.Writer and captures the first write error.
// Subsequent writes after an error are no-ops, so callers can chain
// printf calls without checking each one individually.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}

	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func renderTopLevel(ew *errWriter, c *Config) {
	ew.printf("folder_id        = %q\n", c.FolderID)
	ew.printf("credentials_file = %q\n", c.CredentialsFile)
	ew.printf("destination      = %q\n", c.Destination)
	ew.printf("delete_not_found = %t\n", c.DeleteNotFound)
	ew.printf("\n")
}

func renderExportSection(ew *errWriter, e *ExportConfig) {
	ew.printf("[export]\n")

	if len(e.TransformCommand) > 0 {
		ew.printf("  transform_command = [%s]\n", joinQuoted(e.TransformCommand))
	}

	formats := e.Formats()
	for _, subtype := range sortedSubtypes(e) {
		f := formats[subtype]
		ew.printf("  %-12s enabled = %-5t mime_type = %q\n", subtype, f.Enabled, f.MimeType)
	}

	for _, mime := range slices.Sorted(maps.Keys(e.Extensions)) {
		ew.printf("  extension %q = %q\n", mime, e.Extensions[mime])
	}

	ew.printf("\n")
}

func renderTransfersSection(ew *errWriter, t *TransfersConfig) {
	ew.printf("[transfers]\n")
	ew.printf("  transfer_workers   = %d\n", t.TransferWorkers)
	ew.printf("  retry_base_delay   = %q\n", t.RetryBaseDelay)
	ew.printf("  retry_max_attempts = %d\n", t.RetryMaxAttempts)
	ew.printf("\n")
}

func renderLoggingSection(ew *errWriter, l *LoggingConfig) {
	ew.printf("[logging]\n")
	ew.printf("  log_level  = %q\n", l.LogLevel)
	ew.printf("  log_format = %q\n", l.LogFormat)
	ew.printf("\n")
}

func renderNetworkSection(ew *errWriter, n *NetworkConfig) {
	ew.printf("[network]\n")
	ew.printf("  connect_timeout = %q\n", n.ConnectTimeout)
	ew.printf("  data_timeout    = %q\n", n.DataTimeout)

	if n.UserAgent != "" {
		ew.printf("  user_agent      = %q\n", n.UserAgent)
	}
}

// joinQuoted formats a string slice as comma-separated quoted values.
func joinQuoted(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = fmt.Sprintf("%q", item)
	}

	return strings.Join(quoted, ", ")
}
