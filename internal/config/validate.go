package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Validation range constants.
const (
	minTransferWorkers  = 1
	maxTransferWorkers  = 64
	minRetryAttempts    = 1
	maxRetryAttempts    = 20
	minRetryBaseDelay   = 10 * time.Millisecond
	maxRetryBaseDelay   = time.Minute
	minConnectTimeout   = 1 * time.Second
	minDataTimeout      = 5 * time.Second
	extensionPrefixChar = "."
)

// Validate checks all configuration values and returns all errors found.
// It accumulates every error rather than stopping at the first, so users
// see a complete report and can fix all issues in one pass.
func Validate(cfg *Config) error {
	var errs []error

	errs = append(errs, validateExport(&cfg.Export)...)
	errs = append(errs, validateTransfers(&cfg.Transfers)...)
	errs = append(errs, validateLogging(&cfg.Logging)...)
	errs = append(errs, validateNetwork(&cfg.Network)...)

	return errors.Join(errs...)
}

// ValidateResolved checks constraints on the merged result of the override
// chain that raw file values cannot be checked for.
func ValidateResolved(r *Resolved) error {
	var errs []error

	// Relative paths would resolve differently depending on cwd.
	if r.Destination != "" && !filepath.IsAbs(r.Destination) {
		errs = append(errs, fmt.Errorf("destination: must be absolute after expansion, got %q", r.Destination))
	}

	return errors.Join(errs...)
}

// ValidateForSync checks that everything a sync run needs is present.
// Commands that only read the remote side, or only show configuration, do
// not need a destination.
func ValidateForSync(r *Resolved) error {
	var errs []error

	if r.FolderID == "" {
		errs = append(errs, fmt.Errorf("folder_id: required (set it in the config file, %s, or --folder)", EnvFolderID))
	}

	if r.Destination == "" {
		errs = append(errs, fmt.Errorf("destination: required (set it in the config file, %s, or --destination)", EnvDestination))
	}

	return errors.Join(errs...)
}

func validateExport(e *ExportConfig) []error {
	var errs []error

	if len(e.TransformCommand) > 0 && strings.TrimSpace(e.TransformCommand[0]) == "" {
		errs = append(errs, errors.New("export.transform_command: program name must not be empty"))
	}

	for mime, ext := range e.Extensions {
		if mime == "" {
			errs = append(errs, errors.New("export.extensions: MIME type must not be empty"))
		}

		if !strings.HasPrefix(ext, extensionPrefixChar) || len(ext) < 2 {
			errs = append(errs, fmt.Errorf("export.extensions: extension for %q must start with \".\", got %q", mime, ext))
		}
	}

	extensions := e.ExtensionTable()

	for _, subtype := range sortedSubtypes(e) {
		f := e.Formats()[subtype]
		if !f.Enabled {
			continue
		}

		if f.MimeType == "" {
			errs = append(errs, fmt.Errorf("export.%s.mime_type: required when export is enabled", subtype))

			continue
		}

		if _, ok := extensions[f.MimeType]; !ok {
			errs = append(errs, fmt.Errorf(
				"export.%s.mime_type: no file extension known for %q; add it under [export.extensions]",
				subtype, f.MimeType))
		}
	}

	return errs
}

func validateTransfers(t *TransfersConfig) []error {
	var errs []error

	if t.TransferWorkers < minTransferWorkers || t.TransferWorkers > maxTransferWorkers {
		errs = append(errs, fmt.Errorf("transfers.transfer_workers: must be between %d and %d, got %d",
			minTransferWorkers, maxTransferWorkers, t.TransferWorkers))
	}

	if t.RetryMaxAttempts < minRetryAttempts || t.RetryMaxAttempts > maxRetryAttempts {
		errs = append(errs, fmt.Errorf("transfers.retry_max_attempts: must be between %d and %d, got %d",
			minRetryAttempts, maxRetryAttempts, t.RetryMaxAttempts))
	}

	if err := validateDuration("transfers.retry_base_delay", t.RetryBaseDelay, minRetryBaseDelay); err != nil {
		errs = append(errs, err)
	} else if d, _ := time.ParseDuration(t.RetryBaseDelay); d > maxRetryBaseDelay {
		errs = append(errs, fmt.Errorf("transfers.retry_base_delay: must be <= %s, got %s", maxRetryBaseDelay, d))
	}

	return errs
}

// validateDuration checks that a duration string is valid and meets a minimum.
func validateDuration(field, value string, minimum time.Duration) error {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%s: invalid duration %q: %w", field, value, err)
	}

	if d < minimum {
		return fmt.Errorf("%s: must be >= %s, got %s", field, minimum, d)
	}

	return nil
}

func validateDurationMin(field, value string, minimum time.Duration) []error {
	if err := validateDuration(field, value, minimum); err != nil {
		return []error{err}
	}

	return nil
}

func validateLogging(l *LoggingConfig) []error {
	var errs []error

	errs = append(errs, validateLogLevel(l.LogLevel)...)
	errs = append(errs, validateLogFormat(l.LogFormat)...)

	return errs
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

func validateLogLevel(level string) []error {
	if !validLogLevels[level] {
		return []error{fmt.Errorf("logging.log_level: must be one of debug, info, warn, error; got %q", level)}
	}

	return nil
}

var validLogFormats = map[string]bool{
	"auto": true,
	"text": true,
	"json": true,
}

func validateLogFormat(format string) []error {
	if !validLogFormats[format] {
		return []error{fmt.Errorf("logging.log_format: must be one of auto, text, json; got %q", format)}
	}

	return nil
}

func validateNetwork(n *NetworkConfig) []error {
	var errs []error

	errs = append(errs, validateDurationMin("network.connect_timeout", n.ConnectTimeout, minConnectTimeout)...)
	errs = append(errs, validateDurationMin("network.data_timeout", n.DataTimeout, minDataTimeout)...)

	return errs
}
