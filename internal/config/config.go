// Package config implements TOML configuration loading, validation, and
// platform-specific path resolution for drivemirror. It supports a four-layer
// override chain (defaults -> config file -> environment -> CLI flags).
package config

// Config is the top-level configuration structure parsed from a TOML file.
type Config struct {
	FolderID        string `toml:"folder_id"`
	CredentialsFile string `toml:"credentials_file"`
	Destination     string `toml:"destination"`
	DeleteNotFound  bool   `toml:"delete_not_found"`

	Export    ExportConfig    `toml:"export"`
	Transfers TransfersConfig `toml:"transfers"`
	Logging   LoggingConfig   `toml:"logging"`
	Network   NetworkConfig   `toml:"network"`
}

// ExportConfig controls which Drive-native documents are exported, in which
// format, and how exported bytes are post-processed.
type ExportConfig struct {
	// TransformCommand is an argv run once per exported document with the
	// exported bytes on stdin. Its stdout is what gets written. Empty = none.
	TransformCommand []string `toml:"transform_command"`

	Document     FormatConfig `toml:"document"`
	Spreadsheet  FormatConfig `toml:"spreadsheet"`
	Presentation FormatConfig `toml:"presentation"`
	Drawing      FormatConfig `toml:"drawing"`

	// Extensions adds or overrides export MIME type -> file extension
	// entries on top of the built-in table.
	Extensions map[string]string `toml:"extensions"`
}

// FormatConfig is the export choice for one document subtype.
type FormatConfig struct {
	Enabled  bool   `toml:"enabled"`
	MimeType string `toml:"mime_type"`
}

// Formats returns the per-subtype export settings keyed by subtype name.
func (e *ExportConfig) Formats() map[string]FormatConfig {
	return map[string]FormatConfig{
		"document":     e.Document,
		"spreadsheet":  e.Spreadsheet,
		"presentation": e.Presentation,
		"drawing":      e.Drawing,
	}
}

// TransfersConfig controls request concurrency and rate-limit backoff.
type TransfersConfig struct {
	TransferWorkers  int    `toml:"transfer_workers"`
	RetryBaseDelay   string `toml:"retry_base_delay"`
	RetryMaxAttempts int    `toml:"retry_max_attempts"`
}

// LoggingConfig controls log output behavior: level and format.
type LoggingConfig struct {
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

// NetworkConfig controls HTTP client behavior: timeouts and user agent.
type NetworkConfig struct {
	ConnectTimeout string `toml:"connect_timeout"`
	DataTimeout    string `toml:"data_timeout"`
	UserAgent      string `toml:"user_agent"`
}

// CLIOverrides holds values from CLI flags that override config file and
// environment settings. Pointer fields distinguish "not specified" (nil)
// from "explicitly set to zero value": --prune=false must be able to turn
// off delete_not_found from the file.
type CLIOverrides struct {
	ConfigPath      string  // --config flag (empty = use default)
	FolderID        *string // --folder flag
	Destination     *string // --destination flag
	CredentialsFile *string // --credentials flag
	Prune           *bool   // --prune flag
}

// Resolved is the effective configuration after all four layers have been
// applied, with paths expanded. It is what commands consume.
type Resolved struct {
	Config

	// ConfigPath is the file the configuration was read from. The file may
	// not exist, in which case only defaults, env and flags apply.
	ConfigPath string
}
