package config

// Default values for configuration options. These represent the "layer 0"
// of the four-layer override chain.
const (
	defaultTransferWorkers  = 8
	defaultRetryBaseDelay   = "1.1s"
	defaultRetryMaxAttempts = 8
	defaultLogLevel         = "info"
	defaultLogFormat        = "auto"
	defaultConnectTimeout   = "10s"
	defaultDataTimeout      = "60s"
)

// Default export targets. Every subtype starts disabled so that a bare config
// only mirrors regular files; enabling a subtype needs no MIME type.
const (
	defaultDocumentMime     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	defaultSpreadsheetMime  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	defaultPresentationMime = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	defaultDrawingMime      = "image/svg+xml"
)

// DefaultConfig returns a Config populated with all default values.
// This is used both as the starting point for TOML decoding (so unset
// fields retain defaults) and as the fallback when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Export:    defaultExportConfig(),
		Transfers: defaultTransfersConfig(),
		Logging:   defaultLoggingConfig(),
		Network:   defaultNetworkConfig(),
	}
}

func defaultExportConfig() ExportConfig {
	return ExportConfig{
		Document:     FormatConfig{MimeType: defaultDocumentMime},
		Spreadsheet:  FormatConfig{MimeType: defaultSpreadsheetMime},
		Presentation: FormatConfig{MimeType: defaultPresentationMime},
		Drawing:      FormatConfig{MimeType: defaultDrawingMime},
	}
}

func defaultTransfersConfig() TransfersConfig {
	return TransfersConfig{
		TransferWorkers:  defaultTransferWorkers,
		RetryBaseDelay:   defaultRetryBaseDelay,
		RetryMaxAttempts: defaultRetryMaxAttempts,
	}
}

func defaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		LogLevel:  defaultLogLevel,
		LogFormat: defaultLogFormat,
	}
}

func defaultNetworkConfig() NetworkConfig {
	return NetworkConfig{
		ConnectTimeout: defaultConnectTimeout,
		DataTimeout:    defaultDataTimeout,
	}
}
