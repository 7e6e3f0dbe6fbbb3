package config

import (
	"os"
	"path/filepath"
)

const (
	appName        = "drivemirror"
	configFileName = "config.toml"
)

// DefaultConfigPath returns where the config file lives when neither
// DRIVEMIRROR_CONFIG nor --config names one: config.toml inside the
// drivemirror directory under the user config root ($XDG_CONFIG_HOME or
// ~/.config on Linux, ~/Library/Application Support on macOS). Returns ""
// when no home directory can be determined.
func DefaultConfigPath() string {
	root, err := os.UserConfigDir()
	if err != nil {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return ""
		}

		root = filepath.Join(home, ".config")
	}

	return filepath.Join(root, appName, configFileName)
}
