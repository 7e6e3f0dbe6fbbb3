package config

import "os"

// Environment variable names for overrides.
const (
	EnvConfig      = "DRIVEMIRROR_CONFIG"
	EnvFolderID    = "DRIVEMIRROR_FOLDER_ID"
	EnvDestination = "DRIVEMIRROR_DESTINATION"
	EnvCredentials = "DRIVEMIRROR_CREDENTIALS"
)

// EnvOverrides holds values derived from environment variables.
type EnvOverrides struct {
	ConfigPath      string // DRIVEMIRROR_CONFIG: override config file path
	FolderID        string // DRIVEMIRROR_FOLDER_ID: remote root folder
	Destination     string // DRIVEMIRROR_DESTINATION: local root directory
	CredentialsFile string // DRIVEMIRROR_CREDENTIALS: service account key file
}

// ReadEnvOverrides reads environment variables and returns any overrides found.
// This does not modify the Config; Resolve applies the relevant fields.
func ReadEnvOverrides() EnvOverrides {
	return EnvOverrides{
		ConfigPath:      os.Getenv(EnvConfig),
		FolderID:        os.Getenv(EnvFolderID),
		Destination:     os.Getenv(EnvDestination),
		CredentialsFile: os.Getenv(EnvCredentials),
	}
}
