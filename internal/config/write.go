package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// configFilePermissions is the standard permission mode for config files.
// The file names a credentials path but holds no secret itself.
const configFilePermissions = 0o644

// configDirPermissions is the standard permission mode for config directories.
const configDirPermissions = 0o755

// ErrConfigExists is returned by WriteTemplate when the target file exists.
var ErrConfigExists = errors.New("config file already exists")

// configTemplate is the file written by "config init". Every setting is
// present as a commented-out default so users can discover every option
// without reading docs.
const configTemplate = `# drivemirror configuration

# Drive folder to mirror (the ID at the end of the folder's URL).
folder_id = %q

# Local directory the folder is mirrored into.
destination = %q

# Service account key file. Leave empty to use Application Default Credentials.
# credentials_file = ""

# Delete local files and directories that no longer exist in Drive.
# delete_not_found = false

[export]
# Program run once per exported document: exported bytes on stdin, bytes to
# write on stdout. TRANSFORM_NAME, TRANSFORM_SUBTYPE and TRANSFORM_MIME_TYPE
# are set in its environment.
# transform_command = []

[export.document]
# enabled = false
# mime_type = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

[export.spreadsheet]
# enabled = false
# mime_type = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

[export.presentation]
# enabled = false
# mime_type = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

[export.drawing]
# enabled = false
# mime_type = "image/svg+xml"

# Extra export MIME type -> file extension mappings.
# [export.extensions]
# "application/x-custom" = ".custom"

[transfers]
# transfer_workers = 8
# retry_base_delay = "1.1s"
# retry_max_attempts = 8

[logging]
# Verbosity: debug, info, warn, error
# log_level = "info"
# Handler: auto, text, json
# log_format = "auto"

[network]
# connect_timeout = "10s"
# data_timeout = "60s"
# user_agent = ""
`

// WriteTemplate creates a commented config file at path with folderID and
// destination filled in. It refuses to overwrite an existing file. The write
// is atomic (temp file + rename) and parent directories are created as
// needed.
func WriteTemplate(path, folderID, destination string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}

	slog.Info("creating config file", slog.String("path", path))

	content := fmt.Sprintf(configTemplate, folderID, destination)

	return atomicWriteFile(path, []byte(content))
}

// atomicWriteFile writes data to a temporary file in the same directory as
// path, then renames it to the target path. Parent directories are created
// as needed.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, configDirPermissions); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	f, err := os.CreateTemp(dir, ".config-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	tempPath := f.Name()

	succeeded := false
	defer func() {
		if !succeeded {
			os.Remove(tempPath)
		}
	}()

	if _, err := f.Write(data); err != nil {
		f.Close()

		return fmt.Errorf("writing temp file: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Chmod(tempPath, configFilePermissions); err != nil {
		return fmt.Errorf("setting file permissions: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}

	succeeded = true

	return nil
}
