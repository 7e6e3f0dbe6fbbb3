package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonimelisma/drivemirror/internal/config"
)

// Global flag reset pattern: newRootCmd() binds flags via StringVar/BoolVar,
// which reset the global flag variables to their zero values. Tests must either:
//   - Set globals AFTER newRootCmd() returns (direct function tests), or
//   - Use cmd.SetArgs() + cmd.Execute() to let Cobra parse flags.

// saveGlobals restores every package-level flag and resolvedCfg after the test.
func saveGlobals(t *testing.T) {
	t.Helper()

	cfg := resolvedCfg
	verbose, quiet, jsonOut := flagVerbose, flagQuiet, flagJSON
	configPath, folder, creds := flagConfigPath, flagFolderID, flagCredentials
	dest, prune := flagDestination, flagPrune

	t.Cleanup(func() {
		resolvedCfg = cfg
		flagVerbose, flagQuiet, flagJSON = verbose, quiet, jsonOut
		flagConfigPath, flagFolderID, flagCredentials = configPath, folder, creds
		flagDestination, flagPrune = dest, prune
	})
}

func clearConfigEnv(t *testing.T) {
	t.Helper()

	for _, name := range []string{config.EnvConfig, config.EnvFolderID, config.EnvDestination, config.EnvCredentials} {
		t.Setenv(name, "")
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

// --- logger tests ---

func TestLogLevel_DefaultIsInfo(t *testing.T) {
	saveGlobals(t)

	resolvedCfg = nil
	flagVerbose, flagQuiet = false, false

	assert.Equal(t, slog.LevelInfo, logLevel())
}

func TestLogLevel_ConfigThenFlags(t *testing.T) {
	saveGlobals(t)

	resolvedCfg = &config.Resolved{Config: *config.DefaultConfig()}
	resolvedCfg.Logging.LogLevel = "warn"
	flagVerbose, flagQuiet = false, false

	assert.Equal(t, slog.LevelWarn, logLevel())

	flagVerbose = true
	assert.Equal(t, slog.LevelDebug, logLevel(), "--verbose beats config")

	flagVerbose, flagQuiet = false, true
	assert.Equal(t, slog.LevelError, logLevel(), "--quiet beats config")
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer

	logger := newLogger(&buf, slog.LevelInfo, "json", true)
	logger.Info("saved file", slog.String("path", "/a"))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "saved file", rec["msg"])
	assert.Equal(t, "/a", rec["path"])
}

func TestNewLogger_TextAndAutoWithoutTTY(t *testing.T) {
	for _, format := range []string{"text", "auto"} {
		var buf bytes.Buffer

		logger := newLogger(&buf, slog.LevelInfo, format, false)
		logger.Info("saved file", slog.String("path", "/a"))

		assert.Contains(t, buf.String(), "msg=\"saved file\"", format)
		assert.Contains(t, buf.String(), "path=/a", format)
	}
}

func TestNewLogger_AutoOnTTYUsesTint(t *testing.T) {
	var buf bytes.Buffer

	logger := newLogger(&buf, slog.LevelInfo, "auto", true)
	logger.Info("saved file")

	assert.Contains(t, buf.String(), "saved file")
	assert.NotContains(t, buf.String(), "msg=", "tint does not print key=value for the message")
}

func TestNewLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer

	logger := newLogger(&buf, slog.LevelError, "text", false)
	assert.False(t, logger.Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelError))
}

// --- command wiring tests ---

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := newRootCmd()

	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}

	for _, want := range []string{"sync", "ls", "config"} {
		assert.True(t, names[want], want)
	}
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	saveGlobals(t)
	clearConfigEnv(t)

	path := writeConfigFile(t, `
folder_id = "from-file"
destination = "/from/file"
delete_not_found = true
`)

	cmd := newRootCmd()
	cmd.SetArgs([]string{"--config", path, "--folder", "from-flag", "config", "show"})
	cmd.SetOut(&bytes.Buffer{})
	require.NoError(t, cmd.Execute())

	require.NotNil(t, resolvedCfg)
	assert.Equal(t, "from-flag", resolvedCfg.FolderID)
	assert.Equal(t, "/from/file", resolvedCfg.Destination)
	assert.True(t, resolvedCfg.DeleteNotFound)
	assert.Equal(t, path, resolvedCfg.ConfigPath)
}

func TestLoadConfig_SyncOnlyFlags(t *testing.T) {
	saveGlobals(t)
	clearConfigEnv(t)

	path := writeConfigFile(t, `delete_not_found = true`)

	cmd := newRootCmd()
	cmd.SetArgs([]string{"--config", path, "sync", "--prune=false", "--destination", "/flag/dest"})

	// Stop after config loading: sync itself would need credentials.
	sub, _, err := cmd.Find([]string{"sync"})
	require.NoError(t, err)

	sub.RunE = func(_ *cobra.Command, _ []string) error { return nil }

	require.NoError(t, cmd.Execute())
	assert.False(t, resolvedCfg.DeleteNotFound)
	assert.Equal(t, "/flag/dest", resolvedCfg.Destination)
}

func TestLoadConfig_InvalidFileFails(t *testing.T) {
	saveGlobals(t)
	clearConfigEnv(t)

	path := writeConfigFile(t, `folder_idd = "typo"`)

	cmd := newRootCmd()
	cmd.SetArgs([]string{"--config", path, "config", "show"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did you mean")
}

func TestSync_RequiresFolderAndDestination(t *testing.T) {
	saveGlobals(t)
	clearConfigEnv(t)

	cmd := newRootCmd()
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "absent.toml"), "sync"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "folder_id")
	assert.Contains(t, err.Error(), "destination")
}

func TestVerboseAndQuietAreExclusive(t *testing.T) {
	saveGlobals(t)
	clearConfigEnv(t)

	cmd := newRootCmd()
	cmd.SetArgs([]string{"-v", "-q", "--config", filepath.Join(t.TempDir(), "absent.toml"), "config", "show"})

	require.Error(t, cmd.Execute())
}
