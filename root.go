package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/tonimelisma/drivemirror/internal/config"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags, bound in newRootCmd() and the subcommand constructors.
var (
	flagConfigPath  string
	flagFolderID    string
	flagCredentials string
	flagDestination string
	flagPrune       bool
	flagJSON        bool
	flagVerbose     bool
	flagQuiet       bool
)

// resolvedCfg holds the effective configuration loaded by PersistentPreRunE.
// It is available to all subcommands after the root pre-run phase completes.
var resolvedCfg *config.Resolved

// skipConfigCommands lists commands that must work even when the config file
// is missing or broken. Uses CommandPath() for explicit matching.
var skipConfigCommands = map[string]bool{
	"drivemirror config init": true,
}

// newRootCmd builds and returns the fully-assembled root command with all
// subcommands registered. Called once from main().
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drivemirror",
		Short: "Mirror a Google Drive folder to a local directory",
		Long: `Mirror a Google Drive folder tree into a local directory. Regular files are
downloaded as-is; Google Docs, Sheets, Slides and Drawings can be exported to a
configurable format. Files already present locally are skipped.`,
		Version: version,
		// Silence Cobra's default error/usage printing; main handles it.
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if skipConfigCommands[cmd.CommandPath()] {
				return nil
			}

			return loadConfig(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "config file path")
	cmd.PersistentFlags().StringVar(&flagFolderID, "folder", "", "Drive folder ID to mirror")
	cmd.PersistentFlags().StringVar(&flagCredentials, "credentials", "", "service account key file")
	cmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output in JSON format")
	cmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "only log errors")

	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(newSyncCmd())
	cmd.AddCommand(newLsCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// loadConfig resolves the effective configuration from the four-layer override
// chain and stores the result in resolvedCfg for use by subcommands. Flags are
// only passed to the resolver when the user explicitly set them.
func loadConfig(cmd *cobra.Command) error {
	cli := config.CLIOverrides{
		ConfigPath: flagConfigPath,
	}

	flags := cmd.Flags()

	if flags.Changed("folder") {
		cli.FolderID = &flagFolderID
	}

	if flags.Changed("credentials") {
		cli.CredentialsFile = &flagCredentials
	}

	if flags.Lookup("destination") != nil && flags.Changed("destination") {
		cli.Destination = &flagDestination
	}

	if flags.Lookup("prune") != nil && flags.Changed("prune") {
		cli.Prune = &flagPrune
	}

	resolved, err := config.Resolve(config.ReadEnvOverrides(), cli)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	resolvedCfg = resolved

	return nil
}

// logLevel returns the effective log level. The config file provides the
// baseline; --verbose and --quiet override it because CLI flags always win.
func logLevel() slog.Level {
	level := slog.LevelInfo

	if resolvedCfg != nil {
		switch resolvedCfg.Logging.LogLevel {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}

	if flagVerbose {
		level = slog.LevelDebug
	}

	if flagQuiet {
		level = slog.LevelError
	}

	return level
}

// buildLogger creates the process logger on stderr from the resolved config
// and CLI flags.
func buildLogger() *slog.Logger {
	format := "auto"
	if resolvedCfg != nil {
		format = resolvedCfg.Logging.LogFormat
	}

	fd := os.Stderr.Fd()
	tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)

	return newLogger(os.Stderr, logLevel(), format, tty)
}

// newLogger picks the slog handler for format. "auto" means colored tint
// output on a terminal and plain text otherwise.
func newLogger(w io.Writer, level slog.Level, format string, tty bool) *slog.Logger {
	switch format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	case "text":
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	}

	if !tty {
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	}

	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
	}))
}

// exitOnError prints a user-friendly error message to stderr and exits.
func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
