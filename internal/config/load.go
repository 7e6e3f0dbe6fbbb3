package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Load reads and parses a TOML config file, validates it, and returns the
// resulting Config. Unknown keys are fatal errors with "did you mean?"
// suggestions.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if err := checkUnknownKeys(&md); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault reads a TOML config file if it exists, otherwise returns
// a Config populated with all default values, so that a run configured
// entirely through environment and flags needs no file.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}

	return Load(path)
}

// Resolve loads configuration and applies the four-layer override chain:
// defaults -> config file -> environment variables -> CLI flags.
func Resolve(env EnvOverrides, cli CLIOverrides) (*Resolved, error) {
	// 1. Resolve config path: CLI > env > default
	cfgPath := DefaultConfigPath()
	if env.ConfigPath != "" {
		cfgPath = env.ConfigPath
	}

	if cli.ConfigPath != "" {
		cfgPath = cli.ConfigPath
	}

	// 2. Load config file (returns defaults if no file exists)
	cfg, err := LoadOrDefault(cfgPath)
	if err != nil {
		return nil, err
	}

	// 3. Apply env overrides
	applyEnv(cfg, env)

	// 4. Apply CLI overrides (pointer fields: nil = not specified)
	applyCLI(cfg, cli)

	cfg.Destination = expandTilde(cfg.Destination)
	cfg.CredentialsFile = expandTilde(cfg.CredentialsFile)

	resolved := &Resolved{Config: *cfg, ConfigPath: cfgPath}

	// 5. Validate the final merged result
	if err := ValidateResolved(resolved); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return resolved, nil
}

func applyEnv(cfg *Config, env EnvOverrides) {
	if env.FolderID != "" {
		cfg.FolderID = env.FolderID
	}

	if env.Destination != "" {
		cfg.Destination = env.Destination
	}

	if env.CredentialsFile != "" {
		cfg.CredentialsFile = env.CredentialsFile
	}
}

func applyCLI(cfg *Config, cli CLIOverrides) {
	if cli.FolderID != nil {
		cfg.FolderID = *cli.FolderID
	}

	if cli.Destination != nil {
		cfg.Destination = *cli.Destination
	}

	if cli.CredentialsFile != nil {
		cfg.CredentialsFile = *cli.CredentialsFile
	}

	if cli.Prune != nil {
		cfg.DeleteNotFound = *cli.Prune
	}
}

// expandTilde replaces a leading "~/" with the user's home directory.
// If os.UserHomeDir() fails, the path is returned unexpanded and
// ValidateResolved reports it as relative.
func expandTilde(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[2:])
}
