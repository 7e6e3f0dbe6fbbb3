package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tonimelisma/drivemirror/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigInitCmd())

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration after all overrides",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	}
}

func newConfigInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented config file with every option at its default",
		Args:  cobra.NoArgs,
		RunE:  runConfigInit,
	}

	cmd.Flags().StringVar(&flagDestination, "destination", "", "local directory to mirror into")

	return cmd
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	if resolvedCfg == nil {
		return fmt.Errorf("no configuration loaded")
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(resolvedCfg)
	}

	return config.RenderEffective(resolvedCfg, os.Stdout)
}

func runConfigInit(_ *cobra.Command, _ []string) error {
	path := initConfigPath(flagConfigPath, config.ReadEnvOverrides())
	if path == "" {
		return fmt.Errorf("cannot determine config path; pass --config")
	}

	if err := config.WriteTemplate(path, flagFolderID, flagDestination); err != nil {
		return err
	}

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
	}

	return nil
}

// initConfigPath picks where "config init" writes: --config, then
// DRIVEMIRROR_CONFIG, then the platform default.
func initConfigPath(flagPath string, env config.EnvOverrides) string {
	if flagPath != "" {
		return flagPath
	}

	if env.ConfigPath != "" {
		return env.ConfigPath
	}

	return config.DefaultConfigPath()
}
