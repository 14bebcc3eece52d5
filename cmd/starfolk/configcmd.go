package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/jask/starfolk/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the config file",
}

var configSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Write the effective configuration to the config file",
	Long: `Writes the configuration in effect (file, STARFOLK_* environment and
flags such as --api and --route) to the config file, so the overrides stick.
A missing file is created from the defaults.`,
	Args: cobra.NoArgs,
	RunE: runConfigSave,
}

func runConfigSave(cmd *cobra.Command, _ []string) error {
	path := config.Path(configPath)
	base := configPath
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		base = ""
	}
	cfg, err := config.Load(base)
	if err != nil {
		return err
	}
	cfg = applyFlags(cmd, cfg)
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}
