package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jask/starfolk/internal/config"
)

var (
	// Global flags
	configPath string
	debug      bool
	startRoute string
	apiBaseURL string

	// serve flags
	serveAddr     string
	serveDataPath string
	serveDBPath   string
	serveWatch    bool
)

var rootCmd = &cobra.Command{
	Use:   "starfolk",
	Short: "StarFolk - browse the characters of one galaxy",
	Long: `StarFolk is a terminal catalog of Star Wars characters.

Search with /, open a profile with enter, and jump to any route with g
(for example #/profile/1). Run "starfolk serve" to host the data provider.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the character catalog over HTTP",
	Long: `Loads the seed file (JSON, or YAML by extension) into sqlite and serves
the read-only catalog API the terminal client talks to.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $HOME/.config/starfolk/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log at debug level")
	rootCmd.PersistentFlags().StringVar(&startRoute, "route", "", "initial route, e.g. #/profile/1")
	rootCmd.PersistentFlags().StringVar(&apiBaseURL, "api", "", "catalog API base URL")

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address")
	serveCmd.Flags().StringVar(&serveDataPath, "data", "", "seed file with the characters")
	serveCmd.Flags().StringVar(&serveDBPath, "db", "", "sqlite database path")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "reload when the seed file changes")

	configCmd.AddCommand(configSaveCmd)
	rootCmd.AddCommand(serveCmd, configCmd)
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	return applyFlags(cmd, cfg), nil
}

func applyFlags(cmd *cobra.Command, cfg config.Config) config.Config {
	changed := func(name string) bool {
		f := cmd.Flag(name)
		return f != nil && f.Changed
	}
	if changed("route") {
		cfg.UI.StartRoute = startRoute
	}
	if changed("api") {
		cfg.API.BaseURL = apiBaseURL
	}
	if changed("addr") {
		cfg.Server.Addr = serveAddr
	}
	if changed("data") {
		cfg.Server.DataPath = serveDataPath
	}
	if changed("db") {
		cfg.Server.DatabasePath = serveDBPath
	}
	if changed("watch") {
		cfg.Server.Watch = serveWatch
	}
	return cfg
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
