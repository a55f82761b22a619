package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"veritas-hq/saturn/pkg/config"
	"veritas-hq/saturn/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "veritas",
	Short: "Veritas - compliance document review engine",
	Long: `Veritas reviews regulatory documents against structured compliance
templates. It analyzes document text, validates it against a template's
requirements, and produces a scored review with issues and
recommendations.

It provides:
  - A requirement catalog with a built-in EU Declaration of Conformity template
  - Pattern-based template compliance scoring with severity-weighted issues
  - Prioritized, concurrent review orchestration with progress reporting
  - JSON and plain-text report export

For more information, visit: https://github.com/veritas-hq/saturn`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig reads the configuration file named by the --config flag.
// When the flag is left at its default and no file exists there, the
// built-in defaults are used so the CLI works without any setup.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
			return config.DefaultConfig(), nil
		}
	}
	return config.LoadConfigWithEnvOverrides(cfgFile)
}

// buildLogger constructs the root logger from config. The --verbose
// flag overrides the configured level and switches to the console
// format for readability.
func buildLogger(cfg *config.Config) (*slog.Logger, error) {
	logCfg := logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}
	if verbose {
		logCfg.Level = "debug"
		logCfg.Format = "console"
	}
	return logging.New(logCfg)
}
