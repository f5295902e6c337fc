// Package cli contains the Cobra command tree for statsctl.
package cli

import (
	"fmt"
	"os"

	"github.com/PDG1999/tool-dashboard-samebi/internal/config"
	"github.com/PDG1999/tool-dashboard-samebi/internal/logger"
	"github.com/PDG1999/tool-dashboard-samebi/internal/output"
	"github.com/spf13/cobra"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
}

type rootFlags struct {
	noColor bool
	verbose bool
	source  string
	dbPath  string
}

// NewRootCmd builds the statsctl command tree.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "statsctl",
		Short: "Life-balance check statistics from the command line",
		Long: `statsctl builds the supervisor dashboard statistics from the configured
record source and prints them, or seeds the local sqlite record store with
sample data.

Configuration is read from .env and the environment, like the server.`,
		Version:       appVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := logger.WARN
			if flags.verbose {
				level = logger.DEBUG
			}
			logger.SetDefault(logger.New(
				logger.WithOutput(cmd.ErrOrStderr()),
				logger.WithLevel(level),
			))
			if flags.noColor {
				output.SetNoColor(true)
			} else {
				output.AutoColor(os.Stdout)
			}
		},
	}

	cmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "Disable colored output")
	cmd.PersistentFlags().BoolVar(&flags.verbose, "verbose", false, "Enable verbose logging")
	cmd.PersistentFlags().StringVar(&flags.source, "source", "", "Record source override: postgrest or sqlite")
	cmd.PersistentFlags().StringVar(&flags.dbPath, "db", "", "sqlite database path override")

	cmd.AddCommand(newSnapshotCmd(flags))
	cmd.AddCommand(newSeedCmd(flags))
	return cmd
}

// loadConfig applies flag overrides on top of the environment.
func (f *rootFlags) loadConfig() (config.Config, error) {
	cfg := config.Load()
	if f.source != "" {
		cfg.RecordSource = f.source
	}
	if f.dbPath != "" {
		cfg.DBPath = f.dbPath
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Execute is the entry point called from main.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
