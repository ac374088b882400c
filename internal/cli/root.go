package cli

import (
	"github.com/spf13/cobra"

	"github.com/vibecoding/devlog/internal/logger"
)

// Global configuration variables
var (
	configFile  string
	config      *Config
	databaseURL string
	debug       bool
	verbose     bool
)

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "devlog",
		Short: "Devlog - Developer Activity Tracker",
		Long: `Devlog is a backend for recording daily development activity:
projects, work log entries, technology tags, and the statistics
derived from them, served over a JSON HTTP API.`,
		Version: Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			var err error
			config, err = LoadConfig(configFile)
			if err != nil {
				if verbose {
					cmd.Printf("Warning: Failed to load config file: %v\n", err)
				}
				config = DefaultConfig()
			}

			if databaseURL != "" {
				config.Database.URL = databaseURL
			}

			level := config.Log.Level
			if debug {
				level = "debug"
			}
			logger.SetLevel(logger.ParseLevel(level))
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: devlog.yaml)")
	rootCmd.PersistentFlags().StringVar(&databaseURL, "url", "", "database connection URL")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose output")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}
