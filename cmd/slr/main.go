// Package main provides the slr CLI entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/cidrlab/slrkit/internal/config"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// configPath is the --config flag value
var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "slr",
	Short: "Literature-review deduplication and citation resolution",
	Long: `slr ingests bibliographic records collected from multiple
literature-search exports, removes duplicate records, and cross-links
numbered citation markers to source documents by fuzzy title matching.

All commands output JSON by default for easy scripting.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Run config file (default "+config.DefaultFile+" if present)")
	rootCmd.Version = Version
}

// loadConfig resolves the run configuration: the --config flag, then the
// SLR_CONFIG environment variable, then slr.yml in the working directory,
// then built-in defaults.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = os.Getenv("SLR_CONFIG")
	}
	if path == "" {
		if _, err := os.Stat(config.DefaultFile); err == nil {
			path = config.DefaultFile
		}
	}
	if path == "" {
		cfg := config.Default()
		return &cfg, nil
	}
	return config.Load(path)
}
