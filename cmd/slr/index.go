package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cidrlab/slrkit/internal/papertable"
	"github.com/cidrlab/slrkit/internal/storage"
)

func init() {
	rootCmd.AddCommand(indexCmd)
}

var indexCmd = &cobra.Command{
	Use:   "index [papertable]",
	Short: "Rebuild the query cache from a deduplicated papertable",
	Long: `Rebuild the SQLite query cache from a deduplicated papertable.

The papertable stays the source of truth; the cache only exists to make
searching fast and can be rebuilt at any time. With no argument the
configured dedup output is indexed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

// IndexResponse is the JSON result of an index rebuild.
type IndexResponse struct {
	Indexed int    `json:"indexed"`
	CacheDB string `json:"cache_db"`
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	inputPath := cfg.Output
	if len(args) == 1 {
		inputPath = args[0]
	}
	if inputPath == "" {
		exitWithError(ExitConfigError, "no papertable to index (pass one or set output in the config)")
	}

	records, err := papertable.Load(inputPath)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	if dir := filepath.Dir(cfg.CacheDB); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			exitWithError(ExitError, "creating cache directory: %v", err)
		}
	}

	db, err := storage.OpenDB(cfg.CacheDB)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	defer db.Close()

	n, err := db.ReplaceAll(records)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		outputHuman("indexed %d records into %s\n", n, cfg.CacheDB)
		return nil
	}
	return outputJSON(IndexResponse{Indexed: n, CacheDB: cfg.CacheDB})
}
