package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/cidrlab/slrkit/internal/dedup"
	"github.com/cidrlab/slrkit/internal/papertable"
)

var (
	dedupOutput string
	dedupStats  string
	dedupDryRun bool
)

func init() {
	dedupCmd.Flags().StringVar(&dedupOutput, "output", "", "Output papertable path (overrides config)")
	dedupCmd.Flags().StringVar(&dedupStats, "stats", "", "Statistics JSON path (overrides config)")
	dedupCmd.Flags().BoolVar(&dedupDryRun, "dry-run", false, "Report what would be removed without writing")
	rootCmd.AddCommand(dedupCmd)
}

var dedupCmd = &cobra.Command{
	Use:   "dedup [papertable...]",
	Short: "Deduplicate records from search exports",
	Long: `Deduplicate bibliographic records collected from search exports.

Records are folded in file order: a record is dropped when it matches an
already-kept one by DOI, or by title similarity corroborated by author
overlap. Input files come from the command line or from the run config.

Usage:
  slr dedup results/*.papertable
  slr dedup --config slr.yml --dry-run`,
	RunE: runDedup,
}

// DedupResponse is the JSON result of a dedup run.
type DedupResponse struct {
	Stats  dedup.Stats `json:"stats"`
	Output string      `json:"output,omitempty"`
	DryRun bool        `json:"dry_run,omitempty"`
}

func runDedup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	inputs := args
	if len(inputs) == 0 {
		if len(cfg.Inputs) == 0 {
			exitWithError(ExitConfigError, "no input papertables (pass files or set inputs in the config)")
		}
		inputs, err = cfg.ExpandInputs()
		if err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
	}

	records, counts, err := papertable.LoadAll(inputs)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	if len(records) == 0 {
		exitWithError(ExitDataError, "no records found in any input")
	}

	unique, removed := dedup.Deduplicate(records, cfg.Dedup)
	stats := dedup.NewStats(len(records), removed, counts)

	outPath := dedupOutput
	if outPath == "" {
		outPath = cfg.Output
	}
	statsPath := dedupStats
	if statsPath == "" {
		statsPath = cfg.StatsFile
	}

	if !dedupDryRun {
		if err := papertable.Save(outPath, unique); err != nil {
			exitWithError(ExitError, "%v", err)
		}
		if statsPath != "" {
			if err := writeJSONFile(statsPath, stats); err != nil {
				exitWithError(ExitError, "%v", err)
			}
		}
	}

	if humanOutput {
		outputHuman("%d records in, %d unique, %d duplicates removed (%.2f%%)\n",
			stats.TotalBefore, stats.UniqueAfter, stats.Removed, stats.RatePercent)
		names := make([]string, 0, len(stats.SourceCounts))
		for name := range stats.SourceCounts {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			outputHuman("  %s: %d\n", name, stats.SourceCounts[name])
		}
		if !dedupDryRun {
			outputHuman("wrote %s\n", outPath)
		}
		return nil
	}

	resp := DedupResponse{Stats: stats, DryRun: dedupDryRun}
	if !dedupDryRun {
		resp.Output = outPath
	}
	return outputJSON(resp)
}

// writeJSONFile writes a value as indented JSON to a file.
func writeJSONFile(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
