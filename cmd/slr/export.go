package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cidrlab/slrkit/internal/export"
	"github.com/cidrlab/slrkit/internal/papertable"
)

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write BibTeX here instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export [papertable]",
	Short: "Export a papertable as BibTeX",
	Long: `Export the records of a papertable as BibTeX entries.

With no argument the configured dedup output is exported. Citation keys
are derived from the first author, year, and title.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	inputPath := cfg.Output
	if len(args) == 1 {
		inputPath = args[0]
	}
	if inputPath == "" {
		exitWithError(ExitConfigError, "no papertable to export (pass one or set output in the config)")
	}

	records, err := papertable.Load(inputPath)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	bib := export.ToBibTeXList(records)

	if exportOutput != "" {
		if err := os.WriteFile(exportOutput, []byte(bib), 0644); err != nil {
			exitWithError(ExitError, "writing %s: %v", exportOutput, err)
		}
		return nil
	}

	_, err = os.Stdout.WriteString(bib)
	return err
}
