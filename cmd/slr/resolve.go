package main

import (
	"errors"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/cidrlab/slrkit/internal/citation"
	"github.com/cidrlab/slrkit/internal/config"
	"github.com/cidrlab/slrkit/internal/papertable"
	"github.com/cidrlab/slrkit/internal/pdf"
	"github.com/cidrlab/slrkit/internal/resolve"
)

var resolveLinks string

func init() {
	resolveCmd.Flags().StringVar(&resolveLinks, "links", "", "Resolved link map JSON path (overrides config)")
	rootCmd.AddCommand(resolveCmd)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve [references.txt]",
	Short: "Link numbered citations to source documents",
	Long: `Link the numbered entries of a references section to the papers
they cite.

Each entry's quoted title is matched against the configured metadata
pools in priority order, falling back to keyword overlap against the PDF
filenames. Entries with no confident match are reported as unresolved
rather than guessed.

The references file is the already-extracted text of the references
section, passed on the command line or set in the run config.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResolve,
}

// ResolveResponse is the JSON result of a resolution run.
type ResolveResponse struct {
	Total      int                  `json:"total_references"`
	Resolved   int                  `json:"resolved"`
	Unresolved []int                `json:"unresolved,omitempty"`
	Links      map[int]resolve.Link `json:"links"`
	LinksFile  string               `json:"links_file,omitempty"`
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	refsPath := cfg.References
	if len(args) == 1 {
		refsPath = args[0]
	}
	if refsPath == "" {
		exitWithError(ExitConfigError, "no references file (pass one or set references in the config)")
	}

	refsText, err := os.ReadFile(refsPath)
	if err != nil {
		exitWithError(ExitDataError, "reading references: %v", err)
	}

	entries := citation.ParseEntries(string(refsText))
	if len(entries) == 0 {
		exitWithError(ExitDataError, "no numbered reference entries found in %s", refsPath)
	}

	pools, err := loadPools(cfg)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	if len(pools) == 0 {
		exitWithError(ExitConfigError, "no candidate pools (set pools or pdf_dir in the config)")
	}

	links := resolve.ResolveAll(entries, pools, cfg.Resolve)

	var unresolved []int
	for _, e := range entries {
		if _, ok := links[e.Number]; !ok {
			unresolved = append(unresolved, e.Number)
		}
	}
	sort.Ints(unresolved)

	linksPath := resolveLinks
	if linksPath == "" {
		linksPath = cfg.LinksFile
	}
	if linksPath != "" {
		if err := writeJSONFile(linksPath, links); err != nil {
			exitWithError(ExitError, "%v", err)
		}
	}

	if humanOutput {
		outputHuman("%d/%d references resolved\n", len(links), len(entries))
		numbers := make([]int, 0, len(links))
		for n := range links {
			numbers = append(numbers, n)
		}
		sort.Ints(numbers)
		for _, n := range numbers {
			link := links[n]
			target := link.Candidate.File
			if target == "" {
				target = link.Candidate.Title
			}
			outputHuman("  [%d] -> %s (%s, %s)\n", n, truncateString(target, listTitleMaxLen), link.Pool, link.Method)
		}
		for _, n := range unresolved {
			outputHuman("  [%d] unresolved\n", n)
		}
		return nil
	}

	return outputJSON(ResolveResponse{
		Total:      len(entries),
		Resolved:   len(links),
		Unresolved: unresolved,
		Links:      links,
		LinksFile:  linksPath,
	})
}

// loadPools assembles the candidate pools in priority order: the configured
// metadata CSVs first, then the PDF directory. A configured pool file that
// does not exist is skipped; the remaining pools still serve.
func loadPools(cfg *config.Config) ([]resolve.Pool, error) {
	var pools []resolve.Pool

	for _, pc := range cfg.Pools {
		spec := papertable.PoolSpec{
			Name:      pc.Name,
			Path:      pc.Path,
			NumberCol: pc.NumberColumn,
			TitleCols: pc.TitleColumns,
		}
		pool, err := papertable.LoadCSVPool(spec)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}
		pools = append(pools, pool)
	}

	if cfg.PDFDir != "" {
		pool, err := pdf.ScanDir(cfg.PDFDir, "pdfs", cfg.ExtractPDFMeta)
		if err != nil {
			return nil, err
		}
		pools = append(pools, pool)
	}

	return pools, nil
}
