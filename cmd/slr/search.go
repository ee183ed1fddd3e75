package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cidrlab/slrkit/internal/record"
	"github.com/cidrlab/slrkit/internal/search"
	"github.com/cidrlab/slrkit/internal/storage"
)

var searchLimit int

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "Maximum number of results")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Fuzzy-search record titles in the query cache",
	Long: `Fuzzy-search deduplicated record titles.

Matching ignores case, punctuation, and diacritics; results are ordered
by edit distance to the query. Run "slr index" first to build the cache.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

// SearchHit is one search result in JSON output.
type SearchHit struct {
	Title   string          `json:"title"`
	Authors []record.Author `json:"authors,omitempty"`
	Year    string          `json:"year,omitempty"`
	DOI     string          `json:"doi,omitempty"`
	Source  string          `json:"source,omitempty"`
	Rank    int             `json:"rank"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	if _, err := os.Stat(cfg.CacheDB); err != nil {
		exitWithError(ExitConfigError, "query cache not found at %s (run \"slr index\" first)", cfg.CacheDB)
	}

	db, err := storage.OpenDB(cfg.CacheDB)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	defer db.Close()

	records, err := db.All()
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	query := strings.Join(args, " ")
	results := search.Titles(query, records, searchLimit)

	if humanOutput {
		for i, r := range results {
			outputHuman("%d. %s\n", i+1, truncateString(r.Record.Title, listTitleMaxLen))
			if line := formatAuthorsShort(r.Record.Authors, 3); line != "" {
				outputHuman("   %s", line)
				if r.Record.Year != "" {
					outputHuman(" (%s)", r.Record.Year)
				}
				outputHuman("\n")
			}
		}
		if len(results) == 0 {
			outputHuman("no matches\n")
		}
		return nil
	}

	hits := make([]SearchHit, 0, len(results))
	for _, r := range results {
		hits = append(hits, SearchHit{
			Title:   r.Record.Title,
			Authors: r.Record.Authors,
			Year:    r.Record.Year.String(),
			DOI:     r.Record.DOI,
			Source:  r.Record.Source,
			Rank:    r.Rank,
		})
	}
	return outputJSON(hits)
}
