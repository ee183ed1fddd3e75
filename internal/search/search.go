// Package search ranks record titles against a free-text query.
package search

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/cidrlab/slrkit/internal/normalize"
	"github.com/cidrlab/slrkit/internal/record"
)

// Result pairs a matched record with its rank: the Levenshtein distance
// between the query and the matched title, lower is better.
type Result struct {
	Record record.Record
	Rank   int
}

// Titles returns the records whose titles fuzzily match the query, best
// matches first. Both sides are normalized, so matching is insensitive to
// case, punctuation, and diacritics. Ties keep input order.
func Titles(query string, records []record.Record, limit int) []Result {
	q := normalize.Key(query)
	if q == "" {
		return nil
	}

	targets := make([]string, len(records))
	for i, rec := range records {
		targets[i] = normalize.Key(rec.Title)
	}

	ranks := fuzzy.RankFindNormalizedFold(q, targets)
	sort.Stable(ranks)

	results := make([]Result, 0, len(ranks))
	for _, r := range ranks {
		results = append(results, Result{
			Record: records[r.OriginalIndex],
			Rank:   r.Distance,
		})
		if limit > 0 && len(results) >= limit {
			break
		}
	}
	return results
}
