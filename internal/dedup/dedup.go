// Package dedup decides when two bibliographic records describe the same
// paper and folds record sequences into unique sets.
package dedup

import (
	"math"
	"strings"

	"github.com/cidrlab/slrkit/internal/normalize"
	"github.com/cidrlab/slrkit/internal/record"
	"github.com/cidrlab/slrkit/internal/similarity"
)

// Options tunes the duplicate decision. The defaults reproduce the
// thresholds the screening pipeline was calibrated with; they are exposed
// as fields so a run config can adjust them without touching the code.
type Options struct {
	// TitleThreshold is the minimum title similarity for two records to be
	// considered candidates at all.
	TitleThreshold float64 `yaml:"title_threshold" json:"title_threshold"`

	// AuthorOverlap is the minimum fraction of the smaller author set that
	// must also appear in the other record's author set.
	AuthorOverlap float64 `yaml:"author_overlap" json:"author_overlap"`

	// TitleOnlyThreshold is the stricter similarity bar applied when either
	// record carries no author information.
	TitleOnlyThreshold float64 `yaml:"title_only_threshold" json:"title_only_threshold"`
}

// DefaultOptions returns the standard thresholds: 0.85 title similarity,
// 0.5 author overlap, 0.95 title-only fallback.
func DefaultOptions() Options {
	return Options{
		TitleThreshold:     0.85,
		AuthorOverlap:      0.5,
		TitleOnlyThreshold: 0.95,
	}
}

// IsDuplicate reports whether two distinct records describe the same paper.
//
// Decision order, first conclusive check wins:
//  1. Equal non-empty DOIs (case-insensitive, trimmed) are duplicates,
//     regardless of every other field.
//  2. A missing title on either side means the records cannot be compared;
//     they are kept distinct.
//  3. Title similarity below TitleThreshold means not a duplicate.
//  4. With similar titles, author sets corroborate: if both records have
//     authors, the overlap of the smaller set must reach AuthorOverlap.
//     Without author information on one side, only near-identical titles
//     (TitleOnlyThreshold) count.
//
// Insufficient evidence always resolves to "not a duplicate": keeping a
// spurious copy is recoverable, merging two distinct papers is not.
func IsDuplicate(a, b record.Record, opts Options) bool {
	doiA := canonicalDOI(a.DOI)
	doiB := canonicalDOI(b.DOI)
	if doiA != "" && doiA == doiB {
		return true
	}

	if a.Title == "" || b.Title == "" {
		return false
	}

	sim := similarity.TitleRatio(a.Title, b.Title)
	if sim < opts.TitleThreshold {
		return false
	}

	authorsA := normalize.AuthorSet(a.AuthorNames())
	authorsB := normalize.AuthorSet(b.AuthorNames())
	if len(authorsA) > 0 && len(authorsB) > 0 {
		return overlapRatio(authorsA, authorsB) >= opts.AuthorOverlap
	}

	return sim >= opts.TitleOnlyThreshold
}

// Deduplicate folds records into a unique set, preserving first-seen order.
// Each incoming record is tested against every already-accepted record and
// discarded on the first match. Returns the unique records and the number
// of duplicates removed; len(unique) + removed == len(records) always.
//
// This is O(n²) classifier calls in the worst case, which is fine for
// screening runs of a few hundred records.
func Deduplicate(records []record.Record, opts Options) (unique []record.Record, removed int) {
	unique = make([]record.Record, 0, len(records))
	for _, rec := range records {
		isDup := false
		for _, kept := range unique {
			if IsDuplicate(rec, kept, opts) {
				isDup = true
				break
			}
		}
		if isDup {
			removed++
			continue
		}
		unique = append(unique, rec)
	}
	return unique, removed
}

// Stats summarizes a deduplication run.
type Stats struct {
	TotalBefore  int            `json:"total_papers_before"`
	UniqueAfter  int            `json:"unique_papers_after"`
	Removed      int            `json:"duplicates_removed"`
	RatePercent  float64        `json:"deduplication_rate_percent"`
	SourceCounts map[string]int `json:"source_counts,omitempty"` // input records per source file
}

// NewStats builds run statistics from the deduplication outputs.
func NewStats(total, removed int, sourceCounts map[string]int) Stats {
	s := Stats{
		TotalBefore:  total,
		UniqueAfter:  total - removed,
		Removed:      removed,
		SourceCounts: sourceCounts,
	}
	if total > 0 {
		s.RatePercent = math.Round(float64(removed)/float64(total)*10000) / 100
	}
	return s
}

func canonicalDOI(doi string) string {
	return strings.ToLower(strings.TrimSpace(doi))
}

// overlapRatio divides the number of shared keys by the size of the
// smaller set. Both sets must be non-empty.
func overlapRatio(a, b map[string]struct{}) float64 {
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	shared := 0
	for k := range small {
		if _, ok := large[k]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(small))
}
