// Package resolve maps citation text fragments to candidate source documents.
package resolve

import (
	"regexp"
	"sort"
	"strings"

	"github.com/cidrlab/slrkit/internal/citation"
)

// Candidate is a document a citation may resolve to.
type Candidate struct {
	Number int    `json:"number"`          // stable numeric identifier
	Title  string `json:"title,omitempty"` // known title, if any
	File   string `json:"file,omitempty"`  // backing file, if any
	DOI    string `json:"doi,omitempty"`   // extracted from the file, advisory
}

// SearchText returns the text token matching runs against: the known
// title when present, the backing filename otherwise.
func (c Candidate) SearchText() string {
	if c.Title != "" {
		return c.Title
	}
	return c.File
}

// Pool is a named, ordered set of candidates. When several pools are
// passed to Resolve, earlier pools take priority.
type Pool struct {
	Name       string
	Candidates []Candidate
}

// Link associates a citation with the candidate it resolved to. Absence of
// a Link means "no confident match", never a guess.
type Link struct {
	Candidate Candidate `json:"candidate"`
	Pool      string    `json:"pool"`
	Method    string    `json:"method"`          // "title" or "tokens"
	Score     int       `json:"score,omitempty"` // token hits, tokens method only
}

// Options tunes the token-overlap fallback.
type Options struct {
	// MinTokenLength: only tokens strictly longer than this count.
	MinTokenLength int `yaml:"min_token_length" json:"min_token_length"`
	// MinScore is the smallest token-hit count accepted as a match.
	MinScore int `yaml:"min_score" json:"min_score"`
}

// DefaultOptions returns the standard fallback tunables: tokens longer
// than 4 characters, at least 2 hits.
func DefaultOptions() Options {
	return Options{MinTokenLength: 4, MinScore: 2}
}

var (
	curlyQuoted    = regexp.MustCompile(`“([^”]+)”`)
	straightQuoted = regexp.MustCompile(`"([^"]+)"`)
	nonWord        = regexp.MustCompile(`\W+`)
)

// ExtractQuotedTitle pulls the quoted title out of a citation fragment.
// Curly double quotes are tried first, then straight ones. Returns ""
// when the fragment contains no quoted span.
func ExtractQuotedTitle(text string) string {
	if m := curlyQuoted.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := straightQuoted.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// Resolve maps a raw citation fragment to the best-matching candidate, or
// reports unresolved. In priority order:
//
//  1. Extract a quoted title from the fragment; without one there is
//     nothing to match and the citation stays unresolved.
//  2. Structural match: case-insensitive substring containment in either
//     direction between the extracted title and a candidate's known title,
//     scanning pools in priority order. First hit wins.
//  3. Token-overlap fallback: split the extracted title on non-word runs,
//     keep long tokens, and count how many appear in each candidate's
//     searchable text. The strictly highest scorer wins if it reaches
//     Options.MinScore; equal scores resolve to the lowest candidate
//     number.
//
// Resolve never fails: an inconclusive match is the unresolved outcome.
func Resolve(text string, pools []Pool, opts Options) (Link, bool) {
	title := ExtractQuotedTitle(text)
	if title == "" {
		return Link{}, false
	}
	lower := strings.ToLower(title)

	for _, pool := range pools {
		for _, c := range pool.Candidates {
			known := strings.ToLower(c.Title)
			if known == "" {
				continue
			}
			if strings.Contains(lower, known) || strings.Contains(known, lower) {
				return Link{Candidate: c, Pool: pool.Name, Method: "title"}, true
			}
		}
	}

	return resolveByTokens(lower, pools, opts)
}

// ResolveAll resolves numbered citation entries against the pools.
// Entries that stay unresolved are absent from the result.
func ResolveAll(entries []citation.Entry, pools []Pool, opts Options) map[int]Link {
	links := make(map[int]Link)
	for _, e := range entries {
		if link, ok := Resolve(e.Text, pools, opts); ok {
			links[e.Number] = link
		}
	}
	return links
}

func resolveByTokens(lowerTitle string, pools []Pool, opts Options) (Link, bool) {
	var tokens []string
	for _, t := range nonWord.Split(lowerTitle, -1) {
		if len(t) > opts.MinTokenLength {
			tokens = append(tokens, t)
		}
	}
	if len(tokens) == 0 {
		return Link{}, false
	}

	type poolCandidate struct {
		cand Candidate
		pool string
	}
	var all []poolCandidate
	for _, pool := range pools {
		for _, c := range pool.Candidates {
			all = append(all, poolCandidate{cand: c, pool: pool.Name})
		}
	}
	// Scan in ascending candidate number (stable, so pool priority breaks
	// number collisions). Only a strictly higher score displaces the
	// current best, so ties resolve to the lowest-numbered candidate.
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].cand.Number < all[j].cand.Number
	})

	var best Link
	bestScore := 0
	for _, pc := range all {
		text := strings.ToLower(pc.cand.SearchText())
		if text == "" {
			continue
		}
		score := 0
		for _, tok := range tokens {
			if strings.Contains(text, tok) {
				score++
			}
		}
		if score > bestScore && score >= opts.MinScore {
			bestScore = score
			best = Link{Candidate: pc.cand, Pool: pc.pool, Method: "tokens", Score: score}
		}
	}

	if bestScore == 0 {
		return Link{}, false
	}
	return best, true
}
