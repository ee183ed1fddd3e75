// Package pdf builds resolver candidate pools from directories of
// downloaded papers.
package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cidrlab/slrkit/internal/resolve"
)

// Downloaded papers are named "<number>-<title words>.pdf"; the numeric
// prefix is the paper's stable identifier across the screening artifacts.
var numberedName = regexp.MustCompile(`^(\d+)-`)

// ScanDir builds a candidate pool from the numbered PDFs in dir, sorted by
// paper number. Each candidate's searchable text is its filename; with
// extractMeta set the first page is also read, and a recognizable title or
// DOI enriches the candidate. Extraction failures are not errors; the
// filename-derived candidate stands on its own.
func ScanDir(dir, poolName string, extractMeta bool) (resolve.Pool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return resolve.Pool{}, fmt.Errorf("scanning pdf directory: %w", err)
	}

	pool := resolve.Pool{Name: poolName}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
			continue
		}
		m := numberedName.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		num, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}

		cand := resolve.Candidate{Number: num, File: name}
		if extractMeta {
			enrich(&cand, filepath.Join(dir, name))
		}
		pool.Candidates = append(pool.Candidates, cand)
	}

	sort.Slice(pool.Candidates, func(i, j int) bool {
		return pool.Candidates[i].Number < pool.Candidates[j].Number
	})
	return pool, nil
}

// enrich fills in title and DOI read from the PDF itself, best effort.
func enrich(cand *resolve.Candidate, path string) {
	if title, err := ExtractTitle(path); err == nil && title != "" {
		cand.Title = title
	}
	if doi, err := ExtractDOI(path); err == nil && doi != "" {
		cand.DOI = doi
	}
}
