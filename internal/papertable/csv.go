package papertable

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cidrlab/slrkit/internal/resolve"
)

// PoolSpec describes how to read a resolver pool out of a screening CSV.
// The screening spreadsheets disagree on column names, so the mapping is
// explicit configuration rather than guesswork.
type PoolSpec struct {
	Name      string   // pool name, reported in resolved links
	Path      string   // CSV file
	NumberCol string   // column holding the paper number
	TitleCols []string // columns tried in order for the title
}

// LoadCSVPool reads a candidate pool from a column-mapped CSV. Rows without
// a parseable number or a non-empty title are skipped: a candidate that
// cannot be identified cannot be linked to.
func LoadCSVPool(spec PoolSpec) (resolve.Pool, error) {
	f, err := os.Open(spec.Path)
	if err != nil {
		return resolve.Pool{}, fmt.Errorf("opening pool csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return resolve.Pool{Name: spec.Name}, nil
		}
		return resolve.Pool{}, fmt.Errorf("reading %s header: %w", filepath.Base(spec.Path), err)
	}

	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[strings.TrimSpace(name)] = i
	}
	numIdx, ok := colIdx[spec.NumberCol]
	if !ok {
		return resolve.Pool{}, fmt.Errorf("%s: missing column %q", filepath.Base(spec.Path), spec.NumberCol)
	}

	pool := resolve.Pool{Name: spec.Name}
	line := 1
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return resolve.Pool{}, fmt.Errorf("%s line %d: %w", filepath.Base(spec.Path), line+1, err)
		}
		line++

		num, err := strconv.Atoi(strings.TrimSpace(cell(row, numIdx)))
		if err != nil {
			continue
		}
		title := firstTitle(row, colIdx, spec.TitleCols)
		if title == "" {
			continue
		}
		pool.Candidates = append(pool.Candidates, resolve.Candidate{
			Number: num,
			Title:  title,
		})
	}
	return pool, nil
}

func firstTitle(row []string, colIdx map[string]int, titleCols []string) string {
	for _, name := range titleCols {
		idx, ok := colIdx[name]
		if !ok {
			continue
		}
		if title := strings.TrimSpace(cell(row, idx)); title != "" {
			return title
		}
	}
	return ""
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
