// Package papertable reads and writes literature-search export files.
//
// A papertable file is the JSON export produced by the search tooling: a
// set of named columns plus one row per result, where each cell holds the
// raw paper object. Only the papers column matters here; it is located by
// name rather than position because every export names its columns
// differently.
package papertable

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cidrlab/slrkit/internal/record"
)

type column struct {
	ColumnID           string  `json:"column_id"`
	Name               string  `json:"name"`
	CustomInstructions *string `json:"custom_instructions"`
}

type file struct {
	Columns        []column                     `json:"columns"`
	Data           []map[string]json.RawMessage `json:"data"`
	SearchMetadata map[string]any               `json:"search_metadata,omitempty"`
	FilterInfo     map[string]any               `json:"filter_info"`
	Sort           any                          `json:"sort"`
	ReadOnly       bool                         `json:"read_only"`
	DisableFilters bool                         `json:"disable_filters"`
	DisableSorting bool                         `json:"disable_sorting"`
}

// DedupColumnID names the single column written by Save.
const DedupColumnID = "papers_deduplicated"

// Load reads all records from one papertable file, in row order.
func Load(path string) ([]record.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading papertable: %w", err)
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing papertable %s: %w", filepath.Base(path), err)
	}

	colID := papersColumn(f.Columns)
	if colID == "" {
		return nil, fmt.Errorf("no papers column in %s", filepath.Base(path))
	}

	var records []record.Record
	for i, row := range f.Data {
		cell, ok := row[colID]
		if !ok || len(cell) == 0 {
			continue
		}
		var rec record.Record
		if err := json.Unmarshal(cell, &rec); err != nil {
			return nil, fmt.Errorf("parsing %s row %d: %w", filepath.Base(path), i+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// LoadAll reads records from several papertable files, concatenated in the
// given file order. Records missing a source label are tagged with the file
// they came from. The per-file record counts feed the run statistics.
func LoadAll(paths []string) ([]record.Record, map[string]int, error) {
	var all []record.Record
	counts := make(map[string]int, len(paths))

	for _, path := range paths {
		records, err := Load(path)
		if err != nil {
			return nil, nil, err
		}
		name := filepath.Base(path)
		counts[name] = len(records)
		for i := range records {
			if records[i].Source == "" {
				records[i].Source = name
			}
		}
		all = append(all, records...)
	}
	return all, counts, nil
}

// Save writes records to a papertable file under a single deduplicated
// papers column, preserving each record's original export fields.
func Save(path string, records []record.Record) error {
	rows := make([]map[string]json.RawMessage, 0, len(records))
	for _, rec := range records {
		cell, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encoding record: %w", err)
		}
		rows = append(rows, map[string]json.RawMessage{DedupColumnID: cell})
	}

	f := file{
		Columns: []column{{
			ColumnID: DedupColumnID,
			Name:     fmt.Sprintf("Papers (%d)", len(records)),
		}},
		Data: rows,
		SearchMetadata: map[string]any{
			"description": "Deduplicated papers from multiple searches",
		},
		FilterInfo: map[string]any{},
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding papertable: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing papertable: %w", err)
	}
	return nil
}

// papersColumn returns the ID of the first column whose name mentions
// papers, or "" if none does.
func papersColumn(columns []column) string {
	for _, col := range columns {
		if strings.Contains(strings.ToLower(col.Name), "paper") {
			return col.ColumnID
		}
	}
	return ""
}
