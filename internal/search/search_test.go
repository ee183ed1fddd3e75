package search

import (
	"testing"

	"github.com/cidrlab/slrkit/internal/record"
)

func sampleRecords() []record.Record {
	return []record.Record{
		{Title: "Multi-Cloud Drift Detection Techniques"},
		{Title: "Kubernetes Operators in Practice"},
		{Title: "Drift Detection"},
	}
}

func TestTitles(t *testing.T) {
	results := Titles("drift detection", sampleRecords(), 0)

	if len(results) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(results))
	}
	// The closer title ranks first
	if results[0].Record.Title != "Drift Detection" {
		t.Errorf("first result = %q, want the exact title", results[0].Record.Title)
	}
	if results[0].Rank >= results[1].Rank {
		t.Errorf("ranks not ascending: %d then %d", results[0].Rank, results[1].Rank)
	}
}

func TestTitlesIgnoresPunctuationAndCase(t *testing.T) {
	results := Titles("DRIFT-detection!", sampleRecords(), 0)

	if len(results) == 0 {
		t.Fatal("expected matches despite punctuation and case differences")
	}
	if results[0].Record.Title != "Drift Detection" {
		t.Errorf("first result = %q", results[0].Record.Title)
	}
}

func TestTitlesLimit(t *testing.T) {
	results := Titles("drift detection", sampleRecords(), 1)

	if len(results) != 1 {
		t.Fatalf("expected the limit to cap results, got %d", len(results))
	}
}

func TestTitlesNoMatch(t *testing.T) {
	results := Titles("quantum cryptography", sampleRecords(), 0)

	if len(results) != 0 {
		t.Errorf("expected no matches, got %d", len(results))
	}
}

func TestTitlesEmptyQuery(t *testing.T) {
	if results := Titles("  ...  ", sampleRecords(), 0); results != nil {
		t.Errorf("expected nil for a query that normalizes away, got %v", results)
	}
}
