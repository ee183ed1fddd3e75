package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "slr.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Dedup.TitleThreshold != 0.85 {
		t.Errorf("TitleThreshold = %v, want 0.85", cfg.Dedup.TitleThreshold)
	}
	if cfg.Dedup.AuthorOverlap != 0.5 {
		t.Errorf("AuthorOverlap = %v, want 0.5", cfg.Dedup.AuthorOverlap)
	}
	if cfg.Dedup.TitleOnlyThreshold != 0.95 {
		t.Errorf("TitleOnlyThreshold = %v, want 0.95", cfg.Dedup.TitleOnlyThreshold)
	}
	if cfg.Resolve.MinScore != 2 {
		t.Errorf("MinScore = %v, want 2", cfg.Resolve.MinScore)
	}
	if cfg.Output == "" || cfg.CacheDB == "" {
		t.Error("default output paths should be set")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
inputs:
  - results/arxiv_*.papertable
output: unique.papertable
pdf_dir: papers
pools:
  - name: included
    path: included.csv
    number_column: Paper Number
    title_columns: [Title]
dedup:
  title_threshold: 0.9
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Output != "unique.papertable" {
		t.Errorf("Output = %q", cfg.Output)
	}
	if cfg.Dedup.TitleThreshold != 0.9 {
		t.Errorf("TitleThreshold = %v, want the configured 0.9", cfg.Dedup.TitleThreshold)
	}
	// Unset tunables keep their defaults
	if cfg.Dedup.AuthorOverlap != 0.5 {
		t.Errorf("AuthorOverlap = %v, want default 0.5", cfg.Dedup.AuthorOverlap)
	}
	if cfg.Resolve.MinTokenLength != 4 {
		t.Errorf("MinTokenLength = %v, want default 4", cfg.Resolve.MinTokenLength)
	}
	if len(cfg.Pools) != 1 || cfg.Pools[0].NumberColumn != "Paper Number" {
		t.Errorf("Pools = %+v", cfg.Pools)
	}
}

func TestLoadInvalidThreshold(t *testing.T) {
	path := writeConfig(t, `
dedup:
  title_threshold: 1.5
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for a threshold above 1")
	}
}

func TestLoadInvertedThresholds(t *testing.T) {
	path := writeConfig(t, `
dedup:
  title_threshold: 0.9
  title_only_threshold: 0.8
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected an error when the title-only bar is below the base threshold")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yml")); err == nil {
		t.Fatal("expected an error for a missing config")
	}
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.papertable", "b.papertable"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	cfg := Default()
	cfg.Inputs = []string{filepath.Join(dir, "*.papertable")}

	paths, err := cfg.ExpandInputs()
	if err != nil {
		t.Fatalf("ExpandInputs: %v", err)
	}
	if len(paths) != 2 {
		t.Errorf("expected 2 paths, got %d", len(paths))
	}
}

func TestExpandInputsNoMatch(t *testing.T) {
	cfg := Default()
	cfg.Inputs = []string{filepath.Join(t.TempDir(), "*.papertable")}

	if _, err := cfg.ExpandInputs(); err == nil {
		t.Fatal("expected an error when a pattern matches nothing")
	}
}

func TestExpandPath(t *testing.T) {
	if got := ExpandPath("plain/path"); got != "plain/path" {
		t.Errorf("ExpandPath changed a plain path: %q", got)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandPath("~/papers"); got != filepath.Join(home, "papers") {
		t.Errorf("ExpandPath(~/papers) = %q", got)
	}
}
