// Package config loads the run configuration for the slr pipeline.
//
// Everything the loaders and generators need (input paths, pool column
// mappings, thresholds) arrives through this struct at call time. Core
// packages hold no package-level state.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cidrlab/slrkit/internal/dedup"
	"github.com/cidrlab/slrkit/internal/resolve"
)

// DefaultFile is the config file the CLI looks for when --config is unset.
const DefaultFile = "slr.yml"

// Pool maps a screening CSV into a resolver candidate pool. Pools are
// consulted in list order, so put the higher-confidence spreadsheet first.
type Pool struct {
	Name         string   `yaml:"name"`
	Path         string   `yaml:"path"`
	NumberColumn string   `yaml:"number_column"`
	TitleColumns []string `yaml:"title_columns"`
}

// Config is the run configuration for the slr commands.
type Config struct {
	// Dedup inputs and outputs
	Inputs    []string `yaml:"inputs"`     // papertable files, globs allowed
	Output    string   `yaml:"output"`     // deduplicated papertable
	StatsFile string   `yaml:"stats_file"` // dedup statistics JSON

	// Resolution inputs and outputs
	References     string `yaml:"references"`       // references-section text file
	PDFDir         string `yaml:"pdf_dir"`          // directory of numbered PDFs
	ExtractPDFMeta bool   `yaml:"extract_pdf_meta"` // read titles/DOIs out of the PDFs
	Pools          []Pool `yaml:"pools"`            // metadata pools, priority order
	LinksFile      string `yaml:"links_file"`       // resolved link map JSON

	// Query cache
	CacheDB string `yaml:"cache_db"`

	// Tunables
	Dedup   dedup.Options   `yaml:"dedup"`
	Resolve resolve.Options `yaml:"resolve"`
}

// Default returns a config with the standard thresholds and file names.
func Default() Config {
	return Config{
		Output:    "deduplicated.papertable",
		StatsFile: "deduplication_statistics.json",
		LinksFile: "reference_links.json",
		CacheDB:   filepath.Join(".slrkit", "cache.db"),
		Dedup:     dedup.DefaultOptions(),
		Resolve:   resolve.DefaultOptions(),
	}
}

// Load reads a YAML config file. Fields absent from the file keep their
// defaults; relative paths stay relative to the working directory, and ~
// is expanded.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.expandPaths()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the tunables are in range.
func (c *Config) Validate() error {
	if err := ratio("dedup.title_threshold", c.Dedup.TitleThreshold); err != nil {
		return err
	}
	if err := ratio("dedup.author_overlap", c.Dedup.AuthorOverlap); err != nil {
		return err
	}
	if err := ratio("dedup.title_only_threshold", c.Dedup.TitleOnlyThreshold); err != nil {
		return err
	}
	if c.Dedup.TitleOnlyThreshold < c.Dedup.TitleThreshold {
		return fmt.Errorf("dedup.title_only_threshold must not be below dedup.title_threshold")
	}
	if c.Resolve.MinScore < 1 {
		return fmt.Errorf("resolve.min_score must be at least 1")
	}
	if c.Resolve.MinTokenLength < 0 {
		return fmt.Errorf("resolve.min_token_length must not be negative")
	}
	return nil
}

func ratio(name string, v float64) error {
	if v <= 0 || v > 1 {
		return fmt.Errorf("%s must be in (0, 1], got %v", name, v)
	}
	return nil
}

func (c *Config) expandPaths() {
	for i, in := range c.Inputs {
		c.Inputs[i] = ExpandPath(in)
	}
	c.Output = ExpandPath(c.Output)
	c.StatsFile = ExpandPath(c.StatsFile)
	c.References = ExpandPath(c.References)
	c.PDFDir = ExpandPath(c.PDFDir)
	c.LinksFile = ExpandPath(c.LinksFile)
	c.CacheDB = ExpandPath(c.CacheDB)
	for i := range c.Pools {
		c.Pools[i].Path = ExpandPath(c.Pools[i].Path)
	}
}

// ExpandPath expands ~ to the user's home directory. Returns the original
// path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}

// ExpandInputs resolves the configured input patterns into file paths,
// preserving pattern order. A pattern that matches nothing is an error:
// a silently empty input would look like a perfect deduplication.
func (c *Config) ExpandInputs() ([]string, error) {
	var paths []string
	for _, pattern := range c.Inputs {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad input pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("input pattern %q matched no files", pattern)
		}
		paths = append(paths, matches...)
	}
	return paths, nil
}
