// Package storage maintains the ephemeral SQLite cache of deduplicated
// records. The papertable output stays the source of truth; the cache is
// rebuilt from it and only serves queries.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/cidrlab/slrkit/internal/record"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

const selectFields = `doi, title, authors_json, pub_year, venue, abstract, url, source`

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS papers (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			doi TEXT,
			title TEXT,
			authors_json TEXT NOT NULL,
			pub_year TEXT,
			venue TEXT,
			abstract TEXT,
			url TEXT,
			source TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_papers_doi ON papers(doi) WHERE doi IS NOT NULL AND doi != '';
	`

	_, err := db.Exec(schema)
	return err
}

// ReplaceAll clears the cache and inserts the given records in order.
// Returns the number of records stored.
func (d *DB) ReplaceAll(records []record.Record) (int, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM papers"); err != nil {
		return 0, fmt.Errorf("clearing papers table: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO papers (doi, title, authors_json, pub_year, venue, abstract, url, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		authorsJSON, err := json.Marshal(rec.Authors)
		if err != nil {
			return 0, fmt.Errorf("encoding authors for %q: %w", rec.Title, err)
		}
		if _, err := stmt.Exec(
			rec.DOI, rec.Title, string(authorsJSON),
			rec.Year.String(), rec.Venue, rec.Abstract, rec.URL, rec.Source,
		); err != nil {
			return 0, fmt.Errorf("inserting %q: %w", rec.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing: %w", err)
	}
	return len(records), nil
}

// All returns every cached record in insertion order.
func (d *DB) All() ([]record.Record, error) {
	rows, err := d.db.Query("SELECT " + selectFields + " FROM papers ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// SearchTitle returns cached records whose title contains the query,
// case-insensitively, in insertion order.
func (d *DB) SearchTitle(query string, limit int) ([]record.Record, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := d.db.Query(
		"SELECT "+selectFields+" FROM papers WHERE title LIKE ? ORDER BY seq LIMIT ?",
		"%"+query+"%", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("searching papers: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// GetByDOI returns the cached record with the given DOI, or nil.
func (d *DB) GetByDOI(doi string) (*record.Record, error) {
	row := d.db.QueryRow(
		"SELECT "+selectFields+" FROM papers WHERE lower(trim(doi)) = lower(trim(?)) LIMIT 1",
		doi,
	)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying by doi: %w", err)
	}
	return rec, nil
}

// Count returns the number of cached records.
func (d *DB) Count() (int, error) {
	var n int
	if err := d.db.QueryRow("SELECT COUNT(*) FROM papers").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting papers: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*record.Record, error) {
	var rec record.Record
	var authorsJSON, year string
	if err := s.Scan(
		&rec.DOI, &rec.Title, &authorsJSON, &year,
		&rec.Venue, &rec.Abstract, &rec.URL, &rec.Source,
	); err != nil {
		return nil, err
	}
	rec.Year = record.FlexibleString(year)
	if err := json.Unmarshal([]byte(authorsJSON), &rec.Authors); err != nil {
		return nil, fmt.Errorf("decoding authors: %w", err)
	}
	return &rec, nil
}

func scanRecords(rows *sql.Rows) ([]record.Record, error) {
	var records []record.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}
	return records, nil
}
