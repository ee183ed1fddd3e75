// Package export converts deduplicated records to citation formats.
package export

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/cidrlab/slrkit/internal/record"
)

// ToBibTeX converts a record to a BibTeX entry.
func ToBibTeX(rec record.Record) string {
	entryType := determineEntryType(rec)
	var b strings.Builder

	b.WriteString(fmt.Sprintf("@%s{%s,\n", entryType, CiteKey(rec)))

	if len(rec.Authors) > 0 {
		b.WriteString(fmt.Sprintf("  author = {%s},\n", formatAuthors(rec.Authors)))
	}

	b.WriteString(fmt.Sprintf("  title = {%s},\n", escapeLatex(rec.Title)))

	if rec.Venue != "" {
		fieldName := "journal"
		if entryType == "inproceedings" {
			fieldName = "booktitle"
		}
		b.WriteString(fmt.Sprintf("  %s = {%s},\n", fieldName, escapeLatex(rec.Venue)))
	}

	if rec.Year != "" {
		b.WriteString(fmt.Sprintf("  year = {%s},\n", rec.Year))
	}

	if rec.DOI != "" {
		b.WriteString(fmt.Sprintf("  doi = {%s},\n", rec.DOI))
	}

	if rec.URL != "" {
		b.WriteString(fmt.Sprintf("  url = {%s},\n", rec.URL))
	}

	if rec.Abstract != "" {
		b.WriteString(fmt.Sprintf("  abstract = {%s},\n", escapeLatex(rec.Abstract)))
	}

	b.WriteString("}\n")

	return b.String()
}

// ToBibTeXList converts multiple records to BibTeX format.
func ToBibTeXList(recs []record.Record) string {
	var entries []string
	for _, rec := range recs {
		entries = append(entries, ToBibTeX(rec))
	}
	return strings.Join(entries, "\n")
}

// CiteKey derives a citation key from the first author's surname, the year,
// and the first title word: "kim2024drift". Records with no usable parts get
// the key "unknown".
func CiteKey(rec record.Record) string {
	var parts []string

	if names := rec.AuthorNames(); len(names) > 0 {
		fields := strings.Fields(names[0])
		if len(fields) > 0 {
			parts = append(parts, keyToken(fields[len(fields)-1]))
		}
	}
	if rec.Year != "" {
		parts = append(parts, keyToken(rec.Year.String()))
	}
	if rec.Title != "" {
		for _, word := range strings.Fields(rec.Title) {
			if tok := keyToken(word); len(tok) > 2 {
				parts = append(parts, tok)
				break
			}
		}
	}

	key := strings.Join(parts, "")
	if key == "" {
		return "unknown"
	}
	return key
}

// keyToken lowercases a word and strips everything but letters and digits,
// keeping cite keys safe for BibTeX.
func keyToken(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// determineEntryType returns the BibTeX entry type for a record.
func determineEntryType(rec record.Record) string {
	venue := strings.ToLower(rec.Venue)

	// Preprints
	if strings.Contains(venue, "arxiv") ||
		strings.Contains(venue, "biorxiv") ||
		strings.Contains(venue, "medrxiv") {
		return "article"
	}

	// Conference proceedings
	if strings.Contains(venue, "proceedings") ||
		strings.Contains(venue, "conference") ||
		strings.Contains(venue, "workshop") ||
		strings.Contains(venue, "symposium") {
		return "inproceedings"
	}

	// Default to article
	return "article"
}

// formatAuthors joins author names in BibTeX style: "A and B and C".
func formatAuthors(authors []record.Author) string {
	var formatted []string
	for _, a := range authors {
		if a.Name != "" {
			formatted = append(formatted, escapeLatex(a.Name))
		}
	}
	return strings.Join(formatted, " and ")
}

// escapeLatex escapes special LaTeX characters.
func escapeLatex(s string) string {
	// Order matters: & must be first (before other escapes that might produce &)
	replacer := strings.NewReplacer(
		"&", `\&`,
		"%", `\%`,
		"$", `\$`,
		"#", `\#`,
		"_", `\_`,
		"{", `\{`,
		"}", `\}`,
		"~", `\textasciitilde{}`,
		"^", `\textasciicircum{}`,
	)
	return replacer.Replace(s)
}
