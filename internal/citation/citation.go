// Package citation parses numbered reference entries from text.
package citation

import (
	"regexp"
	"strconv"
	"strings"
)

// Entry is one numbered entry from a references section: the text that
// follows a [n] marker, up to the next marker.
type Entry struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}

var marker = regexp.MustCompile(`\[(\d+)\]`)

// ParseEntries splits a references-section blob into numbered entries.
// The caller supplies the blob already cut out of the surrounding document;
// locating it is not this package's concern.
//
// Markers are recognized anywhere in the text, so entries may span lines.
// Text before the first marker is ignored.
func ParseEntries(text string) []Entry {
	locs := marker.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	entries := make([]Entry, 0, len(locs))
	for i, loc := range locs {
		num, err := strconv.Atoi(text[loc[2]:loc[3]])
		if err != nil {
			continue
		}

		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		body := strings.TrimSpace(text[loc[1]:end])
		if body == "" {
			continue
		}
		entries = append(entries, Entry{Number: num, Text: body})
	}
	return entries
}
