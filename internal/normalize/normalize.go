// Package normalize canonicalizes free-text strings into comparable keys.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Key canonicalizes a string for comparison: fold compatibility forms,
// strip diacritics (é -> e, ñ -> n), lowercase, replace every character
// that is not a letter or digit with a space, collapse whitespace runs,
// and trim. Key is total (never fails), returns "" for empty input, and
// is idempotent: Key(Key(s)) == Key(s).
func Key(s string) string {
	if s == "" {
		return ""
	}

	// Unicode normalization (NFKC) to fold width/compatibility forms
	s = norm.NFKC.String(s)
	s = stripDiacritics(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// stripDiacritics removes combining marks after NFD decomposition.
func stripDiacritics(s string) string {
	decomp := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomp))
	for _, r := range decomp {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// AuthorSet builds an order-independent set of normalized author names.
// Names that normalize to the empty string are discarded.
func AuthorSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		if k := Key(name); k != "" {
			set[k] = struct{}{}
		}
	}
	return set
}
