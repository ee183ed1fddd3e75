// Package similarity scores character-level alignment between two strings.
package similarity

import (
	"github.com/cidrlab/slrkit/internal/normalize"
)

// Ratio returns a similarity score in [0, 1] for two comparable strings:
// twice the number of characters covered by the longest common alignment,
// divided by the total length of both strings. Identical non-empty strings
// score exactly 1.0; if either string is empty the score is 0.0.
//
// The pair is ordered canonically before matching, so Ratio(a, b) ==
// Ratio(b, a) holds exactly.
func Ratio(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	if b < a {
		a, b = b, a
	}

	ra := []rune(a)
	rb := []rune(b)
	matched := matchingTotal(ra, rb)
	return 2 * float64(matched) / float64(len(ra)+len(rb))
}

// TitleRatio normalizes both titles and scores them.
func TitleRatio(a, b string) float64 {
	return Ratio(normalize.Key(a), normalize.Key(b))
}

// region is a pair of half-open index ranges still to be aligned.
type region struct {
	alo, ahi int
	blo, bhi int
}

// matchingTotal sums the sizes of the matching blocks found by repeatedly
// taking the longest common substring of each unaligned region and
// recursing on the pieces to its left and right.
func matchingTotal(a, b []rune) int {
	b2j := make(map[rune][]int, len(b))
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}

	total := 0
	stack := []region{{0, len(a), 0, len(b)}}
	for len(stack) > 0 {
		reg := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		i, j, size := longestMatch(a, b2j, reg)
		if size == 0 {
			continue
		}
		total += size

		if reg.alo < i && reg.blo < j {
			stack = append(stack, region{reg.alo, i, reg.blo, j})
		}
		if i+size < reg.ahi && j+size < reg.bhi {
			stack = append(stack, region{i + size, reg.ahi, j + size, reg.bhi})
		}
	}
	return total
}

// longestMatch finds the longest run of characters common to a[alo:ahi] and
// b[blo:bhi]. Of all maximal runs it returns the one starting earliest in a,
// then earliest in b.
func longestMatch(a []rune, b2j map[rune][]int, reg region) (besti, bestj, bestsize int) {
	besti, bestj = reg.alo, reg.blo
	j2len := make(map[int]int)
	for i := reg.alo; i < reg.ahi; i++ {
		newj2len := make(map[int]int)
		for _, j := range b2j[a[i]] {
			if j < reg.blo {
				continue
			}
			if j >= reg.bhi {
				break
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}
	return besti, bestj, bestsize
}
