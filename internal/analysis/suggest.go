package analysis

import (
	"strings"

	"golang.org/x/text/cases"
)

const (
	reasonVariant = "case/whitespace variant"
	reasonTypo    = "possible typo"
	maxTypoDist   = 2
)

// suggest finds the expected value closest to v. A match after case folding
// and trimming wins outright; otherwise the nearest value within maxTypoDist
// edits is returned. Ties go to the earlier entry of expected.
func suggest(fold cases.Caser, v string, expected []string) (match, reason string) {
	key := fold.String(strings.TrimSpace(v))
	for _, e := range expected {
		if fold.String(e) == key {
			return e, reasonVariant
		}
	}
	best, bestDist := "", maxTypoDist+1
	for _, e := range expected {
		if d := editDistance(key, fold.String(e)); d < bestDist {
			best, bestDist = e, d
		}
	}
	if best == "" {
		return "", ""
	}
	return best, reasonTypo
}

// editDistance is the Levenshtein distance over runes.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}
