// Package suggest finds the closest known word to a mistyped one.
package suggest

import (
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Cutoff is the minimum similarity for a suggestion
const Cutoff = 0.6

// Similarity scores a and b between 0 (unrelated) and 1 (equal)
func Similarity(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(fuzzy.LevenshteinDistance(a, b))/float64(longest)
}

// Closest returns the candidate most similar to word, if any reaches
// Cutoff. Ties go to the lexicographically greatest candidate, so the
// answer does not depend on candidate order.
func Closest(word string, candidates []string) (string, bool) {
	best, bestScore := "", Cutoff
	found := false
	for _, c := range candidates {
		score := Similarity(word, c)
		switch {
		case score < bestScore:
		case !found, score > bestScore, c > best:
			best, bestScore, found = c, score, true
		}
	}
	return best, found
}
