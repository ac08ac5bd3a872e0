package pure_utils

import (
	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// NameSimilarity scores how close two names are, on [0, 1]. 1.0 means the
// cleaned names are equal; the score decreases with edit distance, normalized
// by name length so it stays comparable across short and long names.
// Symmetric by construction.
//
// The score is the better of two normalized metrics: Levenshtein catches
// typos and letter swaps on names of similar length, Jaro-Winkler rates
// short-form variants ("Jon Smith" vs "Jonathan Smyth") where raw edit
// distance would punish the missing letters too hard.
func NameSimilarity(a, b string) float64 {
	cleanedA := CleanName(a)
	cleanedB := CleanName(b)

	if cleanedA == cleanedB {
		if cleanedA == "" {
			return 0
		}
		return 1
	}
	if cleanedA == "" || cleanedB == "" {
		return 0
	}

	levenshtein := strutil.Similarity(cleanedA, cleanedB, metrics.NewLevenshtein())
	jaroWinkler := strutil.Similarity(cleanedA, cleanedB, metrics.NewJaroWinkler())

	return max(levenshtein, jaroWinkler)
}
