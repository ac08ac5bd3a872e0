package pure_utils

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// PhoneticCodes returns the primary and alternate Double Metaphone encodings
// of a name. Two encodings widen candidate recall: transliteration variants
// ("Mohammed", "Muhammad") often diverge on the primary code but meet on the
// alternate one. The alternate falls back to the primary when the algorithm
// yields no distinct secondary encoding.
//
// Multi-word names are encoded word by word and concatenated, so word order
// variants keep a common prefix per word.
func PhoneticCodes(name string) (primary string, alternate string) {
	cleaned := CleanName(name)
	if cleaned == "" {
		return "", ""
	}

	var prim, alt strings.Builder
	for word := range strings.SplitSeq(cleaned, " ") {
		p, a := matchr.DoubleMetaphone(word)
		prim.WriteString(p)
		if a == "" {
			a = p
		}
		alt.WriteString(a)
	}

	primary = prim.String()
	alternate = alt.String()
	if alternate == "" {
		alternate = primary
	}
	return primary, alternate
}
