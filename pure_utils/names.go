package pure_utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var diacriticStripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// CleanName normalizes a name for matching: diacritics stripped, uppercased,
// anything but letters, digits and spaces removed, whitespace collapsed.
// Deterministic, so "José" and "Jose" clean to the same form.
func CleanName(name string) string {
	if stripped, _, err := transform.String(diacriticStripper, name); err == nil {
		name = stripped
	}

	var b strings.Builder
	b.Grow(len(name))

	lastWasSpace := true
	for _, r := range strings.ToUpper(name) {
		switch {
		case r >= 'A' && r <= 'Z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastWasSpace = false
		case unicode.IsSpace(r) || r == '-':
			if !lastWasSpace {
				b.WriteByte(' ')
			}
			lastWasSpace = true
		}
	}

	return strings.TrimRight(b.String(), " ")
}
