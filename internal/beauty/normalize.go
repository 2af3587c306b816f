package beauty

import (
	"strings"
	"unicode"
)

// NormalizeAttribute lowercases name and removes every whitespace rune, so
// "Dry Skin", "dry  skin" and "dryskin" compare equal.
func NormalizeAttribute(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, name)
}
