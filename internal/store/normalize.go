package store

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Normalize produces the canonical form of an entry text: surrounding
// whitespace trimmed, everything lowercased, first letter capitalized.
// It is idempotent, and normalized texts are the store's natural keys.
func Normalize(text string) string {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(t)
	return string(unicode.ToUpper(r)) + t[size:]
}
