package detector

import (
	"unicode"
	"unicode/utf8"
)

// word runes are letters, digits, combining marks and connectors like '_'
// hyphens and other punctuation split words
func isWord(r rune) bool {
	return r != utf8.RuneError && unicode.In(r, unicode.L, unicode.N, unicode.Mn, unicode.Pc)
}

// enclosingWord returns s[start:end] widened to the word around it
func enclosingWord(s string, start, end int) string {
	for start > 0 {
		r, n := utf8.DecodeLastRuneInString(s[:start])
		if !isWord(r) {
			break
		}
		start -= n
	}
	for end < len(s) {
		r, n := utf8.DecodeRuneInString(s[end:])
		if !isWord(r) {
			break
		}
		end += n
	}
	return s[start:end]
}

// standalone reports whether s[start:end] has no word rune on either side
func standalone(s string, start, end int) bool {
	if start > 0 {
		if r, _ := utf8.DecodeLastRuneInString(s[:start]); isWord(r) {
			return false
		}
	}
	if end < len(s) {
		if r, _ := utf8.DecodeRuneInString(s[end:]); isWord(r) {
			return false
		}
	}
	return true
}
