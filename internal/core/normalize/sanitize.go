package normalize

import (
	"strings"
	"unicode"
)

// Sanitize drops invalid UTF-8 and control characters (C0, DEL, C1)
// newline, carriage return and tab survive
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n', r == '\r', r == '\t':
			return r
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, strings.ToValidUTF8(s, ""))
}
