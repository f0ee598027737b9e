package numparse

import (
	"unicode"
	"unicode/utf8"
)

// isSpace reports whether r is a StrWhiteSpaceChar: the ASCII controls
// TAB, LF, VT, FF, CR, the line/paragraph separators, BOM, NBSP and every
// Unicode Zs code point.
func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', '\u00a0', '\u2028', '\u2029', '\ufeff':
		return true
	}
	return r > utf8.RuneSelf && unicode.Is(unicode.Zs, r)
}

// skipSpace returns the byte offset of the first non-whitespace rune.
func skipSpace(s string) int {
	i := 0
	for i < len(s) {
		if s[i] < utf8.RuneSelf {
			if !isSpace(rune(s[i])) {
				return i
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if !isSpace(r) {
			return i
		}
		i += size
	}
	return i
}
