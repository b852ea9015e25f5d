// Package fold normalizes text for case- and width-insensitive matching.
package fold

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/width"
)

// String folds full-width and half-width forms to their canonical width and
// applies Unicode case folding.
func String(s string) string {
	return cases.Fold().String(width.Fold.String(s))
}

// ContainsKeyword reports whether the folded text mentions the folded
// keyword kw. ASCII keywords must match a whole word, so "work" does not
// fire on "network" or "workout". Other keywords, such as CJK terms that
// are written without spaces, match anywhere.
func ContainsKeyword(text, kw string) bool {
	if kw == "" {
		return false
	}
	if !isASCII(kw) {
		return strings.Contains(text, kw)
	}
	for start := 0; start <= len(text)-len(kw); {
		i := strings.Index(text[start:], kw)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(kw)
		if !wordRuneBefore(text, i) && !wordRuneAt(text, end) {
			return true
		}
		start = i + 1
	}
	return false
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

func wordRuneBefore(s string, i int) bool {
	if i == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return isWordRune(r)
}

func wordRuneAt(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return isWordRune(r)
}
