// Package tokenize normalizes free text into comparable lexical units.
package tokenize

import (
	"strings"
	"unicode"
)

// Tokenize lower-cases text, treats every rune that is not a letter, digit
// or underscore as a separator and returns the non-empty tokens in order.
func Tokenize(text string) []string {
	if text == "" {
		return []string{}
	}
	normalized := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return r
		}
		return ' '
	}, strings.ToLower(text))

	fields := strings.Fields(normalized)
	if fields == nil {
		return []string{}
	}
	return fields
}
