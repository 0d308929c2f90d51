package service

import (
	"strings"
	"unicode"
)

// cleanParsedText prepares parser output for embedding and storage. Invalid
// UTF-8 is dropped, form feeds become line breaks and the remaining control
// characters other than tab and newline are removed. PostgreSQL rejects NUL
// in text columns.
func cleanParsedText(s string) string {
	s = strings.ToValidUTF8(s, "")
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\f':
			return '\n'
		case r == '\n' || r == '\t':
			return r
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}
