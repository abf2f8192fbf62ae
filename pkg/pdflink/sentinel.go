package pdflink

import (
	"strings"
	"unicode/utf8"
)

const (
	// SentinelStart opens a sentinel region in plain text.
	SentinelStart = "⟦pnl:"
	// SentinelEnd closes a sentinel region.
	SentinelEnd = "⟧"

	// wordJoiner keeps the sentinel glued to its neighbours when text is reflowed.
	wordJoiner = "\u2060"
)

// BuildSentinelText wraps an encoded payload in sentinel delimiters so that a
// plain-text copy of the chip still carries a recoverable payload.
func BuildSentinelText(encoded string) string {
	var b strings.Builder
	b.Grow(len(encoded) + len(SentinelStart) + len(SentinelEnd) + 2*len(wordJoiner))
	b.WriteString(wordJoiner)
	b.WriteString(SentinelStart)
	b.WriteString(encoded)
	b.WriteString(SentinelEnd)
	b.WriteString(wordJoiner)
	return b.String()
}

// ExtractSentinelPayloads returns the encoded payloads found between sentinel
// delimiters in text, in left-to-right order. Unterminated regions, empty
// regions and regions holding characters outside the encoded alphabet are
// skipped and scanning resumes after the offending start delimiter.
func ExtractSentinelPayloads(text string) []string {
	var out []string
	rest := text
	for {
		i := strings.Index(rest, SentinelStart)
		if i < 0 {
			return out
		}
		rest = rest[i+len(SentinelStart):]

		n := scanEncoded(rest)
		if n > 0 && strings.HasPrefix(rest[n:], SentinelEnd) {
			out = append(out, rest[:n])
			rest = rest[n+len(SentinelEnd):]
		}
	}
}

// scanEncoded returns the byte length of the longest prefix of s made of
// encoded-alphabet characters.
func scanEncoded(s string) int {
	for i, c := range s {
		if c == utf8.RuneError || !IsEncodedChar(c) {
			return i
		}
	}
	return len(s)
}
